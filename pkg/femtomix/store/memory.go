package store

import (
	"slices"
	"sync"
	"time"
)

// MemoryStore keeps bundles in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	runs   map[string]map[string]entry
	order  []string
	seq    int
	closed bool
}

type entry struct {
	data     []byte
	sequence int
	savedAt  time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]map[string]entry)}
}

// Save implements Store. data is copied.
func (m *MemoryStore) Save(runID, analysis string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	run, ok := m.runs[runID]
	if !ok {
		run = make(map[string]entry)
		m.runs[runID] = run
		m.order = append(m.order, runID)
	}
	m.seq++
	run[analysis] = entry{data: slices.Clone(data), sequence: m.seq, savedAt: time.Now().UTC()}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(runID, analysis string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	e, ok := m.runs[runID][analysis]
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(e.data), nil
}

// List implements Store.
func (m *MemoryStore) List(runID string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	run := m.runs[runID]
	infos := make([]Info, 0, len(run))
	for name, e := range run {
		infos = append(infos, Info{
			RunID:    runID,
			Analysis: name,
			Sequence: e.sequence,
			SavedAt:  e.savedAt,
			Size:     int64(len(e.data)),
		})
	}
	slices.SortFunc(infos, func(a, b Info) int { return a.Sequence - b.Sequence })
	return infos, nil
}

// Runs implements Store.
func (m *MemoryStore) Runs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}
	return slices.Clone(m.order), nil
}

// Delete implements Store. Deleting a missing entry is not an error.
func (m *MemoryStore) Delete(runID, analysis string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	if run, ok := m.runs[runID]; ok {
		delete(run, analysis)
		if len(run) == 0 {
			m.dropRun(runID)
		}
	}
	return nil
}

// DeleteRun implements Store.
func (m *MemoryStore) DeleteRun(runID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}
	m.dropRun(runID)
	return nil
}

func (m *MemoryStore) dropRun(runID string) {
	delete(m.runs, runID)
	m.order = slices.DeleteFunc(m.order, func(id string) bool { return id == runID })
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	m.runs = nil
	m.order = nil
	return nil
}

// Len returns the number of stored bundles.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, run := range m.runs {
		n += len(run)
	}
	return n
}
