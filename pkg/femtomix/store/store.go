// Package store keeps finished output bundles, keyed by run ID and analysis
// name, so that a run can be inspected after the process exits.
package store

import (
	"errors"
	"time"
)

// Store persists serialized output bundles.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores data for (runID, analysis), replacing any earlier value.
	Save(runID, analysis string, data []byte) error

	// Load returns ErrNotFound when nothing was saved for (runID, analysis).
	Load(runID, analysis string) ([]byte, error)

	// List returns the entries of a run in save order. An unknown run
	// yields an empty result.
	List(runID string) ([]Info, error)

	// Runs returns every run ID, oldest first.
	Runs() ([]string, error)

	Delete(runID, analysis string) error
	DeleteRun(runID string) error
	Close() error
}

// Info describes a stored bundle without its payload.
type Info struct {
	RunID    string    `json:"run_id"`
	Analysis string    `json:"analysis"`
	Sequence int       `json:"sequence"`
	SavedAt  time.Time `json:"saved_at"`
	Size     int64     `json:"size"`
}

var (
	// ErrNotFound is returned by Load for a missing entry.
	ErrNotFound = errors.New("bundle not found")

	// ErrStoreClosed is returned by every operation after Close.
	ErrStoreClosed = errors.New("store closed")
)
