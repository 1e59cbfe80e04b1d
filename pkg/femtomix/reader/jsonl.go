package reader

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

const maxLineBytes = 64 << 20

// JSONLinesReader reads one JSON event per line from path. Blank lines are
// skipped.
type JSONLinesReader struct {
	path    string
	f       *os.File
	scanner *bufio.Scanner
	line    int
	read    int
}

// NewJSONLinesReader builds a JSONLinesReader from obj and opens its file.
func NewJSONLinesReader(obj *config.Object) (*JSONLinesReader, error) {
	var path string
	if !obj.PopAndLoad("path", &path) {
		return nil, fmt.Errorf("JSONLinesReader: %w", ErrPathRequired)
	}
	return OpenJSONLines(path)
}

// OpenJSONLines opens path for reading.
func OpenJSONLines(path string) (*JSONLinesReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("JSONLinesReader: %w", err)
	}
	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64<<10), maxLineBytes)
	return &JSONLinesReader{path: path, f: f, scanner: s}, nil
}

// Next decodes the next non-blank line.
func (r *JSONLinesReader) Next(ctx context.Context) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.f == nil {
		return nil, ErrClosed
	}
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev event.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", r.path, r.line, err)
		}
		r.read++
		return &ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", r.path, err)
	}
	return nil, io.EOF
}

// Close closes the file.
func (r *JSONLinesReader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// Report implements Reader.
func (r *JSONLinesReader) Report() string {
	return fmt.Sprintf("JSONLinesReader: %d events from %s\n", r.read, r.path)
}

// WriteJSONLines writes events to w, one per line.
func WriteJSONLines(w io.Writer, events []*event.Event) error {
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return fmt.Errorf("encode event %d: %w", ev.ID, err)
		}
	}
	return nil
}
