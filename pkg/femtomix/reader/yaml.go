package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// YAMLReader reads a multi-document YAML stream, one event per document.
type YAMLReader struct {
	path string
	f    *os.File
	dec  *yaml.Decoder
	read int
}

// NewYAMLReader builds a YAMLReader from obj and opens its file.
func NewYAMLReader(obj *config.Object) (*YAMLReader, error) {
	var path string
	if !obj.PopAndLoad("path", &path) {
		return nil, fmt.Errorf("YAMLReader: %w", ErrPathRequired)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("YAMLReader: %w", err)
	}
	return &YAMLReader{path: path, f: f, dec: yaml.NewDecoder(f)}, nil
}

// Next decodes the next document.
func (r *YAMLReader) Next(ctx context.Context) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.f == nil {
		return nil, ErrClosed
	}
	var ev event.Event
	if err := r.dec.Decode(&ev); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%s: document %d: %w", r.path, r.read+1, err)
	}
	r.read++
	return &ev, nil
}

// Close closes the file.
func (r *YAMLReader) Close() error {
	if r.f == nil {
		return nil
	}
	err := r.f.Close()
	r.f = nil
	return err
}

// Report implements Reader.
func (r *YAMLReader) Report() string {
	return fmt.Sprintf("YAMLReader: %d events from %s\n", r.read, r.path)
}
