// Package reader provides the EventReader capability: sources that feed
// events to the manager one at a time.
//
// Every reader is built from a configuration object and returns io.EOF from
// Next when the stream ends.
package reader

import (
	"context"
	"errors"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// Reader yields events in a fixed order.
type Reader interface {
	// Next returns the next event, or io.EOF after the last one.
	Next(ctx context.Context) (*event.Event, error)
	Close() error
	// Report summarises what was read.
	Report() string
}

// ErrClosed is returned by Next after Close.
var ErrClosed = errors.New("reader closed")

// ErrPathRequired is returned when a file reader has no path key.
var ErrPathRequired = errors.New("path is required")
