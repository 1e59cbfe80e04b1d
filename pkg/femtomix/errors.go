package femtomix

import (
	"errors"
	"fmt"
)

// Sentinel errors for the host lifecycle of an Analysis.
var (
	// ErrTerminal indicates a call after Finish.
	ErrTerminal = errors.New("analysis already finished")

	// ErrNotFinished indicates GetOutputList before Finish.
	ErrNotFinished = errors.New("analysis not finished")

	// ErrNoActiveEvent indicates EventEnd without a matching EventBegin.
	ErrNoActiveEvent = errors.New("no active event")

	// ErrEventMismatch indicates a callback for an event other than the
	// active one.
	ErrEventMismatch = errors.New("event does not match the active event")

	// ErrFailed indicates a component panicked earlier in the run. The
	// analysis accepts no further calls and its output is invalid.
	ErrFailed = errors.New("analysis failed")

	// ErrNilEvent indicates a nil event was passed to a callback.
	ErrNilEvent = errors.New("nil event")
)

// Sentinel errors for the Manager.
var (
	// ErrNoAnalyses indicates a run configuration without analyses.
	ErrNoAnalyses = errors.New("no analyses configured")

	// ErrAlreadyRun indicates a second Run on the same Manager.
	ErrAlreadyRun = errors.New("manager already ran")
)

// ComponentError is a panic recovered from a cut or correlation function
// while an event was processed, or an error returned by a correlation
// function's Finish. Both *event.MissingFieldError and *cut.LifecycleError
// reach the host this way.
type ComponentError struct {
	// Analysis is the name of the failed analysis.
	Analysis string
	// Component names the cut or correlation function that panicked.
	Component string
	// Event is the ID of the event being processed.
	Event int64
	// Err is the panic value, wrapped when it was not an error.
	Err error
	// Stack is the stack trace at the panic. Empty for Finish errors.
	Stack string
}

// Error implements the error interface.
func (e *ComponentError) Error() string {
	return fmt.Sprintf("analysis %s: %s failed on event %d: %v", e.Analysis, e.Component, e.Event, e.Err)
}

// Unwrap exposes both ErrFailed and the panic value to errors.Is/As.
func (e *ComponentError) Unwrap() []error {
	return []error{ErrFailed, e.Err}
}

// ConfigError reports an analysis or run setting that cannot be used.
type ConfigError struct {
	// Path is the dotted location of the offending object.
	Path string
	// Key is the offending key within it.
	Key string
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("config %s.%s: %v", e.Path, e.Key, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}
