package registry

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration and construction.
var (
	// ErrDuplicate indicates a name or key was registered twice.
	ErrDuplicate = errors.New("already registered")

	// ErrSealed indicates a factory table was modified after its first lookup.
	ErrSealed = errors.New("registry sealed after first lookup")

	// ErrMissingClassKey indicates a component configuration has no class key.
	ErrMissingClassKey = errors.New("missing class key")
)

// RegistrationError reports a rejected Register call.
type RegistrationError struct {
	Capability Capability
	Name       string
	Err        error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s %q: %v", e.Capability, e.Name, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// UnknownClassError indicates no factory is registered under Name for the
// capability that was asked.
type UnknownClassError struct {
	Capability Capability
	Name       string
	Path       string
}

// Error implements the error interface.
func (e *UnknownClassError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("unknown %s class %q", e.Capability, e.Name)
	}
	return fmt.Sprintf("unknown %s class %q at %s", e.Capability, e.Name, e.Path)
}

// ConstructionError wraps a failure while building a component.
type ConstructionError struct {
	Capability Capability
	// Class is empty when the class key itself was the problem.
	Class string
	// Path is the dotted location of the component's configuration.
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ConstructionError) Error() string {
	where := e.Path
	if where == "" {
		where = "<root>"
	}
	if e.Class == "" {
		return fmt.Sprintf("construct %s at %s: %v", e.Capability, where, e.Err)
	}
	return fmt.Sprintf("construct %s %q at %s: %v", e.Capability, e.Class, where, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ConstructionError) Unwrap() error {
	return e.Err
}
