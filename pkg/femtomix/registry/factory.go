package registry

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
)

// Capability names the interface a factory table produces.
type Capability string

// Pipeline capabilities. Each has its own factory table, so a name registered
// under one capability is unknown to the others.
const (
	EventCut            Capability = "EventCut"
	ParticleCut         Capability = "ParticleCut"
	PairCut             Capability = "PairCut"
	CorrelationFunction Capability = "CorrelationFunction"
	EventReader         Capability = "EventReader"
	Analysis            Capability = "Analysis"
)

// ClassKey is the configuration key naming the class to construct.
const ClassKey = "class"

// Factory builds a component from its configuration. The class key has
// already been consumed when the factory runs.
type Factory[T any] func(obj *config.Object) (T, error)

// Factories maps class names to factories for one capability.
//
// Registration happens during setup; the first Construct seals the table and
// later registrations fail with ErrSealed. Lookups are safe for concurrent use.
type Factories[T any] struct {
	capability Capability
	entries    *Registry[string, Factory[T]]
	sealed     atomic.Bool
}

// NewFactories creates an empty factory table for capability.
func NewFactories[T any](capability Capability) *Factories[T] {
	return &Factories[T]{
		capability: capability,
		entries:    New[string, Factory[T]](),
	}
}

// Capability returns the capability this table produces.
func (f *Factories[T]) Capability() Capability {
	return f.capability
}

// Register adds a factory under name.
func (f *Factories[T]) Register(name string, factory Factory[T]) error {
	if f.sealed.Load() {
		return &RegistrationError{Capability: f.capability, Name: name, Err: ErrSealed}
	}
	if name == "" || factory == nil {
		return &RegistrationError{Capability: f.capability, Name: name, Err: fmt.Errorf("empty name or nil factory")}
	}
	if err := f.entries.Register(name, factory); err != nil {
		return &RegistrationError{Capability: f.capability, Name: name, Err: err}
	}
	return nil
}

// MustRegister is Register that panics on error. Use it for builtin tables.
func (f *Factories[T]) MustRegister(name string, factory Factory[T]) {
	if err := f.Register(name, factory); err != nil {
		panic(err)
	}
}

// Has reports whether name is registered.
func (f *Factories[T]) Has(name string) bool {
	return f.entries.Has(name)
}

// Names returns the registered names, sorted.
func (f *Factories[T]) Names() []string {
	names := f.entries.Keys()
	sort.Strings(names)
	return names
}

// Construct reads and consumes the class key of obj, looks up the factory
// and runs it on obj.
func (f *Factories[T]) Construct(obj *config.Object) (T, error) {
	f.sealed.Store(true)

	var zero T
	if !obj.Has(ClassKey) {
		return zero, &ConstructionError{Capability: f.capability, Path: obj.Path(), Err: ErrMissingClassKey}
	}
	var name string
	if !obj.PopAndLoad(ClassKey, &name) {
		return zero, &ConstructionError{
			Capability: f.capability,
			Path:       obj.Path(),
			Err:        fmt.Errorf("%w: class must be a string", ErrMissingClassKey),
		}
	}

	factory, ok := f.entries.Get(name)
	if !ok {
		return zero, &UnknownClassError{Capability: f.capability, Name: name, Path: obj.Path()}
	}

	v, err := factory(obj)
	if err != nil {
		return zero, &ConstructionError{Capability: f.capability, Class: name, Path: obj.Path(), Err: err}
	}
	return v, nil
}
