// Package registry provides a generic thread-safe registry and the
// name-keyed factory tables that build pipeline components from
// configuration.
//
// # Registry
//
// Registry is a read-mostly table guarded by sync.RWMutex that keeps keys in
// insertion order. Register rejects duplicate keys. GetOrCreate gives
// thread-safe lazy initialization, which the mixing engine uses to create one
// pool per bin:
//
//	pools := registry.New[mixing.BinIndex, *mixing.Pool]()
//	pool := pools.GetOrCreate(bin, func() *mixing.Pool {
//	    return mixing.NewPool(depth, minSize)
//	})
//
// # Factory Tables
//
// Factories[T] maps class names to constructors for one capability. Each
// capability (EventCut, ParticleCut, PairCut, CorrelationFunction,
// EventReader, Analysis) gets its own table, so asking the PairCut table for a
// name registered only as a correlation function yields *UnknownClassError.
//
//	cuts := registry.NewFactories[cut.EventCut](registry.EventCut)
//	cuts.MustRegister("BasicEventCut", cut.NewBasicEventCut)
//
//	obj, _ := config.Parse(`{class: 'BasicEventCut', multiplicity: 10:100}`)
//	c, err := cuts.Construct(obj)
//
// Construct consumes the class key before calling the factory. A missing
// class key fails with ErrMissingClassKey; factory failures come back as
// *ConstructionError. The first Construct seals the table.
package registry
