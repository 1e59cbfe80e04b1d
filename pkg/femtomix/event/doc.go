// Package event defines the read-only records the pipeline consumes: events,
// particle candidates and the transient pairs built from them.
//
// Momenta are in GeV/c, vertex positions in cm and the magnetic field in T.
package event
