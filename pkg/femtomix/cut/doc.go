// Package cut implements the selection stages of an analysis: event cuts,
// particle cuts and pair cuts.
//
// Every cut embeds Base, which counts pass/fail results, feeds the optional
// pass/fail monitors and enforces the per-event lifecycle:
//
//	Idle --EventBegin--> Active --EventEnd--> Idle
//	any  --Finish-----> Terminal
//
// Pass outside Active panics with *LifecycleError.
//
// # Thresholds
//
// Range thresholds are configured as ranges (multiplicity: 10:100) and have
// a documented inclusivity per field. A sibling key <field>_bounds with one of
// "[]", "()", "[)" or "(]" overrides it:
//
//	{class: 'BasicEventCut', vertex_z: -8:8, vertex_z_bounds: '[]'}
//
// A range with low > high fails construction with *InvalidRangeError.
package cut
