// Package femtomix builds femtoscopy analyses from configuration text and
// runs them over event streams.
//
// An Analysis owns one event cut, one or two particle cuts, a pair cut, a
// list of correlation functions and the per-bin mixing pools. For each event
// it forms real pairs within the event and mixed pairs against buffered
// events of the same (vertex, multiplicity) bin:
//
//	cat := femtomix.NewCatalog()
//	a, err := femtomix.Construct(cat, `{class: 'AnalysisPionPion', name: 'pp'}`)
//	...
//	for _, ev := range events {
//		if err := a.ProcessEvent(ev); err != nil { ... }
//	}
//	a.Finish()
//	bundle, _ := a.GetOutputList()
//
// A Manager reads events from a configured reader and drives several
// analyses concurrently, one goroutine each. Analyses never share mutable
// state; the Catalog is read-only once construction starts.
package femtomix
