package femtomix

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/randalmurphal/femtomix/pkg/femtomix/corrfn"
	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/mixing"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

// Counters are the event and pair totals of an analysis.
type Counters struct {
	Events       int64 `json:"events"`
	EventsPassed int64 `json:"events_passed"`
	// RealPairs and MixedPairs count pairs formed, before the pair cut.
	RealPairs  int64 `json:"real_pairs"`
	MixedPairs int64 `json:"mixed_pairs"`
	// RealPassed and MixedPassed count pairs delivered to correlation functions.
	RealPassed  int64 `json:"real_passed"`
	MixedPassed int64 `json:"mixed_passed"`
	// EmptyPools counts events whose mixing pool was not ready.
	EmptyPools int64 `json:"empty_pools"`
	// StrictOverflow counts overflow events excluded from pairing.
	StrictOverflow int64 `json:"strict_overflow"`
}

// Analysis is one configured pipeline. It is not safe for concurrent use;
// the host drives it one event at a time.
type Analysis struct {
	name      string
	class     string
	identical bool
	mc        bool
	verbose   bool
	// pionTypes is empty for analyses without pion defaults.
	pionTypes [2]string

	groupOutput    bool
	outputSettings bool

	eventCut cut.EventCut
	cut1     cut.ParticleCut
	cut2     cut.ParticleCut
	pairCut  cut.PairCut
	cfs      []corrfn.CorrFctn

	params mixing.Params
	pools  *registry.Registry[mixing.BinIndex, *mixing.Pool]
	config string

	logger  *slog.Logger
	metrics observability.MetricsRecorder

	current   *event.Event
	lastEnded *event.Event
	finished  bool
	failed    error
	stage     string
	counters  Counters
}

// Name returns the analysis name, used as the settings prefix.
func (a *Analysis) Name() string { return a.name }

// Class returns the registered class the analysis was built from.
func (a *Analysis) Class() string { return a.class }

// Identical reports whether both particle slots share one cut.
func (a *Analysis) Identical() bool { return a.identical }

// Counters returns the totals so far.
func (a *Analysis) Counters() Counters { return a.counters }

// Params returns the mixing parameters.
func (a *Analysis) Params() mixing.Params { return a.params }

// EventCut returns the event cut.
func (a *Analysis) EventCut() cut.EventCut { return a.eventCut }

// ParticleCuts returns the slot 1 and slot 2 cuts. In identical mode both
// are the same instance.
func (a *Analysis) ParticleCuts() (cut.ParticleCut, cut.ParticleCut) { return a.cut1, a.cut2 }

// PairCut returns the pair cut.
func (a *Analysis) PairCut() cut.PairCut { return a.pairCut }

// CorrFctns returns the correlation functions in registration order.
func (a *Analysis) CorrFctns() []corrfn.CorrFctn { return a.cfs }

// Pool returns the mixing pool of bin, if one was created.
func (a *Analysis) Pool(bin mixing.BinIndex) (*mixing.Pool, bool) { return a.pools.Get(bin) }

// Pools returns the number of mixing pools created so far.
func (a *Analysis) Pools() int { return a.pools.Len() }

func (a *Analysis) usable() error {
	if a.failed != nil {
		return fmt.Errorf("%w: %w", ErrFailed, a.failed)
	}
	if a.finished {
		return ErrTerminal
	}
	return nil
}

// guard runs fn and converts a component panic into a *ComponentError that
// fails the analysis.
func (a *Analysis) guard(ev *event.Event, fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cerr := &ComponentError{Analysis: a.name, Component: a.stage, Stack: string(debug.Stack())}
		if ev != nil {
			cerr.Event = ev.ID
		}
		if e, ok := r.(error); ok {
			cerr.Err = e
		} else {
			cerr.Err = fmt.Errorf("panic: %v", r)
		}
		a.failed = cerr
		err = cerr
	}()
	fn()
	return nil
}

// EventBegin opens ev for processing and propagates EventBegin to every
// component in the same order as EventEnd. Beginning the active event again
// does nothing.
func (a *Analysis) EventBegin(ev *event.Event) error {
	if err := a.usable(); err != nil {
		return err
	}
	if ev == nil {
		return ErrNilEvent
	}
	if a.current != nil {
		if a.current == ev {
			return nil
		}
		return fmt.Errorf("%w: event %d is active, got %d", ErrEventMismatch, a.current.ID, ev.ID)
	}
	return a.guard(ev, func() { a.begin(ev) })
}

func (a *Analysis) begin(ev *event.Event) {
	a.current, a.lastEnded = ev, nil
	a.each(func(c cut.Component) { c.EventBegin(ev) }, func(cf corrfn.CorrFctn) { cf.EventBegin(ev) })
}

// each visits the event cut, particle cuts, pair cut and correlation
// functions in their fixed order, recording the current stage.
func (a *Analysis) each(cuts func(cut.Component), cfs func(corrfn.CorrFctn)) {
	a.stage = a.eventCut.Name()
	cuts(a.eventCut)
	a.stage = a.cut1.Name()
	cuts(a.cut1)
	if !a.identical {
		a.stage = a.cut2.Name()
		cuts(a.cut2)
	}
	a.stage = a.pairCut.Name()
	cuts(a.pairCut)
	for _, cf := range a.cfs {
		a.stage = cf.Name()
		cfs(cf)
	}
}

// ProcessEvent runs the cut chain, pairing and pooling for ev and then ends
// it. The host may call EventBegin first; otherwise ProcessEvent does.
func (a *Analysis) ProcessEvent(ev *event.Event) error {
	if err := a.usable(); err != nil {
		return err
	}
	if ev == nil {
		return ErrNilEvent
	}
	if a.current != nil && a.current != ev {
		return fmt.Errorf("%w: event %d is active, got %d", ErrEventMismatch, a.current.ID, ev.ID)
	}

	return a.guard(ev, func() {
		if a.current == nil {
			a.begin(ev)
		}
		a.process(ev)
		a.end(ev)
	})
}

func (a *Analysis) process(ev *event.Event) {
	ctx := context.Background()
	a.counters.Events++

	bin, overflow := a.params.Bin(ev)

	a.stage = a.eventCut.Name()
	passed := a.eventCut.Pass(ev)
	a.metrics.RecordEvent(ctx, a.name, passed)
	if !passed {
		return
	}
	a.counters.EventsPassed++

	coll := mixing.Collection{EventID: ev.ID, First: a.accept(a.cut1, ev)}
	if !a.identical {
		coll.Second = a.accept(a.cut2, ev)
	}

	pool := a.pools.GetOrCreate(bin, func() *mixing.Pool {
		return mixing.NewPool(a.params.Depth, a.params.MinCollSize)
	})

	if overflow && a.params.Strict {
		a.counters.StrictOverflow++
	} else {
		realBefore, mixedBefore := a.counters.RealPassed, a.counters.MixedPassed
		a.realPairs(ev, coll)
		if pool.Ready() {
			a.mixedPairs(ev, coll, pool)
		} else {
			a.counters.EmptyPools++
			a.metrics.RecordEmptyPool(ctx, a.name)
			observability.LogEmptyPool(a.logger, ev.ID, bin.String(), pool.Size())
		}
		a.metrics.RecordPairs(ctx, a.name, event.Real.String(), a.counters.RealPassed-realBefore)
		a.metrics.RecordPairs(ctx, a.name, event.Mixed.String(), a.counters.MixedPassed-mixedBefore)
	}

	pool.Push(coll)
}

// accept copies the particles of ev that pass c, with the mass of c.
func (a *Analysis) accept(c cut.ParticleCut, ev *event.Event) []event.Particle {
	a.stage = c.Name()
	var out []event.Particle
	for i := range ev.Tracks {
		if !c.Pass(&ev.Tracks[i]) {
			continue
		}
		p := ev.Tracks[i]
		p.Mass = c.Mass()
		out = append(out, p)
	}
	return out
}

func (a *Analysis) realPairs(ev *event.Event, coll mixing.Collection) {
	pair := event.Pair{Provenance: event.Real, BField: ev.MagneticField}
	if a.identical {
		for i := range coll.First {
			for j := i + 1; j < len(coll.First); j++ {
				pair.First, pair.Second = &coll.First[i], &coll.First[j]
				a.deliver(&pair)
			}
		}
		return
	}
	for i := range coll.First {
		for j := range coll.Second {
			if coll.First[i].TrackID == coll.Second[j].TrackID {
				continue
			}
			pair.First, pair.Second = &coll.First[i], &coll.Second[j]
			a.deliver(&pair)
		}
	}
}

func (a *Analysis) mixedPairs(ev *event.Event, cur mixing.Collection, pool *mixing.Pool) {
	pair := event.Pair{Provenance: event.Mixed, BField: ev.MagneticField}
	cross := func(first, second []event.Particle) {
		for i := range first {
			for j := range second {
				pair.First, pair.Second = &first[i], &second[j]
				a.deliver(&pair)
			}
		}
	}
	pool.Each(func(buf mixing.Collection) {
		if a.identical {
			cross(cur.First, buf.First)
			return
		}
		cross(cur.First, buf.Second)
		cross(buf.First, cur.Second)
	})
}

func (a *Analysis) deliver(p *event.Pair) {
	isReal := p.Provenance == event.Real
	if isReal {
		a.counters.RealPairs++
	} else {
		a.counters.MixedPairs++
	}

	a.stage = a.pairCut.Name()
	if !a.pairCut.Pass(p) {
		return
	}
	if isReal {
		a.counters.RealPassed++
	} else {
		a.counters.MixedPassed++
	}
	for _, cf := range a.cfs {
		a.stage = cf.Name()
		if isReal {
			cf.AddRealPair(p)
		} else {
			cf.AddMixedPair(p)
		}
	}
}

// EventEnd closes ev. Ending an event that ProcessEvent already ended does
// nothing.
func (a *Analysis) EventEnd(ev *event.Event) error {
	if err := a.usable(); err != nil {
		return err
	}
	if ev == nil {
		return ErrNilEvent
	}
	if a.current == nil {
		if ev == a.lastEnded {
			return nil
		}
		return ErrNoActiveEvent
	}
	if a.current != ev {
		return fmt.Errorf("%w: event %d is active, got %d", ErrEventMismatch, a.current.ID, ev.ID)
	}
	return a.guard(ev, func() { a.end(ev) })
}

func (a *Analysis) end(ev *event.Event) {
	a.each(func(c cut.Component) { c.EventEnd(ev) }, func(cf corrfn.CorrFctn) { cf.EventEnd(ev) })
	a.current, a.lastEnded = nil, ev
}

// Finish ends any open event and finalizes every component exactly once.
// Later calls return ErrTerminal.
func (a *Analysis) Finish() error {
	if err := a.usable(); err != nil {
		return err
	}
	if a.current != nil {
		ev := a.current
		if err := a.guard(ev, func() { a.end(ev) }); err != nil {
			return err
		}
	}
	var finishErr *ComponentError
	err := a.guard(nil, func() {
		a.each(func(c cut.Component) { c.Finish() }, func(cf corrfn.CorrFctn) {
			if err := cf.Finish(); err != nil && finishErr == nil {
				finishErr = &ComponentError{Analysis: a.name, Component: cf.Name(), Err: err}
			}
		})
	})
	if err != nil {
		return err
	}
	if finishErr != nil {
		a.failed = finishErr
		return finishErr
	}
	a.finished = true

	c := a.counters
	observability.LogAnalysisFinished(a.logger, a.name, c.Events, c.EventsPassed, c.RealPassed, c.MixedPassed)
	if a.verbose && a.logger != nil {
		a.logger.Info("analysis report", slog.String("analysis", a.name), slog.String("report", a.Report()))
	}
	return nil
}

// Finished reports whether Finish completed.
func (a *Analysis) Finished() bool { return a.finished }

// Err returns the error that failed the analysis, or nil.
func (a *Analysis) Err() error { return a.failed }

func boolSetting(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// slotPrefixes returns the settings prefixes of the particle cuts.
func (a *Analysis) slotPrefixes() (string, string) {
	if a.identical {
		return a.name + ".", a.name + "."
	}
	return a.name + ".particle_1.", a.name + ".particle_2."
}

// ListSettings returns one "key=value" line per effective setting. The
// lines depend only on the configuration.
func (a *Analysis) ListSettings() []string {
	head := a.name + "." + a.class + "."
	list := []string{
		head + "mc_analysis=" + boolSetting(a.mc),
		head + "identical_analysis=" + boolSetting(a.identical),
	}
	if a.pionTypes[0] != "" {
		list = append(list, head+"pion_1_type="+a.pionTypes[0])
		if !a.identical {
			list = append(list, head+"pion_2_type="+a.pionTypes[1])
		}
	}
	list = a.params.AppendSettings(list, head)

	list = a.eventCut.AppendSettings(list, a.name+".")
	p1, p2 := a.slotPrefixes()
	list = a.cut1.AppendSettings(list, p1)
	if !a.identical {
		list = a.cut2.AppendSettings(list, p2)
	}
	list = a.pairCut.AppendSettings(list, a.name+".")
	for _, cf := range a.cfs {
		list = cf.AppendSettings(list, a.name+".")
	}
	return list
}

// Report returns a human-readable summary of every component.
func (a *Analysis) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", a.name, a.class)
	b.WriteString("Event cut: " + a.eventCut.Report())
	if a.identical {
		b.WriteString("Particle cut: " + a.cut1.Report())
	} else {
		b.WriteString("Particle cut 1: " + a.cut1.Report())
		b.WriteString("Particle cut 2: " + a.cut2.Report())
	}
	b.WriteString("Pair cut: " + a.pairCut.Report())
	for _, cf := range a.cfs {
		b.WriteString(cf.Report())
	}
	c := a.counters
	fmt.Fprintf(&b, "Events: %d processed, %d passed\n", c.Events, c.EventsPassed)
	fmt.Fprintf(&b, "Pairs: %d real (%d passed), %d mixed (%d passed)\n",
		c.RealPairs, c.RealPassed, c.MixedPairs, c.MixedPassed)
	fmt.Fprintf(&b, "Mixing: %d pools, %d events without a ready pool\n", a.pools.Len(), c.EmptyPools)
	return b.String()
}
