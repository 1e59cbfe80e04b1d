package cut

import "github.com/randalmurphal/femtomix/pkg/femtomix/event"

// Base carries the counters, lifecycle state and monitors shared by all
// cuts. Concrete cuts embed it and call record from Pass.
type Base struct {
	name     string
	state    State
	passed   int64
	failed   int64
	monitors *MonitorSet
	owner    Owner
}

func newBase(name string) Base {
	return Base{name: name, monitors: &MonitorSet{}}
}

// Name returns the class name of the cut.
func (b *Base) Name() string { return b.name }

// State returns the lifecycle state.
func (b *Base) State() State { return b.state }

// Counts returns the pass and fail totals.
func (b *Base) Counts() (passed, failed int64) { return b.passed, b.failed }

// Monitors returns the pass/fail monitor sinks.
func (b *Base) Monitors() *MonitorSet { return b.monitors }

// SetAnalysis records the owning analysis.
func (b *Base) SetAnalysis(owner Owner) { b.owner = owner }

// Analysis returns the owning analysis, or nil.
func (b *Base) Analysis() Owner { return b.owner }

// EventBegin enters the Active state.
func (b *Base) EventBegin(ev *event.Event) {
	if b.state == Terminal {
		panic(&LifecycleError{Cut: b.name, Op: "EventBegin", State: b.state})
	}
	b.state = Active
	b.monitors.EventBegin(ev)
}

// EventEnd returns to Idle. It is a no-op unless Active.
func (b *Base) EventEnd(ev *event.Event) {
	if b.state != Active {
		return
	}
	b.state = Idle
	b.monitors.EventEnd(ev)
}

// Finish enters the Terminal state. Repeated calls do nothing.
func (b *Base) Finish() {
	if b.state == Terminal {
		return
	}
	b.state = Terminal
	b.monitors.Finish()
}

// record counts one Pass result and feeds the matching monitor.
func (b *Base) record(pass bool, candidate any) bool {
	if b.state != Active {
		panic(&LifecycleError{Cut: b.name, Op: "Pass", State: b.state})
	}
	if pass {
		b.passed++
	} else {
		b.failed++
	}
	b.monitors.Fill(pass, candidate)
	return pass
}
