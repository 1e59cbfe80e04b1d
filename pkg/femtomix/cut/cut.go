package cut

import (
	"fmt"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// State is a cut's position in the per-event lifecycle.
type State int

// Lifecycle states. Idle → EventBegin → Active → EventEnd → Idle, and
// Finish moves any state to Terminal.
const (
	Idle State = iota
	Active
	Terminal
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Owner is the non-owning back-reference a cut keeps to its analysis.
type Owner interface {
	Name() string
}

// Lifecycle is the per-event protocol every pipeline component follows.
type Lifecycle interface {
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	Finish()
	State() State
}

// Reporter exposes a cut's bookkeeping.
type Reporter interface {
	Name() string
	Report() string
	// AppendSettings appends one "prefix<Class>.<field>=<value>" line per
	// effective threshold.
	AppendSettings(list []string, prefix string) []string
	Counts() (passed, failed int64)
}

// Component is the part common to all cuts.
type Component interface {
	Lifecycle
	Reporter
	Monitors() *MonitorSet
	SetAnalysis(owner Owner)
}

// EventCut selects events.
type EventCut interface {
	Component
	Pass(ev *event.Event) bool
}

// ParticleCut selects particle candidates and assigns them a mass.
type ParticleCut interface {
	Component
	Pass(p *event.Particle) bool
	Mass() float64
}

// PairCut selects pairs.
type PairCut interface {
	Component
	Pass(p *event.Pair) bool
}
