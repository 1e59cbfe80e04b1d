package cut

import (
	"math"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// Monitor accumulates diagnostics for candidates that passed or failed a cut.
type Monitor interface {
	Fill(candidate any)
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	Finish()
	OutputList() []hist.Object
}

// MonitorSet holds the optional pass and fail sinks of a cut. Methods are
// safe on a nil set and with nil sinks.
type MonitorSet struct {
	Pass Monitor
	Fail Monitor
}

// Set installs both sinks.
func (m *MonitorSet) Set(pass, fail Monitor) {
	m.Pass, m.Fail = pass, fail
}

// Fill routes candidate to the pass or fail sink.
func (m *MonitorSet) Fill(pass bool, candidate any) {
	if m == nil {
		return
	}
	if pass && m.Pass != nil {
		m.Pass.Fill(candidate)
	} else if !pass && m.Fail != nil {
		m.Fail.Fill(candidate)
	}
}

func (m *MonitorSet) each(fn func(Monitor)) {
	if m == nil {
		return
	}
	if m.Pass != nil {
		fn(m.Pass)
	}
	if m.Fail != nil {
		fn(m.Fail)
	}
}

// EventBegin forwards to both sinks.
func (m *MonitorSet) EventBegin(ev *event.Event) { m.each(func(x Monitor) { x.EventBegin(ev) }) }

// EventEnd forwards to both sinks.
func (m *MonitorSet) EventEnd(ev *event.Event) { m.each(func(x Monitor) { x.EventEnd(ev) }) }

// Finish forwards to both sinks.
func (m *MonitorSet) Finish() { m.each(func(x Monitor) { x.Finish() }) }

// Outputs returns the output objects of the pass and fail sinks.
func (m *MonitorSet) Outputs() (pass, fail []hist.Object) {
	if m == nil {
		return nil, nil
	}
	if m.Pass != nil {
		pass = m.Pass.OutputList()
	}
	if m.Fail != nil {
		fail = m.Fail.OutputList()
	}
	return pass, fail
}

type monitorHooks struct{}

func (monitorHooks) EventBegin(*event.Event) {}
func (monitorHooks) EventEnd(*event.Event)   {}
func (monitorHooks) Finish()                 {}

// EventMultVertexMonitor histograms event multiplicity and vertex z.
type EventMultVertexMonitor struct {
	monitorHooks
	Mult    *hist.Histogram1D
	VertexZ *hist.Histogram1D
}

// NewEventMultVertexMonitor creates a monitor whose histogram names end in
// suffix.
func NewEventMultVertexMonitor(suffix string) *EventMultVertexMonitor {
	return &EventMultVertexMonitor{
		Mult:    hist.New1D("EvMult"+suffix, "Event multiplicity", 100, 0, 5000),
		VertexZ: hist.New1D("EvVertexZ"+suffix, "Vertex z (cm)", 80, -20, 20),
	}
}

// Fill implements Monitor for *event.Event.
func (m *EventMultVertexMonitor) Fill(candidate any) {
	ev, ok := candidate.(*event.Event)
	if !ok {
		return
	}
	m.Mult.Fill(float64(ev.Multiplicity))
	m.VertexZ.Fill(ev.Vertex.Z)
}

// OutputList implements Monitor.
func (m *EventMultVertexMonitor) OutputList() []hist.Object {
	return []hist.Object{m.Mult, m.VertexZ}
}

// TrackKinematicsMonitor histograms particle pt, eta and phi.
type TrackKinematicsMonitor struct {
	monitorHooks
	Pt  *hist.Histogram1D
	Eta *hist.Histogram1D
	Phi *hist.Histogram1D
}

// NewTrackKinematicsMonitor creates a monitor whose histogram names end in
// suffix.
func NewTrackKinematicsMonitor(suffix string) *TrackKinematicsMonitor {
	return &TrackKinematicsMonitor{
		Pt:  hist.New1D("TrPt"+suffix, "p_T (GeV/c)", 80, 0, 4),
		Eta: hist.New1D("TrEta"+suffix, "#eta", 60, -1.5, 1.5),
		Phi: hist.New1D("TrPhi"+suffix, "#phi", 72, -math.Pi, math.Pi),
	}
}

// Fill implements Monitor for *event.Particle.
func (m *TrackKinematicsMonitor) Fill(candidate any) {
	p, ok := candidate.(*event.Particle)
	if !ok {
		return
	}
	m.Pt.Fill(p.Pt())
	m.Eta.Fill(p.Eta())
	m.Phi.Fill(p.Phi())
}

// OutputList implements Monitor.
func (m *TrackKinematicsMonitor) OutputList() []hist.Object {
	return []hist.Object{m.Pt, m.Eta, m.Phi}
}

// PairQinvMonitor histograms q_inv separately for real and mixed pairs.
type PairQinvMonitor struct {
	monitorHooks
	Real  *hist.Histogram1D
	Mixed *hist.Histogram1D
}

// NewPairQinvMonitor creates a monitor whose histogram names end in suffix.
func NewPairQinvMonitor(suffix string) *PairQinvMonitor {
	return &PairQinvMonitor{
		Real:  hist.New1D("PairQinvReal"+suffix, "q_inv real (GeV/c)", 100, 0, 1),
		Mixed: hist.New1D("PairQinvMixed"+suffix, "q_inv mixed (GeV/c)", 100, 0, 1),
	}
}

// Fill implements Monitor for *event.Pair.
func (m *PairQinvMonitor) Fill(candidate any) {
	p, ok := candidate.(*event.Pair)
	if !ok {
		return
	}
	if p.Provenance == event.Mixed {
		m.Mixed.Fill(p.QInv())
	} else {
		m.Real.Fill(p.QInv())
	}
}

// OutputList implements Monitor.
func (m *PairQinvMonitor) OutputList() []hist.Object {
	return []hist.Object{m.Real, m.Mixed}
}
