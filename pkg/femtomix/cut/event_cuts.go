package cut

import (
	"errors"
	"fmt"
	"strings"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/expr"
)

type qualityRange struct {
	name   string
	bounds Bounds
}

// loadQuality reads the optional quality map of scalar name to Range.
// Entries keep configuration order.
func loadQuality(obj *config.Object, cut string) ([]qualityRange, error) {
	q, ok := obj.Child("quality")
	if !ok {
		return nil, nil
	}
	var out []qualityRange
	for _, key := range q.Keys() {
		if strings.HasSuffix(key, "_bounds") {
			continue
		}
		var r [2]float64
		if !q.PopAndLoad(key, &r) {
			return nil, fmt.Errorf("%s.quality.%s: expected a range", cut, key)
		}
		b, err := loadBounds(q, cut+".quality", key, Closed(r[0], r[1]))
		if err != nil {
			return nil, err
		}
		out = append(out, qualityRange{name: key, bounds: b})
	}
	return out, nil
}

func passQuality(ev *event.Event, ranges []qualityRange) bool {
	for _, q := range ranges {
		if !q.bounds.Contains(ev.MustScalar(q.name)) {
			return false
		}
	}
	return true
}

func qualitySettings(list []string, prefix string, ranges []qualityRange) []string {
	for _, q := range ranges {
		list = rangeSettings(list, prefix+".quality."+q.name, q.bounds)
	}
	return list
}

func triggerMatches(mask, want uint64) bool {
	return want == 0 || mask&want != 0
}

func loadTrigger(obj *config.Object, cut string) (uint64, error) {
	var trigger int64
	obj.PopAndLoad("trigger", &trigger)
	if trigger < 0 {
		return 0, fmt.Errorf("%s.trigger: mask %d is negative", cut, trigger)
	}
	return uint64(trigger), nil
}

// BasicEventCut selects events on multiplicity, vertex z, reaction-plane
// angle, trigger mask and optional quality scalars.
//
// Defaults: multiplicity [0, 100000], vertex_z (-100, 100),
// psi_ep (-1000, 1000), trigger 0 (any). A quality scalar missing from the
// event panics with *event.MissingFieldError.
type BasicEventCut struct {
	Base
	mult              Bounds
	vertexZ           Bounds
	psiEP             Bounds
	trigger           uint64
	requireZDC        bool
	acceptOnlyPhysics bool
	quality           []qualityRange
}

// NewBasicEventCut builds a BasicEventCut from obj.
func NewBasicEventCut(obj *config.Object) (*BasicEventCut, error) {
	const name = "BasicEventCut"
	c := &BasicEventCut{Base: newBase(name)}
	var err error
	if c.mult, err = loadBounds(obj, name, "multiplicity", Closed(0, 100000)); err != nil {
		return nil, err
	}
	if c.vertexZ, err = loadBounds(obj, name, "vertex_z", Open(-100, 100)); err != nil {
		return nil, err
	}
	if c.psiEP, err = loadBounds(obj, name, "psi_ep", Open(-1000, 1000)); err != nil {
		return nil, err
	}
	if c.trigger, err = loadTrigger(obj, name); err != nil {
		return nil, err
	}
	obj.PopAndLoad("require_zdc", &c.requireZDC)
	obj.PopAndLoad("accept_only_physics", &c.acceptOnlyPhysics)
	if c.quality, err = loadQuality(obj, name); err != nil {
		return nil, err
	}
	return c, nil
}

// Multiplicity returns the multiplicity bounds.
func (c *BasicEventCut) Multiplicity() Bounds { return c.mult }

// VertexZ returns the vertex z bounds.
func (c *BasicEventCut) VertexZ() Bounds { return c.vertexZ }

// Pass tests ev and counts the result.
func (c *BasicEventCut) Pass(ev *event.Event) bool {
	ok := c.mult.Contains(float64(ev.Multiplicity)) &&
		c.vertexZ.Contains(ev.Vertex.Z) &&
		c.psiEP.Contains(ev.ReactionPlane) &&
		triggerMatches(ev.TriggerMask, c.trigger) &&
		(!c.requireZDC || ev.ZDCParticipants > 1) &&
		(!c.acceptOnlyPhysics || ev.PhysicsSelected) &&
		passQuality(ev, c.quality)
	return c.record(ok, ev)
}

// Report returns the thresholds and totals.
func (c *BasicEventCut) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Multiplicity:\t %g - %g\n", c.mult.Low, c.mult.High)
	fmt.Fprintf(&b, "Vertex Z-position:\t %E - %E\n", c.vertexZ.Low, c.vertexZ.High)
	fmt.Fprintf(&b, "Number of events which passed:\t%d  Number which failed:\t%d\n", c.passed, c.failed)
	return b.String()
}

// AppendSettings implements Reporter.
func (c *BasicEventCut) AppendSettings(list []string, prefix string) []string {
	p := prefix + "BasicEventCut"
	list = rangeSettings(list, p+".mult", c.mult)
	list = rangeSettings(list, p+".vertex", c.vertexZ)
	list = rangeSettings(list, p+".psiep", c.psiEP)
	list = append(list,
		fmt.Sprintf("%s.trigger=%d", p, c.trigger),
		p+".require_zdc="+formatBool(c.requireZDC),
		p+".accept_only_physics="+formatBool(c.acceptOnlyPhysics),
	)
	return qualitySettings(list, p, c.quality)
}

// CentralityEventCut selects events on centrality percentile and vertex z.
//
// Defaults: centrality [0, 90), vertex_z (-10, 10), trigger 0 (any).
type CentralityEventCut struct {
	Base
	centrality Bounds
	vertexZ    Bounds
	trigger    uint64
	quality    []qualityRange
}

// NewCentralityEventCut builds a CentralityEventCut from obj.
func NewCentralityEventCut(obj *config.Object) (*CentralityEventCut, error) {
	const name = "CentralityEventCut"
	c := &CentralityEventCut{Base: newBase(name)}
	var err error
	if c.centrality, err = loadBounds(obj, name, "centrality", HalfOpen(0, 90)); err != nil {
		return nil, err
	}
	if c.vertexZ, err = loadBounds(obj, name, "vertex_z", Open(-10, 10)); err != nil {
		return nil, err
	}
	if c.trigger, err = loadTrigger(obj, name); err != nil {
		return nil, err
	}
	if c.quality, err = loadQuality(obj, name); err != nil {
		return nil, err
	}
	return c, nil
}

// Pass tests ev and counts the result.
func (c *CentralityEventCut) Pass(ev *event.Event) bool {
	ok := c.centrality.Contains(ev.Centrality) &&
		c.vertexZ.Contains(ev.Vertex.Z) &&
		triggerMatches(ev.TriggerMask, c.trigger) &&
		passQuality(ev, c.quality)
	return c.record(ok, ev)
}

// Report returns the thresholds and totals.
func (c *CentralityEventCut) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Centrality:\t %s\n", c.centrality)
	fmt.Fprintf(&b, "Vertex Z-position:\t %E - %E\n", c.vertexZ.Low, c.vertexZ.High)
	fmt.Fprintf(&b, "Number of events which passed:\t%d  Number which failed:\t%d\n", c.passed, c.failed)
	return b.String()
}

// AppendSettings implements Reporter.
func (c *CentralityEventCut) AppendSettings(list []string, prefix string) []string {
	p := prefix + "CentralityEventCut"
	list = rangeSettings(list, p+".centrality", c.centrality)
	list = rangeSettings(list, p+".vertex", c.vertexZ)
	list = append(list, fmt.Sprintf("%s.trigger=%d", p, c.trigger))
	return qualitySettings(list, p, c.quality)
}

// ExpressionEventCut selects events with a boolean expression over event
// scalars, e.g. "multiplicity > 50 and centrality < 10". Identifiers are
// resolved with event.Event.Scalar; an unknown one panics with
// *event.MissingFieldError.
type ExpressionEventCut struct {
	Base
	source string
	eval   *expr.Evaluator
}

// NewExpressionEventCut builds an ExpressionEventCut from obj. The expr key
// is required.
func NewExpressionEventCut(obj *config.Object) (*ExpressionEventCut, error) {
	c := &ExpressionEventCut{
		Base: newBase("ExpressionEventCut"),
		eval: expr.New(),
	}
	if !obj.PopAndLoad("expr", &c.source) {
		return nil, errors.New("ExpressionEventCut: expr is required")
	}
	if err := c.eval.Check(c.source); err != nil {
		return nil, fmt.Errorf("ExpressionEventCut: %q: %w", c.source, err)
	}
	return c, nil
}

// Pass evaluates the expression against ev and counts the result.
func (c *ExpressionEventCut) Pass(ev *event.Event) bool {
	ok, err := c.eval.EvaluateWith(c.source, func(name string) (any, bool) {
		v, err := ev.Scalar(name)
		return v, err == nil
	})
	if err != nil {
		var unknown *expr.UnknownVariableError
		if errors.As(err, &unknown) {
			panic(&event.MissingFieldError{EventID: ev.ID, Field: unknown.Name})
		}
		panic(err)
	}
	return c.record(ok, ev)
}

// Report returns the expression and totals.
func (c *ExpressionEventCut) Report() string {
	return fmt.Sprintf("Expression:\t %s\nNumber of events which passed:\t%d  Number which failed:\t%d\n",
		c.source, c.passed, c.failed)
}

// AppendSettings implements Reporter.
func (c *ExpressionEventCut) AppendSettings(list []string, prefix string) []string {
	return append(list, prefix+"ExpressionEventCut.expr="+c.source)
}
