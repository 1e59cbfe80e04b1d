// Package corrfn defines the correlation-function contract and the builtin
// accumulators fed by an analysis.
//
// A correlation function receives every pair that passed the pair cut,
// tagged Real or Mixed. Pairs are transient; implementations copy whatever
// they need before returning.
package corrfn

import (
	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// CorrFctn accumulates pair distributions for one analysis.
type CorrFctn interface {
	// Name identifies the instance in the output bundle.
	Name() string
	AddRealPair(p *event.Pair)
	AddMixedPair(p *event.Pair)
	EventBegin(ev *event.Event)
	EventEnd(ev *event.Event)
	// Finish is called once after the last event. An error fails the
	// analysis.
	Finish() error
	Report() string
	AppendSettings(list []string, prefix string) []string
	OutputList() []hist.Object
}

// base supplies the instance name and no-op event hooks.
type base struct {
	name string
}

func newBase(obj *config.Object, class string) base {
	b := base{name: class}
	obj.PopAndLoad("name", &b.name)
	return b
}

func (b *base) Name() string { return b.name }

func (b *base) EventBegin(*event.Event) {}

func (b *base) EventEnd(*event.Event) {}
