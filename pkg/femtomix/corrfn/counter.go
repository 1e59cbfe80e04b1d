package corrfn

import (
	"fmt"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// Counts is the output object of PairCounter.
type Counts struct {
	Name   string `json:"name"`
	Events int64  `json:"events"`
	Real   int64  `json:"real"`
	Mixed  int64  `json:"mixed"`
}

// ObjectName implements hist.Object.
func (c *Counts) ObjectName() string { return c.Name }

// PairCounter counts the events and pairs it sees. It takes only name.
type PairCounter struct {
	base
	counts Counts
}

// NewPairCounter builds a PairCounter from obj.
func NewPairCounter(obj *config.Object) (*PairCounter, error) {
	c := &PairCounter{base: newBase(obj, "PairCounter")}
	c.counts.Name = c.name
	return c, nil
}

// EventEnd counts one event.
func (c *PairCounter) EventEnd(*event.Event) { c.counts.Events++ }

// AddRealPair counts a real pair.
func (c *PairCounter) AddRealPair(*event.Pair) { c.counts.Real++ }

// AddMixedPair counts a mixed pair.
func (c *PairCounter) AddMixedPair(*event.Pair) { c.counts.Mixed++ }

// Counts returns the totals so far.
func (c *PairCounter) Counts() Counts { return c.counts }

// Finish implements CorrFctn.
func (c *PairCounter) Finish() error { return nil }

// Report implements CorrFctn.
func (c *PairCounter) Report() string {
	return fmt.Sprintf("%s: %d events, %d real pairs, %d mixed pairs\n",
		c.name, c.counts.Events, c.counts.Real, c.counts.Mixed)
}

// AppendSettings implements CorrFctn. PairCounter has no settings.
func (c *PairCounter) AppendSettings(list []string, _ string) []string { return list }

// OutputList implements CorrFctn.
func (c *PairCounter) OutputList() []hist.Object {
	out := c.counts
	return []hist.Object{&out}
}
