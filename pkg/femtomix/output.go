package femtomix

import (
	"encoding/json"
	"fmt"

	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// OutputGroup holds the monitor outputs of one cut.
type OutputGroup struct {
	Name string        `json:"name"`
	Pass []hist.Object `json:"pass"`
	Fail []hist.Object `json:"fail"`
}

// CorrFctnOutput holds the output objects of one correlation function.
type CorrFctnOutput struct {
	Name    string        `json:"name"`
	Objects []hist.Object `json:"objects"`
}

// OutputBundle is everything a finished analysis publishes.
type OutputBundle struct {
	Analysis string `json:"analysis"`
	Class    string `json:"class"`
	// Groups is set when group_output_objects is on, Objects otherwise.
	Groups    []OutputGroup    `json:"groups,omitempty"`
	Objects   []hist.Object    `json:"objects,omitempty"`
	CorrFctns []CorrFctnOutput `json:"correlation_functions"`
	Settings  []string         `json:"settings,omitempty"`
	// Config is the pretty-printed configuration the analysis was built from.
	Config   string   `json:"config"`
	Counters Counters `json:"counters"`
}

// Group returns the monitor group called name.
func (b *OutputBundle) Group(name string) (OutputGroup, bool) {
	for _, g := range b.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return OutputGroup{}, false
}

// Find returns the first published object called name.
func (b *OutputBundle) Find(name string) (hist.Object, bool) {
	search := func(objs []hist.Object) hist.Object {
		for _, o := range objs {
			if o.ObjectName() == name {
				return o
			}
		}
		return nil
	}
	for _, g := range b.Groups {
		if o := search(g.Pass); o != nil {
			return o, true
		}
		if o := search(g.Fail); o != nil {
			return o, true
		}
	}
	if o := search(b.Objects); o != nil {
		return o, true
	}
	for _, cf := range b.CorrFctns {
		if o := search(cf.Objects); o != nil {
			return o, true
		}
	}
	return nil, false
}

// JSON encodes the bundle, indented.
func (b *OutputBundle) JSON() ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode bundle %s: %w", b.Analysis, err)
	}
	return data, nil
}

// GetOutputList assembles the output bundle. It may only be called after
// Finish and does not change the analysis.
func (a *Analysis) GetOutputList() (*OutputBundle, error) {
	if a.failed != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailed, a.failed)
	}
	if !a.finished {
		return nil, ErrNotFinished
	}

	b := &OutputBundle{
		Analysis:  a.name,
		Class:     a.class,
		Config:    a.config,
		Counters:  a.counters,
		CorrFctns: make([]CorrFctnOutput, 0, len(a.cfs)),
	}

	groups := []OutputGroup{group("Event", a.eventCut)}
	if a.identical {
		groups = append(groups, group("Tracks", a.cut1))
	} else {
		groups = append(groups, group("Track1", a.cut1), group("Track2", a.cut2))
	}
	groups = append(groups, group("Pair", a.pairCut))

	if a.groupOutput {
		b.Groups = groups
	} else {
		for _, g := range groups {
			b.Objects = append(b.Objects, g.Pass...)
			b.Objects = append(b.Objects, g.Fail...)
		}
	}

	for _, cf := range a.cfs {
		b.CorrFctns = append(b.CorrFctns, CorrFctnOutput{Name: cf.Name(), Objects: cf.OutputList()})
	}
	if a.outputSettings {
		b.Settings = a.ListSettings()
	}
	return b, nil
}

func group(name string, c cut.Component) OutputGroup {
	pass, fail := c.Monitors().Outputs()
	return OutputGroup{Name: name, Pass: pass, Fail: fail}
}
