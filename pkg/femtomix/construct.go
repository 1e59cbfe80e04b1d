package femtomix

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/corrfn"
	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/mixing"
	"github.com/randalmurphal/femtomix/pkg/femtomix/observability"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

// Construct parses text and builds the analysis it describes through the
// Analyses table of c. Nothing is returned on error.
func Construct(c *Catalog, text string, opts ...Option) (*Analysis, error) {
	obj, err := config.Parse(text)
	if err != nil {
		return nil, err
	}
	return ConstructObject(c, obj, opts...)
}

// ConstructObject is Construct for an already parsed object.
func ConstructObject(c *Catalog, obj *config.Object, opts ...Option) (*Analysis, error) {
	o := applyOptions(opts)
	a, err := c.Analyses.Construct(obj)
	if err != nil {
		return nil, err
	}
	if err := checkConsumed(obj, o); err != nil {
		return nil, err
	}
	a.attach(o, "")
	return a, nil
}

// checkConsumed reports unconsumed keys under obj as an error in strict
// mode and as a warning otherwise.
func checkConsumed(obj *config.Object, o options) error {
	err := obj.Validate()
	if err == nil {
		return nil
	}
	if o.strict {
		return err
	}
	var uerr *config.UnconsumedKeysError
	if errors.As(err, &uerr) {
		observability.LogUnconsumedKeys(o.logger, uerr.Keys)
	}
	return nil
}

// attach installs the ambient collaborators. A non-empty runID is added
// to every log record.
func (a *Analysis) attach(o options, runID string) {
	a.logger = o.logger
	if runID != "" {
		a.logger = observability.EnrichLogger(o.logger, runID, a.name)
	}
	a.metrics = o.metrics
	observability.LogAnalysisBuilt(a.logger, a.name, a.class, a.identical)
}

// Pion type names.
const (
	PiPlus   = "pi+"
	PiMinus  = "pi-"
	PionNone = "none"
)

// newAnalysis builds an AnalysisPionPion (pions true) or a
// VertexMultAnalysis from obj.
func newAnalysis(c *Catalog, obj *config.Object, class string, pions bool) (*Analysis, error) {
	a := &Analysis{
		name:           class,
		class:          class,
		groupOutput:    true,
		outputSettings: true,
		config:         obj.Stringify(true),
		pools:          registry.New[mixing.BinIndex, *mixing.Pool](),
		metrics:        observability.NoopMetrics{},
	}
	enableMonitors, enablePairMonitors := true, true
	obj.PopAndLoad("name", &a.name)
	obj.PopAndLoad("is_mc", &a.mc)
	obj.PopAndLoad("verbose", &a.verbose)
	obj.PopAndLoad("enable_monitors", &enableMonitors)
	obj.PopAndLoad("enable_pair_monitors", &enablePairMonitors)
	obj.PopAndLoad("group_output_objects", &a.groupOutput)
	obj.PopAndLoad("output_settings", &a.outputSettings)

	var err error
	if pions {
		err = a.loadPionTypes(obj)
	} else {
		err = a.loadSlots(obj)
	}
	if err != nil {
		return nil, err
	}

	if a.params, err = mixing.LoadParams(obj, mixing.DefaultParams()); err != nil {
		return nil, &ConfigError{Path: obj.Path(), Key: "mixing", Err: err}
	}

	if a.eventCut, err = constructChild(c.EventCuts, obj, "event_cut", "{class: 'BasicEventCut'}"); err != nil {
		return nil, err
	}
	if err := a.buildParticleCuts(c, obj, pions); err != nil {
		return nil, err
	}
	if a.pairCut, err = constructChild(c.PairCuts, obj, "pair_cut", "{class: 'DetaDphiPairCut'}"); err != nil {
		return nil, err
	}
	if a.cfs, err = constructCorrFctns(c, obj); err != nil {
		return nil, err
	}

	for _, comp := range []cut.Component{a.eventCut, a.cut1, a.cut2, a.pairCut} {
		comp.SetAnalysis(a)
	}
	if enableMonitors {
		a.attachMonitors(enablePairMonitors)
	}
	return a, nil
}

// loadPionTypes reads pion_type_1 and pion_type_2. The analysis is identical
// when type 2 is absent, "none" or equal to type 1.
func (a *Analysis) loadPionTypes(obj *config.Object) error {
	t1, t2 := PiPlus, PionNone
	obj.PopAndLoad("pion_type_1", &t1)
	obj.PopAndLoad("pion_type_2", &t2)
	if _, err := cut.PionCharge(t1); err != nil {
		return &ConfigError{Path: obj.Path(), Key: "pion_type_1", Err: err}
	}
	if t2 == PionNone || t2 == t1 {
		a.identical = true
		t2 = t1
	} else if _, err := cut.PionCharge(t2); err != nil {
		return &ConfigError{Path: obj.Path(), Key: "pion_type_2", Err: err}
	}
	a.pionTypes = [2]string{t1, t2}
	return nil
}

// loadSlots decides identical mode from the particle cut objects alone.
func (a *Analysis) loadSlots(obj *config.Object) error {
	if !obj.Has("particle_cut_1") {
		return &ConfigError{Path: obj.Path(), Key: "particle_cut_1", Err: errors.New("required")}
	}
	a.identical = !obj.Has("particle_cut_2") || sameChild(obj, "particle_cut_1", "particle_cut_2")
	return nil
}

func sameChild(obj *config.Object, k1, k2 string) bool {
	v1, ok1 := config.Lookup(obj.Root(), k1)
	v2, ok2 := config.Lookup(obj.Root(), k2)
	return ok1 && ok2 && config.Equal(v1, v2)
}

// buildParticleCuts constructs slot 1 and, outside identical mode, slot 2.
// In identical mode a particle_cut_2 equal to particle_cut_1 is consumed
// and shares the slot 1 instance; a different one is an error.
func (a *Analysis) buildParticleCuts(c *Catalog, obj *config.Object, pions bool) error {
	def := func(i int) string {
		if !pions {
			return ""
		}
		return fmt.Sprintf("{class: 'PionCut', pion_type: '%s'}", a.pionTypes[i])
	}

	var err error
	if a.cut1, err = constructChild(c.ParticleCuts, obj, "particle_cut_1", def(0)); err != nil {
		return err
	}
	if !a.identical {
		a.cut2, err = constructChild(c.ParticleCuts, obj, "particle_cut_2", def(1))
		return err
	}

	if obj.Has("particle_cut_2") {
		if !sameChild(obj, "particle_cut_1", "particle_cut_2") {
			return &ConfigError{
				Path: obj.Path(), Key: "particle_cut_2",
				Err: errors.New("identical analysis takes a single particle cut"),
			}
		}
		var ignored config.Value
		obj.PopAndLoad("particle_cut_2", &ignored)
	}
	a.cut2 = a.cut1
	return nil
}

// constructChild builds the component under key, or from def when the key
// is absent and def is not empty.
func constructChild[T any](f *registry.Factories[T], obj *config.Object, key, def string) (T, error) {
	var zero T
	child, ok := obj.Child(key)
	if !ok {
		if obj.Has(key) {
			return zero, &ConfigError{Path: obj.Path(), Key: key, Err: errors.New("expected a map")}
		}
		if def == "" {
			return zero, &ConfigError{Path: obj.Path(), Key: key, Err: errors.New("required")}
		}
		dobj, err := config.Parse(def)
		if err != nil {
			return zero, err
		}
		child = dobj
	}
	return f.Construct(child)
}

func constructCorrFctns(c *Catalog, obj *config.Object) ([]corrfn.CorrFctn, error) {
	if !obj.Has("correlation_functions") {
		return nil, nil
	}
	children, ok := obj.Children("correlation_functions")
	if !ok {
		return nil, &ConfigError{Path: obj.Path(), Key: "correlation_functions", Err: errors.New("expected a list of maps")}
	}
	cfs := make([]corrfn.CorrFctn, 0, len(children))
	seen := make(map[string]bool, len(children))
	for _, child := range children {
		cf, err := c.CorrFctns.Construct(child)
		if err != nil {
			return nil, err
		}
		if seen[cf.Name()] {
			return nil, &ConfigError{Path: child.Path(), Key: "name", Err: fmt.Errorf("duplicate correlation function name %q", cf.Name())}
		}
		seen[cf.Name()] = true
		cfs = append(cfs, cf)
	}
	return cfs, nil
}

// attachMonitors installs the builtin pass/fail monitors on every cut.
func (a *Analysis) attachMonitors(pairs bool) {
	a.eventCut.Monitors().Set(cut.NewEventMultVertexMonitor("Pass"), cut.NewEventMultVertexMonitor("Fail"))
	if a.identical {
		a.cut1.Monitors().Set(cut.NewTrackKinematicsMonitor("Pass"), cut.NewTrackKinematicsMonitor("Fail"))
	} else {
		a.cut1.Monitors().Set(cut.NewTrackKinematicsMonitor("1Pass"), cut.NewTrackKinematicsMonitor("1Fail"))
		a.cut2.Monitors().Set(cut.NewTrackKinematicsMonitor("2Pass"), cut.NewTrackKinematicsMonitor("2Fail"))
	}
	if pairs {
		a.pairCut.Monitors().Set(cut.NewPairQinvMonitor("Pass"), cut.NewPairQinvMonitor("Fail"))
	}
}
