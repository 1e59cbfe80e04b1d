package femtomix

import (
	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/corrfn"
	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/reader"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

// Catalog holds one factory table per capability. A name registered in one
// table is unknown to the others.
//
// Register custom classes before the first construction; tables seal on
// first use and are then safe to share between goroutines.
type Catalog struct {
	Readers      *registry.Factories[reader.Reader]
	EventCuts    *registry.Factories[cut.EventCut]
	ParticleCuts *registry.Factories[cut.ParticleCut]
	PairCuts     *registry.Factories[cut.PairCut]
	CorrFctns    *registry.Factories[corrfn.CorrFctn]
	Analyses     *registry.Factories[*Analysis]
}

// NewCatalog returns a catalog with every builtin class registered.
func NewCatalog() *Catalog {
	c := &Catalog{
		Readers:      registry.NewFactories[reader.Reader](registry.EventReader),
		EventCuts:    registry.NewFactories[cut.EventCut](registry.EventCut),
		ParticleCuts: registry.NewFactories[cut.ParticleCut](registry.ParticleCut),
		PairCuts:     registry.NewFactories[cut.PairCut](registry.PairCut),
		CorrFctns:    registry.NewFactories[corrfn.CorrFctn](registry.CorrelationFunction),
		Analyses:     registry.NewFactories[*Analysis](registry.Analysis),
	}

	c.Readers.MustRegister("SyntheticReader", as[reader.Reader](reader.NewSyntheticReader))
	c.Readers.MustRegister("JSONLinesReader", as[reader.Reader](reader.NewJSONLinesReader))
	c.Readers.MustRegister("YAMLReader", as[reader.Reader](reader.NewYAMLReader))
	c.Readers.MustRegister("SQLiteReader", as[reader.Reader](reader.NewSQLiteReader))

	c.EventCuts.MustRegister("BasicEventCut", as[cut.EventCut](cut.NewBasicEventCut))
	c.EventCuts.MustRegister("EventCut", as[cut.EventCut](cut.NewBasicEventCut))
	c.EventCuts.MustRegister("CentralityEventCut", as[cut.EventCut](cut.NewCentralityEventCut))
	c.EventCuts.MustRegister("ExpressionEventCut", as[cut.EventCut](cut.NewExpressionEventCut))

	c.ParticleCuts.MustRegister("TrackCut", as[cut.ParticleCut](cut.NewTrackCut))
	c.ParticleCuts.MustRegister("PionCut", as[cut.ParticleCut](cut.NewPionCut))

	c.PairCuts.MustRegister("DummyPairCut", as[cut.PairCut](cut.NewDummyPairCut))
	c.PairCuts.MustRegister("DetaDphiPairCut", as[cut.PairCut](cut.NewDetaDphiPairCut))
	c.PairCuts.MustRegister("ShareQualityPairCut", as[cut.PairCut](cut.NewShareQualityPairCut))

	c.CorrFctns.MustRegister("QinvCorrFctn", as[corrfn.CorrFctn](corrfn.NewQinvCorrFctn))
	c.CorrFctns.MustRegister("DEtaDPhiStarCorrFctn", as[corrfn.CorrFctn](corrfn.NewDEtaDPhiStarCorrFctn))
	c.CorrFctns.MustRegister("PairStatsCorrFctn", as[corrfn.CorrFctn](corrfn.NewPairStatsCorrFctn))
	c.CorrFctns.MustRegister("PairCounter", as[corrfn.CorrFctn](corrfn.NewPairCounter))

	c.Analyses.MustRegister("AnalysisPionPion", func(obj *config.Object) (*Analysis, error) {
		return newAnalysis(c, obj, "AnalysisPionPion", true)
	})
	c.Analyses.MustRegister("VertexMultAnalysis", func(obj *config.Object) (*Analysis, error) {
		return newAnalysis(c, obj, "VertexMultAnalysis", false)
	})
	return c
}

// Classes returns the registered names per capability.
func (c *Catalog) Classes() map[registry.Capability][]string {
	return map[registry.Capability][]string{
		c.Readers.Capability():      c.Readers.Names(),
		c.EventCuts.Capability():    c.EventCuts.Names(),
		c.ParticleCuts.Capability(): c.ParticleCuts.Names(),
		c.PairCuts.Capability():     c.PairCuts.Names(),
		c.CorrFctns.Capability():    c.CorrFctns.Names(),
		c.Analyses.Capability():     c.Analyses.Names(),
	}
}

// as adapts a constructor of a concrete type to a factory of interface T.
func as[T, C any](build func(*config.Object) (C, error)) registry.Factory[T] {
	return func(obj *config.Object) (T, error) {
		c, err := build(obj)
		if err != nil {
			var zero T
			return zero, err
		}
		return any(c).(T), nil
	}
}
