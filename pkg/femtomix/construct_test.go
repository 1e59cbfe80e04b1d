package femtomix

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/cut"
	"github.com/randalmurphal/femtomix/pkg/femtomix/registry"
)

func TestConstruct_Defaults(t *testing.T) {
	a := mustConstruct(t, `{class: 'AnalysisPionPion'}`)

	assert.Equal(t, "AnalysisPionPion", a.Name())
	assert.Equal(t, "AnalysisPionPion", a.Class())
	assert.True(t, a.Identical())
	assert.Equal(t, "BasicEventCut", a.EventCut().Name())
	assert.Equal(t, "DetaDphiPairCut", a.PairCut().Name())
	assert.Empty(t, a.CorrFctns())

	c1, _ := a.ParticleCuts()
	pc, ok := c1.(*cut.TrackCut)
	require.True(t, ok)
	assert.Equal(t, 1, pc.Charge())
	assert.Equal(t, cut.PionMass, pc.Mass())
	assert.Equal(t, 6, a.Params().Depth)
}

func TestConstruct_PionTypes(t *testing.T) {
	tests := []struct {
		name      string
		types     string
		identical bool
		charges   [2]int
	}{
		{"absent", ``, true, [2]int{1, 1}},
		{"none", `pion_type_1: 'pi-', pion_type_2: 'none'`, true, [2]int{-1, -1}},
		{"same", `pion_type_1: 'pi-', pion_type_2: 'pi-'`, true, [2]int{-1, -1}},
		{"different", `pion_type_1: 'pi-', pion_type_2: 'pi+'`, false, [2]int{-1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := `{class: 'AnalysisPionPion'}`
			if tt.types != "" {
				text = `{class: 'AnalysisPionPion', ` + tt.types + `}`
			}
			a := mustConstruct(t, text)
			assert.Equal(t, tt.identical, a.Identical())

			c1, c2 := a.ParticleCuts()
			assert.Equal(t, tt.charges[0], c1.(*cut.TrackCut).Charge())
			assert.Equal(t, tt.charges[1], c2.(*cut.TrackCut).Charge())
		})
	}
}

func TestConstruct_SharedParticleCut2(t *testing.T) {
	a, err := Construct(NewCatalog(), `{class: 'AnalysisPionPion',
		particle_cut_1: {class: 'PionCut', pt: 0.3:1.0},
		particle_cut_2: {class: 'PionCut', pt: 0.3:1.0}}`, WithStrictConfig())
	require.NoError(t, err, "an equal particle_cut_2 is consumed")

	c1, c2 := a.ParticleCuts()
	assert.Same(t, c1, c2)
}

func TestConstruct_VertexMultIdentity(t *testing.T) {
	same := mustConstruct(t, `{class: 'VertexMultAnalysis',
		particle_cut_1: {class: 'TrackCut', charge: 1},
		particle_cut_2: {class: 'TrackCut', charge: 1}}`)
	assert.True(t, same.Identical())

	one := mustConstruct(t, `{class: 'VertexMultAnalysis', particle_cut_1: {class: 'TrackCut'}}`)
	assert.True(t, one.Identical())

	two := mustConstruct(t, `{class: 'VertexMultAnalysis',
		particle_cut_1: {class: 'TrackCut', charge: 1},
		particle_cut_2: {class: 'TrackCut', charge: -1}}`)
	assert.False(t, two.Identical())
}

func TestConstruct_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
	}{
		{"bad pion type 1", `{class: 'AnalysisPionPion', pion_type_1: 'kaon'}`, "pion_type_1"},
		{"bad pion type 2", `{class: 'AnalysisPionPion', pion_type_2: 'k+'}`, "pion_type_2"},
		{"identical with two cuts", `{class: 'AnalysisPionPion',
			particle_cut_1: {class: 'PionCut'}, particle_cut_2: {class: 'PionCut', pt: 0.1:3}}`, "particle_cut_2"},
		{"vertex mult without cut", `{class: 'VertexMultAnalysis'}`, "particle_cut_1"},
		{"bad mixing", `{class: 'AnalysisPionPion', mixing: {depth: 0}}`, "mixing"},
		{"event cut not a map", `{class: 'AnalysisPionPion', event_cut: 'BasicEventCut'}`, "event_cut"},
		{"cf list of scalars", `{class: 'AnalysisPionPion', correlation_functions: [1, 2]}`, "correlation_functions"},
		{"duplicate cf names", `{class: 'AnalysisPionPion',
			correlation_functions: [{class: 'PairCounter'}, {class: 'PairCounter'}]}`, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Construct(NewCatalog(), tt.text)
			require.Error(t, err)
			assert.Nil(t, a)

			var cerr *ConfigError
			require.ErrorAs(t, err, &cerr)
			assert.Equal(t, tt.key, cerr.Key)

			var construction *registry.ConstructionError
			require.ErrorAs(t, err, &construction)
			assert.Equal(t, registry.Analysis, construction.Capability)
		})
	}
}

func TestConstruct_UnknownClasses(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		capability registry.Capability
		class      string
	}{
		{"analysis", `{class: 'Nope'}`, registry.Analysis, "Nope"},
		{"event cut from another table", `{class: 'AnalysisPionPion', event_cut: {class: 'PionCut'}}`, registry.EventCut, "PionCut"},
		{"pair cut", `{class: 'AnalysisPionPion', pair_cut: {class: 'Nope'}}`, registry.PairCut, "Nope"},
		{"correlation function", `{class: 'AnalysisPionPion', correlation_functions: [{class: 'QinvCorrFctn'}, {class: 'Nope'}]}`, registry.CorrelationFunction, "Nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Construct(NewCatalog(), tt.text)
			assert.Nil(t, a)

			var unknown *registry.UnknownClassError
			require.ErrorAs(t, err, &unknown)
			assert.Equal(t, tt.capability, unknown.Capability)
			assert.Equal(t, tt.class, unknown.Name)
		})
	}
}

func TestConstruct_MissingClass(t *testing.T) {
	_, err := Construct(NewCatalog(), `{name: 'x'}`)
	assert.ErrorIs(t, err, registry.ErrMissingClassKey)

	_, err = Construct(NewCatalog(), `{class: `)
	var perr *config.ParseError
	assert.ErrorAs(t, err, &perr)
}

func TestConstruct_UnconsumedKeys(t *testing.T) {
	text := `{class: 'AnalysisPionPion', tpyo: 1, event_cut: {class: 'BasicEventCut', vertx_z: -5:5}}`

	_, err := Construct(NewCatalog(), text, WithStrictConfig())
	var uerr *config.UnconsumedKeysError
	require.ErrorAs(t, err, &uerr)
	assert.ElementsMatch(t, []string{"tpyo", "event_cut.vertx_z"}, uerr.Keys)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	a, err := Construct(NewCatalog(), text, WithLogger(logger))
	require.NoError(t, err)
	assert.NotNil(t, a)
	assert.Contains(t, buf.String(), "tpyo")
	assert.Contains(t, buf.String(), `"level":"WARN"`)
}

func TestConstruct_SealsCatalog(t *testing.T) {
	c := NewCatalog()
	_, err := Construct(c, `{class: 'AnalysisPionPion'}`)
	require.NoError(t, err)

	err = c.Analyses.Register("Late", func(*config.Object) (*Analysis, error) { return nil, nil })
	assert.ErrorIs(t, err, registry.ErrSealed)
}

func TestConstruct_ConfigIsPretty(t *testing.T) {
	a := mustConstruct(t, `{class: 'AnalysisPionPion', name: 'pp', mixing: {depth: 3}}`)
	obj, err := config.Parse(a.config)
	require.NoError(t, err)

	var depth int
	require.True(t, obj.PopAndLoad("mixing.depth", &depth))
	assert.Equal(t, 3, depth)
	assert.True(t, strings.Contains(a.config, "\n"))
}

func TestCatalog_Classes(t *testing.T) {
	classes := NewCatalog().Classes()
	assert.Contains(t, classes[registry.Analysis], "AnalysisPionPion")
	assert.Contains(t, classes[registry.Analysis], "VertexMultAnalysis")
	assert.Contains(t, classes[registry.EventCut], "EventCut")
	assert.Contains(t, classes[registry.ParticleCut], "PionCut")
	assert.Contains(t, classes[registry.PairCut], "DummyPairCut")
	assert.Contains(t, classes[registry.CorrelationFunction], "PairCounter")
	assert.Contains(t, classes[registry.EventReader], "SQLiteReader")
	assert.NotContains(t, classes[registry.EventCut], "PionCut")
}

func TestListSettings_Golden(t *testing.T) {
	a := mustConstruct(t, `{class: 'AnalysisPionPion', name: 'ana'}`)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "pion_pion_settings", []byte(strings.Join(a.ListSettings(), "\n")+"\n"))
}
