package femtomix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/femtomix/pkg/femtomix/corrfn"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

func finished(t *testing.T, text string) *OutputBundle {
	t.Helper()
	a := mustConstruct(t, text)
	processAll(t, a,
		collision(1, pions(1, 3, 1), pions(10, 2, -1)),
		collision(2, pions(1, 4, 1), pions(10, 1, -1)),
	)
	require.NoError(t, a.Finish())
	b, err := a.GetOutputList()
	require.NoError(t, err)
	return b
}

func groupNames(b *OutputBundle) []string {
	var names []string
	for _, g := range b.Groups {
		names = append(names, g.Name)
	}
	return names
}

func TestOutput_IdenticalGroups(t *testing.T) {
	b := finished(t, `{class: 'AnalysisPionPion', name: 'pp', `+mixable+`}`)

	assert.Equal(t, "pp", b.Analysis)
	assert.Equal(t, "AnalysisPionPion", b.Class)
	assert.Equal(t, []string{"Event", "Tracks", "Pair"}, groupNames(b))
	assert.Empty(t, b.Objects)

	tracks, ok := b.Group("Tracks")
	require.True(t, ok)
	require.Len(t, tracks.Pass, 3)
	pt, ok := tracks.Pass[0].(*hist.Histogram1D)
	require.True(t, ok)
	assert.Equal(t, "TrPtPass", pt.Name)
	assert.Equal(t, int64(7), pt.Entries)

	fail, ok := b.Find("TrPtFail")
	require.True(t, ok)
	assert.Equal(t, int64(3), fail.(*hist.Histogram1D).Entries)

	ev, ok := b.Find("EvMultPass")
	require.True(t, ok)
	assert.Equal(t, int64(2), ev.(*hist.Histogram1D).Entries)

	require.Len(t, b.CorrFctns, 1)
	assert.Equal(t, "PairCounter", b.CorrFctns[0].Name)
	counts := b.CorrFctns[0].Objects[0].(*corrfn.Counts)
	assert.Equal(t, int64(3+6), counts.Real)
	assert.Equal(t, int64(4*3), counts.Mixed)
	assert.Equal(t, int64(2), counts.Events)

	assert.Equal(t, b.Counters.RealPassed, counts.Real)
	assert.NotEmpty(t, b.Settings)
	assert.Contains(t, b.Config, "AnalysisPionPion")
}

func TestOutput_TwoSpeciesGroups(t *testing.T) {
	b := finished(t, `{class: 'AnalysisPionPion', pion_type_2: 'pi-'}`)
	assert.Equal(t, []string{"Event", "Track1", "Track2", "Pair"}, groupNames(b))

	_, ok := b.Find("TrPt1Pass")
	assert.True(t, ok)
	_, ok = b.Find("TrPt2Fail")
	assert.True(t, ok)
	_, ok = b.Find("PairQinvRealPass")
	assert.True(t, ok)
}

func TestOutput_FlatAndWithoutSettings(t *testing.T) {
	b := finished(t, `{class: 'AnalysisPionPion', group_output_objects: false, output_settings: false}`)

	assert.Empty(t, b.Groups)
	// event 2 + 3 tracks x 2 + pair 2, pass and fail each
	assert.Len(t, b.Objects, 2*(2+3+2))
	assert.Nil(t, b.Settings)
	_, ok := b.Find("EvVertexZFail")
	assert.True(t, ok)
}

func TestOutput_MonitorsDisabled(t *testing.T) {
	b := finished(t, `{class: 'AnalysisPionPion', enable_monitors: false}`)
	for _, g := range b.Groups {
		assert.Empty(t, g.Pass, g.Name)
		assert.Empty(t, g.Fail, g.Name)
	}

	b = finished(t, `{class: 'AnalysisPionPion', enable_pair_monitors: false}`)
	pair, ok := b.Group("Pair")
	require.True(t, ok)
	assert.Empty(t, pair.Pass)
	tracks, _ := b.Group("Tracks")
	assert.NotEmpty(t, tracks.Pass)
}

func TestOutput_JSON(t *testing.T) {
	b := finished(t, `{class: 'AnalysisPionPion', name: 'js', correlation_functions: [{class: 'QinvCorrFctn'}]}`)
	data, err := b.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "js", decoded["analysis"])
	assert.Contains(t, decoded, "groups")
	assert.Contains(t, decoded, "counters")
	assert.Contains(t, decoded, "correlation_functions")
}

func TestOutput_Deterministic(t *testing.T) {
	text := `{class: 'AnalysisPionPion', pion_type_2: 'pi-', ` + mixable + `}`
	first, err := finished(t, text).JSON()
	require.NoError(t, err)
	second, err := finished(t, text).JSON()
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))
}
