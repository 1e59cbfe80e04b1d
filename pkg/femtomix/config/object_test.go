package config_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseObject(t *testing.T, text string) *config.Object {
	t.Helper()
	obj, err := config.Parse(text)
	require.NoError(t, err)
	return obj
}

func TestPopAndLoadConversions(t *testing.T) {
	obj := parseObject(t, `{
		b: true, i: 3, f: 2.5, whole: 4.0, s: 'x', r: -1:2, ir: 0:100,
		strs: ['a', 'b'], nums: [1, 2.5], neg: -1,
	}`)

	var b bool
	assert.True(t, obj.PopAndLoad("b", &b))
	assert.True(t, b)

	var f float64
	assert.True(t, obj.PopAndLoad("i", &f), "int widens to float")
	assert.Equal(t, 3.0, f)

	var i int
	assert.True(t, obj.PopAndLoad("whole", &i), "integral float narrows")
	assert.Equal(t, 4, i)

	i = 99
	assert.False(t, obj.PopAndLoad("f", &i), "fractional float does not narrow")
	assert.Equal(t, 99, i)

	var s string
	assert.True(t, obj.PopAndLoad("s", &s))
	assert.Equal(t, "x", s)

	var pair [2]float64
	assert.True(t, obj.PopAndLoad("r", &pair))
	assert.Equal(t, [2]float64{-1, 2}, pair)

	var ipair [2]int
	assert.True(t, obj.PopAndLoad("ir", &ipair))
	assert.Equal(t, [2]int{0, 100}, ipair)

	var strs []string
	assert.True(t, obj.PopAndLoad("strs", &strs))
	assert.Equal(t, []string{"a", "b"}, strs)

	var nums []float64
	assert.True(t, obj.PopAndLoad("nums", &nums))
	assert.Equal(t, []float64{1, 2.5}, nums)

	var u uint = 7
	assert.False(t, obj.PopAndLoad("neg", &u))
	assert.Equal(t, uint(7), u)
}

func TestPopAndLoadNoCoercion(t *testing.T) {
	obj := parseObject(t, `{n: 5, r: 1:2, s: '5'}`)

	s := "default"
	assert.False(t, obj.PopAndLoad("n", &s), "numbers are not strings")
	assert.Equal(t, "default", s)

	var f float64
	assert.False(t, obj.PopAndLoad("r", &f), "ranges only load into pairs")
	assert.False(t, obj.PopAndLoad("s", &f))

	var r config.Range
	assert.False(t, obj.PopAndLoad("n", &r))
}

func TestPopAndLoadMissingKey(t *testing.T) {
	obj := parseObject(t, `{a: 1}`)
	depth := 6
	assert.False(t, obj.PopAndLoad("depth", &depth))
	assert.Equal(t, 6, depth)
	assert.False(t, obj.PopAndLoad("a.b", &depth))
}

func TestPopAndLoadDottedPath(t *testing.T) {
	obj := parseObject(t, `{mixing: {depth: 4, strict: true}}`)

	var depth int
	require.True(t, obj.PopAndLoad("mixing.depth", &depth))
	assert.Equal(t, 4, depth)
	assert.Equal(t, []string{"mixing.strict"}, obj.UnconsumedKeys())
}

func TestPopAndLoadRawValue(t *testing.T) {
	obj := parseObject(t, `{sub: {x: 1, y: [2]}}`)
	var v config.Value
	require.True(t, obj.PopAndLoad("sub", &v))
	assert.Equal(t, config.KindMap, v.Kind())
	assert.Empty(t, obj.UnconsumedKeys(), "loading a map consumes its subtree")
}

func TestPopAndLoadUnsupportedTargetPanics(t *testing.T) {
	obj := parseObject(t, `{a: 1}`)
	var c complex128
	assert.Panics(t, func() { obj.PopAndLoad("a", &c) })
}

type pionType string

func (p *pionType) LoadConfig(v config.Value) error {
	s, ok := v.(config.String)
	if !ok {
		return fmt.Errorf("expected String, got %s", v.Kind())
	}
	switch s {
	case "pi+", "pi-":
		*p = pionType(s)
		return nil
	}
	return fmt.Errorf("unknown pion type %q", string(s))
}

func TestPopAndLoadLoader(t *testing.T) {
	obj := parseObject(t, `{a: 'pi-', b: 'kaon'}`)

	var a, b pionType
	assert.True(t, obj.PopAndLoad("a", &a))
	assert.Equal(t, pionType("pi-"), a)
	assert.False(t, obj.PopAndLoad("b", &b))
	assert.Contains(t, obj.Mismatches()["b"], "unknown pion type")
}

func TestUnconsumedKeysFlatMap(t *testing.T) {
	keys := []string{"alpha", "beta", "gamma", "delta"}

	for n := 0; n <= len(keys); n++ {
		t.Run(fmt.Sprintf("consume_%d", n), func(t *testing.T) {
			obj := parseObject(t, `{alpha: 1, beta: 'b', gamma: 1:2, delta: true}`)
			for _, k := range keys[:n] {
				var v config.Value
				require.True(t, obj.PopAndLoad(k, &v))
			}
			want := append([]string{}, keys[n:]...)
			assert.ElementsMatch(t, want, obj.UnconsumedKeys())
		})
	}
}

func TestUnconsumedKeysNested(t *testing.T) {
	obj := parseObject(t, `{
		class: 'AnalysisPionPion',
		event_cut: {class: 'BasicEventCut', bogus: 1},
		unused: {deep: {deeper: 1}},
		correlation_functions: [{class: 'QinvCorrFctn', bins: 10}, {class: 'PairCounter'}],
	}`)

	var class string
	obj.PopAndLoad("class", &class)

	ev, ok := obj.Child("event_cut")
	require.True(t, ok)
	assert.Equal(t, "event_cut", ev.Path())
	ev.PopAndLoad("class", &class)

	cfs, ok := obj.Children("correlation_functions")
	require.True(t, ok)
	require.Len(t, cfs, 2)
	cfs[0].PopAndLoad("class", &class)
	cfs[1].PopAndLoad("class", &class)

	assert.Equal(t, []string{
		"correlation_functions.0.bins",
		"event_cut.bogus",
		"unused",
	}, obj.UnconsumedKeys())
	assert.Equal(t, []string{"event_cut.bogus"}, ev.UnconsumedKeys())
}

func TestChildWrongShape(t *testing.T) {
	obj := parseObject(t, `{event_cut: 5, cfs: [1]}`)
	_, ok := obj.Child("event_cut")
	assert.False(t, ok)
	_, ok = obj.Children("cfs")
	assert.False(t, ok)
	assert.Len(t, obj.Mismatches(), 2)
}

func TestValidate(t *testing.T) {
	obj := parseObject(t, `{a: 1, b: 'x'}`)
	var a int
	obj.PopAndLoad("a", &a)
	var b int
	obj.PopAndLoad("b", &b)

	err := obj.Validate()
	require.Error(t, err)

	var uerr *config.UnconsumedKeysError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, []string{"b"}, uerr.Keys)
	assert.Contains(t, err.Error(), "b (expected Int, got String)")

	var s string
	obj.PopAndLoad("b", &s)
	assert.NoError(t, obj.Validate())
}
