package config_test

import (
	"errors"
	"math"
	"testing"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, text string) config.Value {
	t.Helper()
	v, err := config.ParseValue(text)
	require.NoError(t, err)
	return v
}

func TestParseScalars(t *testing.T) {
	tests := []struct {
		name string
		text string
		want config.Value
	}{
		{"int", "42", config.Int(42)},
		{"negative int", "-7", config.Int(-7)},
		{"float", "3.5", config.Float(3.5)},
		{"exponent", "1e3", config.Float(1000)},
		{"true", "true", config.Bool(true)},
		{"false", "false", config.Bool(false)},
		{"null", "null", config.Null{}},
		{"single quoted", "'pion'", config.String("pion")},
		{"double quoted", `"pion"`, config.String("pion")},
		{"escapes", `'a\'b\nA'`, config.String("a'b\nA")},
		{"colon range", "10:100", config.Range{Low: 10, High: 100}},
		{"dotdot range", "-10.0..10.0", config.Range{Low: -10, High: 10}},
		{"int dotdot range", "1..5", config.Range{Low: 1, High: 5}},
		{"spaced range", "0 : 2.5", config.Range{Low: 0, High: 2.5}},
		{"infinite range", "-inf:inf", config.Range{Low: math.Inf(-1), High: math.Inf(1)}},
		{"inverted range", "5:1", config.Range{Low: 5, High: 1}},
		{"inf", "inf", config.Float(math.Inf(1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.text)
			assert.True(t, config.Equal(tt.want, got), "got %#v", got)
		})
	}
}

func TestParseMap(t *testing.T) {
	v := mustParse(t, `{
		// pion selection
		class: 'BasicEventCut',
		multiplicity: 10:100,
		"quoted key": 1,
		list: [1, 2.5, 'x',],
	}`)

	m, ok := v.(*config.Map)
	require.True(t, ok)
	assert.Equal(t, []string{"class", "multiplicity", "quoted key", "list"}, m.Keys())

	list, ok := m.Get("list")
	require.True(t, ok)
	assert.True(t, config.Equal(config.List{config.Int(1), config.Float(2.5), config.String("x")}, list))
}

func TestParseDottedKeys(t *testing.T) {
	dotted := mustParse(t, `{a.b.c: 1, a.b.d: 2, a.e: 3}`)
	nested := mustParse(t, `{a: {b: {c: 1, d: 2}, e: 3}}`)
	assert.True(t, config.Equal(nested, dotted))

	merged := mustParse(t, `{a.b: 1, a: {c: 2}}`)
	assert.True(t, config.Equal(mustParse(t, `{a: {b: 1, c: 2}}`), merged))

	literal := mustParse(t, `{'a.b': 1}`)
	m := literal.(*config.Map)
	assert.Equal(t, []string{"a.b"}, m.Keys())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		offset  int
		message string
	}{
		{"empty input", "", 0, "unexpected end of input"},
		{"unterminated string", "{a: 'abc", 4, "unterminated string"},
		{"unmatched brace", "{a: 1", 5, "unmatched '{'"},
		{"unmatched bracket", "[1, 2", 5, "unmatched '['"},
		{"missing colon", "{a 1}", 3, "missing ':'"},
		{"missing value", "{a: ", 4, "unexpected end of input"},
		{"non-numeric upper bound", "{a: 1:x}", 6, "upper bound is not numeric"},
		{"non-numeric lower bound", "{a: 'x':2}", 4, "lower bound is not numeric"},
		{"stray closer", "{a: 1}}", 6, "after value"},
		{"duplicate key", "{a: 1, a: 2}", 7, "duplicate key"},
		{"unknown identifier", "{a: maybe}", 4, "unexpected identifier"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Parse(tt.text)
			require.Error(t, err)

			var perr *config.ParseError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, tt.offset, perr.Offset)
			assert.Contains(t, perr.Message, tt.message)
		})
	}
}

func TestParseErrorLineColumn(t *testing.T) {
	_, err := config.Parse("{\n  a: 1,\n  b 2\n}")
	var perr *config.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 3, perr.Line)
	assert.Equal(t, 5, perr.Column)
}
