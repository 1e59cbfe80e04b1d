package config_test

import (
	"errors"
	"testing"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
class: string
mixing?: {
	depth?: int & >=1
	vertex?: =~"^-?[0-9.e+]+:-?[0-9.e+]+$"
}
`

func TestValidateSchema(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", `{class: 'AnalysisPionPion', mixing: {depth: 6, vertex: -10:10}}`, false},
		{"extra keys allowed", `{class: 'X', other: [1, 2]}`, false},
		{"missing class", `{mixing: {depth: 6}}`, true},
		{"class not string", `{class: 5}`, true},
		{"depth too small", `{class: 'X', mixing: {depth: 0}}`, true},
		{"vertex not a range", `{class: 'X', mixing: {vertex: 'wide'}}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := parseObject(t, tt.text)
			err := config.ValidateSchema(obj.Root(), testSchema)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var serr *config.SchemaError
			assert.True(t, errors.As(err, &serr))
		})
	}
}

func TestValidateSchemaBadSchema(t *testing.T) {
	err := config.ValidateSchema(config.NewMap(), `class: {`)
	require.Error(t, err)
	var serr *config.SchemaError
	assert.False(t, errors.As(err, &serr))
}

func TestToAny(t *testing.T) {
	obj := parseObject(t, `{a: 1, b: [1.5, 'x'], r: 0:2.5, n: null}`)
	assert.Equal(t, map[string]any{
		"a": int64(1),
		"b": []any{1.5, "x"},
		"r": "0:2.5",
		"n": nil,
	}, config.ToAny(obj.Root()))
}
