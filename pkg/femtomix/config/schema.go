package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaError reports a configuration tree that does not satisfy a CUE schema.
type SchemaError struct {
	Err error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	return fmt.Sprintf("config: schema violation: %v", e.Err)
}

// Unwrap returns the underlying CUE error.
func (e *SchemaError) Unwrap() error {
	return e.Err
}

// ValidateSchema unifies v with the CUE schema source and requires the
// result to be concrete. Ranges are presented to the schema as "low:high"
// strings.
func ValidateSchema(v Value, schema string) error {
	ctx := cuecontext.New()
	s := ctx.CompileString(schema)
	if err := s.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	data := ctx.Encode(ToAny(v))
	if err := data.Err(); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := s.Unify(data).Validate(cue.Concrete(true)); err != nil {
		return &SchemaError{Err: err}
	}
	return nil
}

// ToAny converts v into plain Go values: nil, bool, int64, float64, string,
// []any and map[string]any. Ranges become "low:high" strings.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Range:
		return formatBound(x.Low) + ":" + formatBound(x.High)
	case List:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = ToAny(item)
		}
		return out
	case *Map:
		out := make(map[string]any, x.Len())
		for _, k := range x.keys {
			out[k] = ToAny(x.vals[k])
		}
		return out
	}
	return nil
}
