package expr

import (
	"errors"
	"testing"
)

// scalars resolves identifiers from a map.
func scalars(vars map[string]any) Resolver {
	return func(name string) (any, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

func TestEvaluateWith_Comparisons(t *testing.T) {
	vars := scalars(map[string]any{
		"multiplicity":     120.0,
		"vertex_z":         -4.5,
		"centrality":       7.0,
		"physics_selected": 1.0,
	})
	tests := []struct {
		expr string
		want bool
	}{
		{"multiplicity > 100", true},
		{"multiplicity >= 120", true},
		{"multiplicity < 120", false},
		{"multiplicity <= 119.9", false},
		{"vertex_z > -10", true},
		{"vertex_z < -5", false},
		{"centrality == 7", true},
		{"centrality == 7.0", true},
		{"centrality != 7", false},
		{"physics_selected == true", true},
		{"physics_selected", true},
		{"not physics_selected", false},
		{"1e2 < multiplicity", true},
	}
	e := New()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.EvaluateWith(tt.expr, vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateWith(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateWith_LogicalPrecedence(t *testing.T) {
	vars := scalars(map[string]any{"a": true, "b": false, "c": false})
	tests := []struct {
		expr string
		want bool
	}{
		{"a or b and c", true},
		{"b and c or a", true},
		{"a and b", false},
		{"not b", true},
		{"!a", false},
		{"not a or not b", true},
		{"a and not b and not c", true},
	}
	e := New()
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := e.EvaluateWith(tt.expr, vars)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("EvaluateWith(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluateWith_UnknownVariable(t *testing.T) {
	resolve := scalars(map[string]any{"multiplicity": 42.0})

	_, err := New().EvaluateWith("multiplicty > 10", resolve)
	var unknown *UnknownVariableError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownVariableError, got %v", err)
	}
	if unknown.Name != "multiplicty" {
		t.Errorf("Name = %q", unknown.Name)
	}

	_, err = New().EvaluateWith("'kINT7' == 1", resolve)
	if !errors.As(err, &unknown) {
		t.Errorf("quoted text is not a value, got %v", err)
	}
}

func TestEvaluateWith_Null(t *testing.T) {
	e := New()
	resolve := scalars(map[string]any{"x": 0.0})
	for expr, want := range map[string]bool{
		"null == null": true,
		"x == null":    false,
		"x != null":    true,
		"null":         false,
	} {
		got, err := e.EvaluateWith(expr, resolve)
		if err != nil {
			t.Fatalf("%q: %v", expr, err)
		}
		if got != want {
			t.Errorf("EvaluateWith(%q) = %v, want %v", expr, got, want)
		}
	}
}

func TestCheck(t *testing.T) {
	e := New()
	for _, bad := range []string{"", "multiplicity >", "a and ", "not "} {
		if err := e.Check(bad); !errors.Is(err, ErrEmptyOperand) {
			t.Errorf("Check(%q) = %v, want ErrEmptyOperand", bad, err)
		}
	}
	if err := e.Check("anything_at_all < 3 and other"); err != nil {
		t.Errorf("Check rejected valid expression: %v", err)
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{0.0, false},
		{int64(3), true},
		{uint64(0), false},
	}
	for _, tt := range tests {
		if got := truthy(tt.v); got != tt.want {
			t.Errorf("truthy(%#v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{"-3", int64(-3)},
		{"2.5", 2.5},
		{"TRUE", true},
		{"null", nil},
	}
	for _, tt := range tests {
		got, ok := literal(tt.in)
		if !ok || got != tt.want {
			t.Errorf("literal(%q) = %#v, %v", tt.in, got, ok)
		}
	}
	if _, ok := literal("vertex_z"); ok {
		t.Error("identifier parsed as literal")
	}
}

func TestCompare_UnknownOperator(t *testing.T) {
	if _, err := Compare(1, 2, "~="); err == nil {
		t.Error("expected error")
	}
}
