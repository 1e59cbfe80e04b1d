package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Resolver looks up an identifier. It reports false when the name is unknown.
type Resolver func(name string) (any, bool)

// ErrEmptyOperand is returned when an operator has nothing on one side.
var ErrEmptyOperand = errors.New("expr: empty operand")

// UnknownVariableError reports an identifier the resolver does not know.
type UnknownVariableError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("expr: unknown variable %q", e.Name)
}

// Evaluator evaluates boolean expressions. The zero value is ready to use.
type Evaluator struct{}

// New creates an Evaluator.
func New() *Evaluator {
	return &Evaluator{}
}

// EvaluateWith evaluates expr with identifiers taken from resolve.
func (e *Evaluator) EvaluateWith(expr string, resolve Resolver) (bool, error) {
	return e.condition(expr, resolve)
}

// Check reports syntax problems in expr without resolving any identifier.
func (e *Evaluator) Check(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return ErrEmptyOperand
	}
	_, err := e.condition(expr, func(string) (any, bool) { return 0.0, true })
	return err
}

// builtinOps are tried in order, longer operators first.
var builtinOps = []string{"==", "!=", ">=", "<=", ">", "<"}

func (e *Evaluator) condition(expr string, resolve Resolver) (bool, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return false, nil
	}
	if dangling(expr) {
		return false, ErrEmptyOperand
	}

	if parts := strings.SplitN(expr, " or ", 2); len(parts) == 2 {
		return e.logical(parts, resolve, func(l, r bool) bool { return l || r })
	}
	if parts := strings.SplitN(expr, " and ", 2); len(parts) == 2 {
		return e.logical(parts, resolve, func(l, r bool) bool { return l && r })
	}

	if strings.HasPrefix(expr, "not ") || (strings.HasPrefix(expr, "!") && !strings.HasPrefix(expr, "!=")) {
		inner := strings.TrimPrefix(strings.TrimPrefix(expr, "not "), "!")
		if strings.TrimSpace(inner) == "" {
			return false, ErrEmptyOperand
		}
		result, err := e.condition(inner, resolve)
		return !result, err
	}

	for _, op := range builtinOps {
		if parts := strings.SplitN(expr, op, 2); len(parts) == 2 {
			left, right, err := e.operands(parts, resolve)
			if err != nil {
				return false, err
			}
			return Compare(left, right, op)
		}
	}

	val, err := e.value(expr, resolve)
	if err != nil {
		return false, err
	}
	return truthy(val), nil
}

func (e *Evaluator) logical(parts []string, resolve Resolver, combine func(l, r bool) bool) (bool, error) {
	if strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return false, ErrEmptyOperand
	}
	left, err := e.condition(parts[0], resolve)
	if err != nil {
		return false, err
	}
	right, err := e.condition(parts[1], resolve)
	if err != nil {
		return false, err
	}
	return combine(left, right), nil
}

func (e *Evaluator) operands(parts []string, resolve Resolver) (any, any, error) {
	l, r := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if l == "" || r == "" {
		return nil, nil, ErrEmptyOperand
	}
	left, err := e.value(l, resolve)
	if err != nil {
		return nil, nil, err
	}
	right, err := e.value(r, resolve)
	if err != nil {
		return nil, nil, err
	}
	return left, right, nil
}

func (e *Evaluator) value(s string, resolve Resolver) (any, error) {
	if lit, ok := literal(s); ok {
		return lit, nil
	}
	if v, ok := resolve(s); ok {
		return v, nil
	}
	return nil, &UnknownVariableError{Name: s}
}

// dangling reports a logical operator with nothing on one side.
func dangling(expr string) bool {
	switch expr {
	case "not", "!", "and", "or":
		return true
	}
	for _, op := range []string{"and", "or"} {
		if strings.HasSuffix(expr, " "+op) || strings.HasPrefix(expr, op+" ") {
			return true
		}
	}
	return false
}
