package config

import (
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindRange
	KindList
	KindMap
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindRange:
		return "Range"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	default:
		return "Unknown"
	}
}

// Value is a configuration value. The set of implementations is closed:
// Null, Bool, Int, Float, String, Range, List and *Map.
type Value interface {
	Kind() Kind
	value()
}

// Null is the absent value.
type Null struct{}

// Bool is a boolean value.
type Bool bool

// Int is an integer value.
type Int int64

// Float is a floating-point value.
type Float float64

// String is a string value.
type String string

// Range is a numeric interval written as low:high or low..high.
// Inclusivity is decided by the component consuming it.
type Range struct {
	Low  float64
	High float64
}

// List is an ordered sequence of values.
type List []Value

func (Null) Kind() Kind   { return KindNull }
func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Range) Kind() Kind  { return KindRange }
func (List) Kind() Kind   { return KindList }
func (*Map) Kind() Kind   { return KindMap }

func (Null) value()   {}
func (Bool) value()   {}
func (Int) value()    {}
func (Float) value()  {}
func (String) value() {}
func (Range) value()  {}
func (List) value()   {}
func (*Map) value()   {}

// Inverted reports whether Low > High or either end is NaN.
func (r Range) Inverted() bool {
	return !(r.Low <= r.High)
}

// Map is a string-keyed map that preserves insertion order.
// Keys are stored in Unicode NFC form.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Set stores v under key. A new key is appended; an existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	key = norm.NFC.String(key)
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[norm.NFC.String(key)]
	return v, ok
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Equal reports whether a and b hold the same variant and contents.
// Map equality is order sensitive; NaN equals NaN.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Null:
		return true
	case Bool:
		return x == b.(Bool)
	case Int:
		return x == b.(Int)
	case Float:
		return floatEqual(float64(x), float64(b.(Float)))
	case String:
		return x == b.(String)
	case Range:
		y := b.(Range)
		return floatEqual(x.Low, y.Low) && floatEqual(x.High, y.High)
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if x.Len() != y.Len() {
			return false
		}
		for i, k := range x.keys {
			if y.keys[i] != k {
				return false
			}
			if !Equal(x.vals[k], y.vals[k]) {
				return false
			}
		}
		return true
	}
	return false
}

func floatEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	return a == b
}

// Lookup resolves a dotted path against v. A literal key containing dots
// takes precedence over nested traversal.
func Lookup(v Value, path string) (Value, bool) {
	got, _, ok := lookup(v, path)
	return got, ok
}

// lookup returns the value and the key segments that reached it.
func lookup(v Value, path string) (Value, []string, bool) {
	m, ok := v.(*Map)
	if !ok || path == "" {
		return nil, nil, false
	}
	if got, ok := m.Get(path); ok {
		return got, []string{norm.NFC.String(path)}, true
	}
	for i := 0; i < len(path); i++ {
		if path[i] != '.' {
			continue
		}
		head, ok := m.Get(path[:i])
		if !ok {
			continue
		}
		if got, segs, ok := lookup(head, path[i+1:]); ok {
			return got, append([]string{norm.NFC.String(path[:i])}, segs...), true
		}
	}
	return nil, nil, false
}

func joinPath(segs []string) string {
	return strings.Join(segs, ".")
}
