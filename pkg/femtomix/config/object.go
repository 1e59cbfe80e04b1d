package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Loader is implemented by targets that convert a Value themselves.
type Loader interface {
	LoadConfig(v Value) error
}

// Object is a view of a configuration tree that records which keys have
// been read. Child views share the ledger of the object they came from, so
// one ledger covers a whole pipeline configuration.
type Object struct {
	root   Value
	prefix []string
	ledger *ledger
}

type ledger struct {
	consumed   map[string]bool
	visited    map[string]bool
	mismatched map[string]string
}

// NewObject wraps v with a fresh consumption ledger.
func NewObject(v Value) *Object {
	if v == nil {
		v = NewMap()
	}
	return &Object{
		root: v,
		ledger: &ledger{
			consumed:   make(map[string]bool),
			visited:    make(map[string]bool),
			mismatched: make(map[string]string),
		},
	}
}

// Root returns the value this view points at.
func (o *Object) Root() Value {
	return o.root
}

// Path returns the dotted location of this view within the full tree.
// The root view has an empty path.
func (o *Object) Path() string {
	return joinPath(o.prefix)
}

// Has reports whether key resolves to a value, without consuming it.
func (o *Object) Has(key string) bool {
	_, _, ok := lookup(o.root, key)
	return ok
}

// Keys returns the map keys of this view in insertion order.
func (o *Object) Keys() []string {
	if m, ok := o.root.(*Map); ok {
		return m.Keys()
	}
	return nil
}

// Stringify serializes the value of this view.
func (o *Object) Stringify(pretty bool) string {
	return Stringify(o.root, pretty)
}

// PopAndLoad resolves key, converts it into out and marks it consumed.
//
// It returns false, leaving out untouched, when the key is missing or the
// value cannot be converted. A failed conversion is recorded as a mismatch
// and the key stays unconsumed.
//
// Supported targets: *bool, *int, *int64, *uint, *float64, *string, *Range,
// *[2]float64, *[2]int, *[]string, *[]float64, *Value and any Loader.
// Int widens to float; Float narrows to an integer only when integral.
// Unsupported target types panic.
func (o *Object) PopAndLoad(key string, out any) bool {
	v, segs, ok := lookup(o.root, key)
	if !ok {
		return false
	}
	full := append(append([]string{}, o.prefix...), segs...)
	path := joinPath(full)
	o.markVisited(full[:len(full)-1])
	if err := assign(v, out); err != nil {
		o.ledger.mismatched[path] = err.Error()
		return false
	}
	delete(o.ledger.mismatched, path)
	o.ledger.consumed[path] = true
	return true
}

// Child returns a view of the map stored under key and marks the key as
// visited. The child's own keys are tracked individually.
func (o *Object) Child(key string) (*Object, bool) {
	v, segs, ok := lookup(o.root, key)
	if !ok {
		return nil, false
	}
	path := append(append([]string{}, o.prefix...), segs...)
	if _, isMap := v.(*Map); !isMap {
		o.ledger.mismatched[joinPath(path)] = fmt.Sprintf("expected Map, got %s", v.Kind())
		return nil, false
	}
	o.markVisited(path)
	return &Object{root: v, prefix: path, ledger: o.ledger}, true
}

// Children returns views of every map in the list stored under key.
func (o *Object) Children(key string) ([]*Object, bool) {
	v, segs, ok := lookup(o.root, key)
	if !ok {
		return nil, false
	}
	path := append(append([]string{}, o.prefix...), segs...)
	list, isList := v.(List)
	if !isList {
		o.ledger.mismatched[joinPath(path)] = fmt.Sprintf("expected List, got %s", v.Kind())
		return nil, false
	}
	for i, item := range list {
		if _, isMap := item.(*Map); !isMap {
			o.ledger.mismatched[joinPath(path)] = fmt.Sprintf("element %d: expected Map, got %s", i, item.Kind())
			return nil, false
		}
	}
	o.markVisited(path)
	out := make([]*Object, len(list))
	for i, item := range list {
		p := append(append([]string{}, path...), strconv.Itoa(i))
		o.ledger.visited[joinPath(p)] = true
		out[i] = &Object{root: item, prefix: p, ledger: o.ledger}
	}
	return out, true
}

func (o *Object) markVisited(path []string) {
	for i := 1; i <= len(path); i++ {
		o.ledger.visited[joinPath(path[:i])] = true
	}
}

// UnconsumedKeys lists, sorted, the full dotted paths under this view that
// were never read. An unread map is reported once without its children.
func (o *Object) UnconsumedKeys() []string {
	var out []string
	o.ledger.walk(o.root, o.prefix, &out)
	sort.Strings(out)
	return out
}

// Mismatches returns the keys that were present but had the wrong shape,
// mapped to the reason.
func (o *Object) Mismatches() map[string]string {
	out := make(map[string]string, len(o.ledger.mismatched))
	for k, v := range o.ledger.mismatched {
		out[k] = v
	}
	return out
}

// Validate returns an *UnconsumedKeysError when any key under this view was
// never read.
func (o *Object) Validate() error {
	keys := o.UnconsumedKeys()
	if len(keys) == 0 {
		return nil
	}
	reasons := make(map[string]string)
	for _, k := range keys {
		if r, ok := o.ledger.mismatched[k]; ok {
			reasons[k] = r
		}
	}
	return &UnconsumedKeysError{Keys: keys, Reasons: reasons}
}

func (l *ledger) walk(v Value, path []string, out *[]string) {
	switch x := v.(type) {
	case *Map:
		for _, k := range x.keys {
			l.entry(x.vals[k], append(append([]string{}, path...), k), out)
		}
	case List:
		for i, item := range x {
			l.entry(item, append(append([]string{}, path...), strconv.Itoa(i)), out)
		}
	}
}

func (l *ledger) entry(v Value, path []string, out *[]string) {
	key := joinPath(path)
	switch {
	case l.consumed[key]:
	case l.visited[key]:
		l.walk(v, path, out)
	default:
		*out = append(*out, key)
	}
}

// UnconsumedKeysError lists configuration keys no component recognized.
type UnconsumedKeysError struct {
	Keys []string
	// Reasons holds conversion failures for keys that were present but mistyped.
	Reasons map[string]string
}

// Error implements the error interface.
func (e *UnconsumedKeysError) Error() string {
	parts := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		if r, ok := e.Reasons[k]; ok {
			parts[i] = fmt.Sprintf("%s (%s)", k, r)
		} else {
			parts[i] = k
		}
	}
	return "config: unconsumed keys: " + strings.Join(parts, ", ")
}

func mismatch(want string, got Value) error {
	return fmt.Errorf("expected %s, got %s", want, got.Kind())
}

func assign(v Value, out any) error {
	switch dst := out.(type) {
	case *Value:
		*dst = v
	case Loader:
		return dst.LoadConfig(v)
	case *bool:
		b, ok := v.(Bool)
		if !ok {
			return mismatch("Bool", v)
		}
		*dst = bool(b)
	case *string:
		s, ok := v.(String)
		if !ok {
			return mismatch("String", v)
		}
		*dst = string(s)
	case *float64:
		f, ok := asFloat(v)
		if !ok {
			return mismatch("Float", v)
		}
		*dst = f
	case *int:
		i, ok := asInt(v)
		if !ok {
			return mismatch("Int", v)
		}
		*dst = int(i)
	case *int64:
		i, ok := asInt(v)
		if !ok {
			return mismatch("Int", v)
		}
		*dst = i
	case *uint:
		i, ok := asInt(v)
		if !ok || i < 0 {
			return mismatch("non-negative Int", v)
		}
		*dst = uint(i)
	case *Range:
		r, ok := v.(Range)
		if !ok {
			return mismatch("Range", v)
		}
		*dst = r
	case *[2]float64:
		r, ok := v.(Range)
		if !ok {
			return mismatch("Range", v)
		}
		*dst = [2]float64{r.Low, r.High}
	case *[2]int:
		r, ok := v.(Range)
		if !ok || r.Low != math.Trunc(r.Low) || r.High != math.Trunc(r.High) {
			return mismatch("integral Range", v)
		}
		*dst = [2]int{int(r.Low), int(r.High)}
	case *[]string:
		l, ok := v.(List)
		if !ok {
			return mismatch("List", v)
		}
		tmp := make([]string, len(l))
		for i, item := range l {
			s, ok := item.(String)
			if !ok {
				return fmt.Errorf("element %d: %w", i, mismatch("String", item))
			}
			tmp[i] = string(s)
		}
		*dst = tmp
	case *[]float64:
		l, ok := v.(List)
		if !ok {
			return mismatch("List", v)
		}
		tmp := make([]float64, len(l))
		for i, item := range l {
			f, ok := asFloat(item)
			if !ok {
				return fmt.Errorf("element %d: %w", i, mismatch("Float", item))
			}
			tmp[i] = f
		}
		*dst = tmp
	default:
		panic(fmt.Sprintf("config: unsupported PopAndLoad target %T", out))
	}
	return nil
}

func asFloat(v Value) (float64, bool) {
	switch x := v.(type) {
	case Float:
		return float64(x), true
	case Int:
		return float64(x), true
	}
	return 0, false
}

func asInt(v Value) (int64, bool) {
	switch x := v.(type) {
	case Int:
		return int64(x), true
	case Float:
		f := float64(x)
		if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<63 {
			return int64(f), true
		}
	}
	return 0, false
}
