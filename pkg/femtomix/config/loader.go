package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// FromFile loads configuration from a file, choosing the format by extension:
// .yaml and .yml use YAML, .cue uses CUE, anything else uses the native notation.
func FromFile(path string) (*Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".cue":
		return FromCUE(data)
	default:
		return Parse(string(data))
	}
}

// FromYAML converts a YAML document into an Object. Mapping order is kept,
// dotted keys nest like in the native notation, and a scalar tagged !range
// ("!range 10:100") becomes a Range.
func FromYAML(data []byte) (*Object, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewObject(NewMap()), nil
	}
	v, err := fromYAMLNode(doc.Content[0])
	if err != nil {
		return nil, err
	}
	return NewObject(v), nil
}

func fromYAMLNode(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null{}, nil
		}
		return fromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			if err := insertPath(m, strings.Split(key, "."), v); err != nil {
				return nil, fmt.Errorf("yaml line %d: %w", n.Content[i].Line, err)
			}
		}
		return m, nil
	case yaml.SequenceNode:
		list := make(List, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return nil, fmt.Errorf("yaml line %d: unsupported node kind %d", n.Line, n.Kind)
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("yaml line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("yaml line %d: %w", n.Line, err)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("yaml line %d: %w", n.Line, err)
		}
		return Float(f), nil
	case "!!str":
		return String(n.Value), nil
	case "!range":
		return parseRange(n.Value)
	}
	return nil, fmt.Errorf("yaml line %d: unsupported tag %s", n.Line, n.Tag)
}

func parseRange(s string) (Value, error) {
	v, err := ParseValue(s)
	if err != nil {
		return nil, err
	}
	r, ok := v.(Range)
	if !ok {
		return nil, fmt.Errorf("%q is not a range", s)
	}
	return r, nil
}

// FromCUE evaluates CUE source and converts the concrete result into an
// Object. Struct field order is kept. A string field carrying the @range()
// attribute ("mult: \"0:100\" @range()") becomes a Range.
func FromCUE(data []byte) (*Object, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("compile cue: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("validate cue: %w", err)
	}
	out, err := fromCUEValue(v)
	if err != nil {
		return nil, err
	}
	return NewObject(out), nil
}

func fromCUEValue(v cue.Value) (Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		return Bool(b), err
	case cue.IntKind:
		i, err := v.Int64()
		return Int(i), err
	case cue.FloatKind:
		f, err := v.Float64()
		return Float(f), err
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, err
		}
		attr := v.Attribute("range")
		if attr.Err() == nil {
			return parseRange(s)
		}
		return String(s), nil
	case cue.ListKind:
		it, err := v.List()
		if err != nil {
			return nil, err
		}
		list := List{}
		for it.Next() {
			item, err := fromCUEValue(it.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, item)
		}
		return list, nil
	case cue.StructKind:
		it, err := v.Fields()
		if err != nil {
			return nil, err
		}
		m := NewMap()
		for it.Next() {
			item, err := fromCUEValue(it.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", it.Label(), err)
			}
			if err := insertPath(m, strings.Split(it.Label(), "."), item); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported cue kind %s", v.Kind())
}
