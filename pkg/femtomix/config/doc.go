/*
Package config provides the configuration value model used to build every
pipeline component.

# Overview

A configuration is a tree of Value variants: Null, Bool, Int, Float,
String, Range, List and *Map. Maps keep insertion order so that a tree
serialized with Stringify and read back with Parse is Equal to the
original.

An Object wraps a tree together with a consumption ledger. Components read
their settings with PopAndLoad, which marks each key as consumed. Anything
left over after construction is unrecognized configuration and is reported
by UnconsumedKeys and Validate.

# Notation

The textual notation is a superset of JSON:

	{
	  class: 'BasicEventCut',        // unquoted keys, single quotes
	  multiplicity: 10:100,          // Range literal
	  vertex_z: -10.0..10.0,         // alternate Range form
	  quality.zdc_energy: 0:5000,    // dotted key nests into quality: {...}
	  trigger: 1,                    // trailing commas are allowed
	}

Unquoted dotted keys nest; quoted keys are taken literally. Malformed input
returns a *ParseError carrying the byte offset, line and column.

# Reading Values

	obj, err := config.Parse(text)
	if err != nil {
	    return err
	}

	mult := [2]int{0, 100000} // default
	obj.PopAndLoad("multiplicity", &mult)

	var depth int = 6
	obj.PopAndLoad("mixing.depth", &depth)

	if err := obj.Validate(); err != nil {
	    // *UnconsumedKeysError listing keys nothing read
	}

Conversion rules:
  - Int widens to float64; Float narrows to an integer only when integral
  - Range converts only to Range, [2]float64 and [2]int
  - String requires a String value; numbers are never turned into strings

A missing key returns false and leaves the target untouched, so callers set
defaults before loading.

# Nested Components

Child and Children return views that share the parent's ledger. A pipeline
builder hands each component its own view; the root object then reports
unconsumed keys for the whole tree.

# File Loading

FromFile picks the format by extension. YAML documents (gopkg.in/yaml.v3)
use the !range tag for ranges; CUE sources (cuelang.org/go) use the @range()
attribute on a string field. ValidateSchema checks a tree against a CUE
schema.
*/
package config
