package config

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Stringify serializes v to configuration text that Parse reads back to an
// equal value. Pretty output puts one entry per line with two-space indent.
func Stringify(v Value, pretty bool) string {
	var b strings.Builder
	w := &writer{b: &b, pretty: pretty}
	w.value(v, 0)
	return b.String()
}

type writer struct {
	b      *strings.Builder
	pretty bool
}

func (w *writer) value(v Value, depth int) {
	switch x := v.(type) {
	case nil, Null:
		w.b.WriteString("null")
	case Bool:
		w.b.WriteString(strconv.FormatBool(bool(x)))
	case Int:
		w.b.WriteString(strconv.FormatInt(int64(x), 10))
	case Float:
		w.b.WriteString(formatFloat(float64(x)))
	case String:
		w.b.WriteString(quote(string(x)))
	case Range:
		w.b.WriteString(formatBound(x.Low))
		w.b.WriteByte(':')
		w.b.WriteString(formatBound(x.High))
	case List:
		w.list(x, depth)
	case *Map:
		w.mapping(x, depth)
	}
}

func (w *writer) list(l List, depth int) {
	if len(l) == 0 {
		w.b.WriteString("[]")
		return
	}
	w.b.WriteByte('[')
	for i, item := range l {
		if i > 0 {
			w.b.WriteByte(',')
			if !w.pretty {
				w.b.WriteByte(' ')
			}
		}
		w.newline(depth + 1)
		w.value(item, depth+1)
	}
	w.newline(depth)
	w.b.WriteByte(']')
}

func (w *writer) mapping(m *Map, depth int) {
	if m.Len() == 0 {
		w.b.WriteString("{}")
		return
	}
	w.b.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			w.b.WriteByte(',')
			if !w.pretty {
				w.b.WriteByte(' ')
			}
		}
		w.newline(depth + 1)
		w.b.WriteString(formatKey(k))
		w.b.WriteString(": ")
		w.value(m.vals[k], depth+1)
	}
	w.newline(depth)
	w.b.WriteByte('}')
}

func (w *writer) newline(depth int) {
	if !w.pretty {
		return
	}
	w.b.WriteByte('\n')
	for range depth {
		w.b.WriteString("  ")
	}
}

// formatFloat always yields a literal that parses back as a Float.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func formatBound(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatKey(k string) string {
	if k == "" {
		return "''"
	}
	for i := 0; i < len(k); i++ {
		c := k[i]
		if !(isIdentStart(c) || isDigit(c) || c == '-') {
			return quote(k)
		}
	}
	return k
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch r {
		case '\'':
			b.WriteString(`\'`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			if r < 0x20 {
				b.WriteString(`\u00`)
				b.WriteString(strconv.FormatInt(int64(r)>>4, 16))
				b.WriteString(strconv.FormatInt(int64(r)&0xf, 16))
			} else {
				b.WriteString(s[i : i+size])
			}
		}
		i += size
	}
	b.WriteByte('\'')
	return b.String()
}
