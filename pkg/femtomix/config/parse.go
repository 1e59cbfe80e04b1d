package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseError reports malformed configuration text.
type ParseError struct {
	// Offset is the byte offset of the problem in the input.
	Offset int
	// Line and Column are 1-based and derived from Offset.
	Line   int
	Column int
	// Message describes the problem.
	Message string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("config: parse error at offset %d (line %d, column %d): %s",
		e.Offset, e.Line, e.Column, e.Message)
}

// Parse parses configuration text into an Object.
//
// The notation is a superset of JSON: map keys may be unquoted, unquoted
// dotted keys nest (a.b: 1 is {a: {b: 1}}), low:high and low..high are
// Range literals, strings may use single quotes, trailing commas are
// allowed and // starts a line comment.
func Parse(text string) (*Object, error) {
	v, err := ParseValue(text)
	if err != nil {
		return nil, err
	}
	return NewObject(v), nil
}

// ParseValue parses configuration text into a bare Value.
func ParseValue(text string) (Value, error) {
	p := &parser{src: text}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(p.pos, "unexpected end of input")
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf(p.pos, "unexpected %q after value", p.peek())
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) errorf(offset int, format string, args ...any) *ParseError {
	line, col := 1, 1
	for i := 0; i < offset && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{
		Offset:  offset,
		Line:    line,
		Column:  col,
		Message: fmt.Sprintf(format, args...),
	}
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			p.pos++
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	if p.eof() {
		return nil, p.errorf(p.pos, "unexpected end of input")
	}
	start := p.pos
	switch c := p.peek(); {
	case c == '{':
		return p.parseMap()
	case c == '[':
		return p.parseList()
	case c == '\'' || c == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		if err := p.rejectRange(start); err != nil {
			return nil, err
		}
		return String(s), nil
	case c == '-' || c == '+' || isDigit(c):
		return p.parseNumberOrRange()
	case isIdentStart(c):
		word := p.scanWord()
		switch word {
		case "true", "false":
			if err := p.rejectRange(start); err != nil {
				return nil, err
			}
			return Bool(word == "true"), nil
		case "null":
			if err := p.rejectRange(start); err != nil {
				return nil, err
			}
			return Null{}, nil
		case "nan", "inf":
			p.pos = start
			return p.parseNumberOrRange()
		}
		return nil, p.errorf(start, "unexpected identifier %q", word)
	case c == '}' || c == ']':
		return nil, p.errorf(start, "unmatched %q", c)
	default:
		r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
		return nil, p.errorf(start, "unexpected character %q", r)
	}
}

// rejectRange fails when a non-numeric value is followed by a range separator.
func (p *parser) rejectRange(start int) error {
	save := p.pos
	p.skipSpace()
	if p.atRangeSep() {
		return p.errorf(start, "invalid range: lower bound is not numeric")
	}
	p.pos = save
	return nil
}

func (p *parser) atRangeSep() bool {
	if p.eof() {
		return false
	}
	if p.src[p.pos] == ':' {
		return true
	}
	return strings.HasPrefix(p.src[p.pos:], "..")
}

func (p *parser) parseNumberOrRange() (Value, error) {
	start := p.pos
	low, isFloat, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	save := p.pos
	p.skipSpace()
	if !p.atRangeSep() {
		p.pos = save
		if isFloat {
			return Float(low), nil
		}
		i, err := strconv.ParseInt(p.src[start:save], 10, 64)
		if err != nil {
			return nil, p.errorf(start, "integer %s out of range", p.src[start:save])
		}
		return Int(i), nil
	}
	if p.src[p.pos] == ':' {
		p.pos++
	} else {
		p.pos += 2
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(p.pos, "unexpected end of input in range")
	}
	if c := p.peek(); !(c == '-' || c == '+' || isDigit(c) || strings.HasPrefix(p.src[p.pos:], "inf") || strings.HasPrefix(p.src[p.pos:], "nan")) {
		return nil, p.errorf(p.pos, "invalid range: upper bound is not numeric")
	}
	high, _, err := p.parseNumber()
	if err != nil {
		return nil, err
	}
	return Range{Low: low, High: high}, nil
}

// parseNumber scans one numeric literal and reports whether it is a float.
func (p *parser) parseNumber() (float64, bool, error) {
	start := p.pos
	neg := false
	if c := p.peek(); c == '-' || c == '+' {
		neg = c == '-'
		p.pos++
	}
	if strings.HasPrefix(p.src[p.pos:], "inf") {
		p.pos += 3
		if neg {
			return math.Inf(-1), true, nil
		}
		return math.Inf(1), true, nil
	}
	if strings.HasPrefix(p.src[p.pos:], "nan") {
		p.pos += 3
		return math.NaN(), true, nil
	}
	digits := p.pos
	for !p.eof() && isDigit(p.peek()) {
		p.pos++
	}
	if p.pos == digits {
		return 0, false, p.errorf(start, "invalid number")
	}
	isFloat := false
	if p.peek() == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1]) {
		isFloat = true
		p.pos++
		for !p.eof() && isDigit(p.peek()) {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		mark := p.pos
		p.pos++
		if c := p.peek(); c == '-' || c == '+' {
			p.pos++
		}
		if !isDigit(p.peek()) {
			p.pos = mark
		} else {
			isFloat = true
			for !p.eof() && isDigit(p.peek()) {
				p.pos++
			}
		}
	}
	f, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return 0, false, p.errorf(start, "invalid number %q", p.src[start:p.pos])
	}
	return f, isFloat, nil
}

func (p *parser) parseString() (string, error) {
	start := p.pos
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf(start, "unterminated string")
		}
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf(start, "unterminated string")
			}
			esc := p.src[p.pos+1]
			p.pos += 2
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\\', '\'', '"', '/':
				b.WriteByte(esc)
			case 'u':
				if p.pos+4 > len(p.src) {
					return "", p.errorf(p.pos-2, "invalid unicode escape")
				}
				n, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
				if err != nil {
					return "", p.errorf(p.pos-2, "invalid unicode escape")
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				return "", p.errorf(p.pos-2, "invalid escape \\%c", esc)
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseList() (Value, error) {
	open := p.pos
	p.pos++
	list := List{}
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(p.pos, "unexpected end of input: unmatched '[' at offset %d", open)
		}
		if p.peek() == ']' {
			p.pos++
			return list, nil
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list = append(list, v)
		p.skipSpace()
		switch {
		case p.eof():
			return nil, p.errorf(p.pos, "unexpected end of input: unmatched '[' at offset %d", open)
		case p.peek() == ',':
			p.pos++
		case p.peek() == ']':
			p.pos++
			return list, nil
		default:
			return nil, p.errorf(p.pos, "expected ',' or ']' in list, got %q", p.peek())
		}
	}
}

func (p *parser) parseMap() (Value, error) {
	open := p.pos
	p.pos++
	m := NewMap()
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(p.pos, "unexpected end of input: unmatched '{' at offset %d", open)
		}
		if p.peek() == '}' {
			p.pos++
			return m, nil
		}
		keyStart := p.pos
		path, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.peek() != ':' {
			if p.eof() {
				return nil, p.errorf(p.pos, "unexpected end of input: missing ':' after key %q", joinPath(path))
			}
			return nil, p.errorf(p.pos, "missing ':' after key %q", joinPath(path))
		}
		p.pos++
		p.skipSpace()
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		if err := insertPath(m, path, v); err != nil {
			return nil, p.errorf(keyStart, "%s", err.Error())
		}
		p.skipSpace()
		switch {
		case p.eof():
			return nil, p.errorf(p.pos, "unexpected end of input: unmatched '{' at offset %d", open)
		case p.peek() == ',':
			p.pos++
		case p.peek() == '}':
			p.pos++
			return m, nil
		default:
			return nil, p.errorf(p.pos, "expected ',' or '}' in map, got %q", p.peek())
		}
	}
}

// parseKey returns the key path. Quoted keys are a single literal segment.
func (p *parser) parseKey() ([]string, error) {
	start := p.pos
	if c := p.peek(); c == '\'' || c == '"' {
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}
	for !p.eof() && isKeyChar(p.peek()) {
		p.pos++
	}
	if p.pos == start {
		return nil, p.errorf(start, "expected map key, got %q", p.peek())
	}
	raw := p.src[start:p.pos]
	segs := strings.Split(raw, ".")
	for _, s := range segs {
		if s == "" {
			return nil, p.errorf(start, "empty segment in key %q", raw)
		}
	}
	return segs, nil
}

func (p *parser) scanWord() string {
	start := p.pos
	for !p.eof() && isKeyChar(p.peek()) && p.peek() != '.' {
		p.pos++
	}
	return p.src[start:p.pos]
}

// insertPath stores v at path inside m, creating intermediate maps.
// Two maps meeting at the same key are merged; any other collision is an error.
func insertPath(m *Map, path []string, v Value) error {
	for i, seg := range path[:len(path)-1] {
		next, ok := m.Get(seg)
		if !ok {
			child := NewMap()
			m.Set(seg, child)
			m = child
			continue
		}
		child, ok := next.(*Map)
		if !ok {
			return fmt.Errorf("key %q conflicts with a non-map value", joinPath(path[:i+1]))
		}
		m = child
	}
	last := path[len(path)-1]
	existing, ok := m.Get(last)
	if !ok {
		m.Set(last, v)
		return nil
	}
	dst, dstMap := existing.(*Map)
	src, srcMap := v.(*Map)
	if !dstMap || !srcMap {
		return fmt.Errorf("duplicate key %q", joinPath(path))
	}
	for _, k := range src.keys {
		if err := insertPath(dst, []string{k}, src.vals[k]); err != nil {
			return fmt.Errorf("merging %q: %w", joinPath(path), err)
		}
	}
	return nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKeyChar(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '-' || c == '.' || c >= utf8.RuneSelf
}
