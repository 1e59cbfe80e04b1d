package cut

import (
	"fmt"
	"strconv"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
)

// Bounds is a numeric interval with explicit inclusivity at each end.
type Bounds struct {
	Low           float64
	High          float64
	LowInclusive  bool
	HighInclusive bool
}

// Closed returns [low, high].
func Closed(low, high float64) Bounds { return Bounds{low, high, true, true} }

// Open returns (low, high).
func Open(low, high float64) Bounds { return Bounds{low, high, false, false} }

// HalfOpen returns [low, high).
func HalfOpen(low, high float64) Bounds { return Bounds{low, high, true, false} }

// Contains reports whether x lies within b. NaN is never contained.
func (b Bounds) Contains(x float64) bool {
	lowOK := x > b.Low || (b.LowInclusive && x == b.Low)
	highOK := x < b.High || (b.HighInclusive && x == b.High)
	return lowOK && highOK
}

// Notation returns "[]", "()", "[)" or "(]".
func (b Bounds) Notation() string {
	l, h := "(", ")"
	if b.LowInclusive {
		l = "["
	}
	if b.HighInclusive {
		h = "]"
	}
	return l + h
}

// String renders b as an interval, e.g. "[10, 100]".
func (b Bounds) String() string {
	n := b.Notation()
	return fmt.Sprintf("%c%s, %s%c", n[0], formatFloat(b.Low), formatFloat(b.High), n[1])
}

// loadBounds reads field as a Range and the optional field_bounds notation,
// starting from def.
func loadBounds(obj *config.Object, cut, field string, def Bounds) (Bounds, error) {
	b := def
	var r [2]float64
	if obj.PopAndLoad(field, &r) {
		b.Low, b.High = r[0], r[1]
	}
	var notation string
	if obj.PopAndLoad(field+"_bounds", &notation) {
		switch notation {
		case "[]", "()", "[)", "(]":
			b.LowInclusive = notation[0] == '['
			b.HighInclusive = notation[1] == ']'
		default:
			return b, fmt.Errorf("%s.%s_bounds: %q is not one of [] () [) (]", cut, field, notation)
		}
	}
	if !(b.Low <= b.High) {
		return b, &InvalidRangeError{Cut: cut, Field: field, Low: b.Low, High: b.High}
	}
	return b, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// rangeSettings appends prefix.min= and prefix.max= lines for b.
func rangeSettings(list []string, prefix string, b Bounds) []string {
	return append(list,
		prefix+".min="+formatFloat(b.Low),
		prefix+".max="+formatFloat(b.High),
	)
}
