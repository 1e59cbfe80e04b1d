package mixing

import (
	"fmt"
	"math"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// BinIndex addresses one (vertex, multiplicity) cell.
type BinIndex struct {
	Vertex int
	Mult   int
}

// OverflowBin collects every event outside the binning.
var OverflowBin = BinIndex{Vertex: -1, Mult: -1}

// String renders the index as "v<vertex>_m<mult>" or "overflow".
func (b BinIndex) String() string {
	if b == OverflowBin {
		return "overflow"
	}
	return fmt.Sprintf("v%d_m%d", b.Vertex, b.Mult)
}

// Multiplicity sources.
const (
	SourceMultiplicity = "multiplicity"
	SourceCentrality   = "centrality"
)

// Binning divides [VertexMin, VertexMax) × [MultMin, MultMax) into equal
// half-open cells.
type Binning struct {
	VertexBins int `validate:"gte=1"`
	VertexMin  float64
	VertexMax  float64 `validate:"gtfield=VertexMin"`
	MultBins   int     `validate:"gte=1"`
	MultMin    float64
	MultMax    float64 `validate:"gtfield=MultMin"`
	MultSource string  `validate:"oneof=multiplicity centrality"`
}

// Params are the mixing parameters of an analysis.
type Params struct {
	Binning
	Depth       int `validate:"gte=1"`
	MinCollSize int `validate:"gte=0"`
	// Strict excludes overflow events from pairing. They are still pooled.
	Strict bool
}

// DefaultParams returns 16 vertex bins over [-10, 10), 30 multiplicity
// bins over [0, 10000), depth 6 and a minimum pooled size of 15.
func DefaultParams() Params {
	return Params{
		Binning: Binning{
			VertexBins: 16, VertexMin: -10, VertexMax: 10,
			MultBins: 30, MultMin: 0, MultMax: 10000,
			MultSource: SourceMultiplicity,
		},
		Depth:       6,
		MinCollSize: 15,
	}
}

var validate = validator.New()

// Validate checks the parameters against their struct tags.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("mixing: %w", err)
	}
	return nil
}

// Bin returns the cell of ev and whether it fell outside the binning.
func (b Binning) Bin(ev *event.Event) (BinIndex, bool) {
	m := float64(ev.Multiplicity)
	if b.MultSource == SourceCentrality {
		m = ev.Centrality
	}
	return b.BinOf(ev.Vertex.Z, m)
}

// BinOf returns the cell of (z, m). Values outside the half-open ranges, and
// NaN, map to OverflowBin.
func (b Binning) BinOf(z, m float64) (BinIndex, bool) {
	v, okv := axis(z, b.VertexMin, b.VertexMax, b.VertexBins)
	u, okm := axis(m, b.MultMin, b.MultMax, b.MultBins)
	if !okv || !okm {
		return OverflowBin, true
	}
	return BinIndex{Vertex: v, Mult: u}, false
}

func axis(x, lo, hi float64, n int) (int, bool) {
	if math.IsNaN(x) || x < lo || x >= hi {
		return 0, false
	}
	i := int(math.Floor((x - lo) / (hi - lo) * float64(n)))
	return min(i, n-1), true
}

// AppendSettings appends the mixing settings under prefix.
func (p Params) AppendSettings(list []string, prefix string) []string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return append(list,
		prefix+"mixing.vertex_bins="+strconv.Itoa(p.VertexBins),
		prefix+"mixing.vertex.min="+f(p.VertexMin),
		prefix+"mixing.vertex.max="+f(p.VertexMax),
		prefix+"mixing.mult_bins="+strconv.Itoa(p.MultBins),
		prefix+"mixing.mult.min="+f(p.MultMin),
		prefix+"mixing.mult.max="+f(p.MultMax),
		prefix+"mixing.mult_source="+p.MultSource,
		prefix+"mixing.depth="+strconv.Itoa(p.Depth),
		prefix+"mixing.min_coll_size="+strconv.Itoa(p.MinCollSize),
		prefix+"mixing.strict="+strconv.FormatBool(p.Strict),
	)
}

// LoadParams reads the mixing.* keys of obj over def and validates the
// result.
func LoadParams(obj *config.Object, def Params) (Params, error) {
	p := def
	var r [2]float64
	obj.PopAndLoad("mixing.vertex_bins", &p.VertexBins)
	if obj.PopAndLoad("mixing.vertex", &r) {
		p.VertexMin, p.VertexMax = r[0], r[1]
	}
	obj.PopAndLoad("mixing.mult_bins", &p.MultBins)
	if obj.PopAndLoad("mixing.mult", &r) {
		p.MultMin, p.MultMax = r[0], r[1]
	}
	obj.PopAndLoad("mixing.mult_source", &p.MultSource)
	obj.PopAndLoad("mixing.depth", &p.Depth)
	obj.PopAndLoad("mixing.min_coll_size", &p.MinCollSize)
	obj.PopAndLoad("mixing.strict", &p.Strict)
	return p, p.Validate()
}
