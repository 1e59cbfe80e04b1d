// Package hist provides the fixed-binning histograms that monitors and
// correlation functions publish as output objects.
package hist

import "math"

// Object is anything published in an output bundle.
type Object interface {
	ObjectName() string
}

// Histogram1D counts values in equal-width bins over [Min, Max).
type Histogram1D struct {
	Name      string    `json:"name"`
	Title     string    `json:"title,omitempty"`
	Min       float64   `json:"min"`
	Max       float64   `json:"max"`
	Counts    []float64 `json:"counts"`
	Underflow float64   `json:"underflow"`
	Overflow  float64   `json:"overflow"`
	Entries   int64     `json:"entries"`
}

// New1D creates a histogram with bins equal-width bins. bins < 1 is treated
// as 1.
func New1D(name, title string, bins int, min, max float64) *Histogram1D {
	if bins < 1 {
		bins = 1
	}
	return &Histogram1D{Name: name, Title: title, Min: min, Max: max, Counts: make([]float64, bins)}
}

// ObjectName implements Object.
func (h *Histogram1D) ObjectName() string { return h.Name }

// Fill adds x with weight 1.
func (h *Histogram1D) Fill(x float64) { h.FillWeight(x, 1) }

// FillWeight adds x with weight w. NaN counts as overflow.
func (h *Histogram1D) FillWeight(x, w float64) {
	h.Entries++
	i, ok := binOf(x, h.Min, h.Max, len(h.Counts))
	switch {
	case ok:
		h.Counts[i] += w
	case x < h.Min:
		h.Underflow += w
	default:
		h.Overflow += w
	}
}

// Bin returns the content of bin i.
func (h *Histogram1D) Bin(i int) float64 { return h.Counts[i] }

// Integral returns the summed in-range content.
func (h *Histogram1D) Integral() float64 {
	var s float64
	for _, c := range h.Counts {
		s += c
	}
	return s
}

// BinCenter returns the center of bin i.
func (h *Histogram1D) BinCenter(i int) float64 {
	w := (h.Max - h.Min) / float64(len(h.Counts))
	return h.Min + (float64(i)+0.5)*w
}

// Histogram2D counts (x, y) values over [XMin, XMax) × [YMin, YMax).
// Counts is row-major in y.
type Histogram2D struct {
	Name    string    `json:"name"`
	Title   string    `json:"title,omitempty"`
	XBins   int       `json:"x_bins"`
	XMin    float64   `json:"x_min"`
	XMax    float64   `json:"x_max"`
	YBins   int       `json:"y_bins"`
	YMin    float64   `json:"y_min"`
	YMax    float64   `json:"y_max"`
	Counts  []float64 `json:"counts"`
	Outside float64   `json:"outside"`
	Entries int64     `json:"entries"`
}

// New2D creates a 2D histogram.
func New2D(name, title string, xbins int, xmin, xmax float64, ybins int, ymin, ymax float64) *Histogram2D {
	xbins, ybins = max(xbins, 1), max(ybins, 1)
	return &Histogram2D{
		Name: name, Title: title,
		XBins: xbins, XMin: xmin, XMax: xmax,
		YBins: ybins, YMin: ymin, YMax: ymax,
		Counts: make([]float64, xbins*ybins),
	}
}

// ObjectName implements Object.
func (h *Histogram2D) ObjectName() string { return h.Name }

// Fill adds (x, y) with weight 1.
func (h *Histogram2D) Fill(x, y float64) {
	h.Entries++
	i, okx := binOf(x, h.XMin, h.XMax, h.XBins)
	j, oky := binOf(y, h.YMin, h.YMax, h.YBins)
	if !okx || !oky {
		h.Outside++
		return
	}
	h.Counts[j*h.XBins+i]++
}

// At returns the content of bin (i, j).
func (h *Histogram2D) At(i, j int) float64 { return h.Counts[j*h.XBins+i] }

// Integral returns the summed in-range content.
func (h *Histogram2D) Integral() float64 {
	var s float64
	for _, c := range h.Counts {
		s += c
	}
	return s
}

func binOf(x, lo, hi float64, n int) (int, bool) {
	if math.IsNaN(x) || x < lo || x >= hi {
		return 0, false
	}
	i := int((x - lo) / (hi - lo) * float64(n))
	if i >= n {
		i = n - 1
	}
	return i, true
}
