package corrfn

import (
	"fmt"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// Summary is a distribution summary published as an output object.
type Summary struct {
	Name   string  `json:"name"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	P90    float64 `json:"p90"`
}

// ObjectName implements hist.Object.
func (s *Summary) ObjectName() string { return s.Name }

func summarize(name string, data []float64) (*Summary, error) {
	s := &Summary{Name: name, Count: len(data)}
	if len(data) == 0 {
		return s, nil
	}
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return nil, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return nil, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return nil, err
	}
	if s.P90, err = stats.Percentile(data, 90); err != nil {
		return nil, err
	}
	return s, nil
}

// PairStatsCorrFctn samples q_inv and k_T of real pairs and summarizes them
// at Finish. Sampling stops after max_samples (100000) pairs.
type PairStatsCorrFctn struct {
	base
	maxSamples int
	qinv       []float64
	kt         []float64
	dropped    int64
	mixed      int64
	outputs    []hist.Object
}

// NewPairStatsCorrFctn builds a PairStatsCorrFctn from obj.
func NewPairStatsCorrFctn(obj *config.Object) (*PairStatsCorrFctn, error) {
	c := &PairStatsCorrFctn{base: newBase(obj, "PairStatsCorrFctn"), maxSamples: 100000}
	obj.PopAndLoad("max_samples", &c.maxSamples)
	if c.maxSamples < 1 {
		return nil, fmt.Errorf("PairStatsCorrFctn: max_samples must be positive, got %d", c.maxSamples)
	}
	return c, nil
}

// AddRealPair records the pair's q_inv and k_T.
func (c *PairStatsCorrFctn) AddRealPair(p *event.Pair) {
	if len(c.qinv) >= c.maxSamples {
		c.dropped++
		return
	}
	c.qinv = append(c.qinv, p.QInv())
	c.kt = append(c.kt, p.KT())
}

// AddMixedPair counts the pair.
func (c *PairStatsCorrFctn) AddMixedPair(*event.Pair) { c.mixed++ }

// Finish computes the summaries.
func (c *PairStatsCorrFctn) Finish() error {
	q, err := summarize(c.name+"_qinv", c.qinv)
	if err != nil {
		return fmt.Errorf("%s: q_inv summary: %w", c.name, err)
	}
	kt, err := summarize(c.name+"_kt", c.kt)
	if err != nil {
		return fmt.Errorf("%s: k_T summary: %w", c.name, err)
	}
	c.outputs = []hist.Object{q, kt}
	c.qinv, c.kt = nil, nil
	return nil
}

// Report implements CorrFctn.
func (c *PairStatsCorrFctn) Report() string {
	if len(c.outputs) == 0 {
		return fmt.Sprintf("Pair statistics %s: not finished\n", c.name)
	}
	q := c.outputs[0].(*Summary)
	return fmt.Sprintf("Pair statistics %s: %d real pairs sampled (%d dropped), q_inv mean %.4f median %.4f\n",
		c.name, q.Count, c.dropped, q.Mean, q.Median)
}

// AppendSettings implements CorrFctn.
func (c *PairStatsCorrFctn) AppendSettings(list []string, prefix string) []string {
	return append(list, prefix+c.name+".max_samples="+strconv.Itoa(c.maxSamples))
}

// OutputList returns the summaries computed by Finish.
func (c *PairStatsCorrFctn) OutputList() []hist.Object { return c.outputs }
