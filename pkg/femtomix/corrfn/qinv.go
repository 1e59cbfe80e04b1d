package corrfn

import (
	"fmt"
	"strconv"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// QinvCorrFctn fills q_inv of real pairs into a numerator and of mixed pairs
// into a denominator.
//
// Keys: bins (100), qinv (0:1), kt (optional half-open k_T window), name.
type QinvCorrFctn struct {
	base
	num   *hist.Histogram1D
	den   *hist.Histogram1D
	kt    *config.Range
	nreal int64
	nmix  int64
}

// NewQinvCorrFctn builds a QinvCorrFctn from obj.
func NewQinvCorrFctn(obj *config.Object) (*QinvCorrFctn, error) {
	c := &QinvCorrFctn{base: newBase(obj, "QinvCorrFctn")}
	bins := 100
	q := [2]float64{0, 1}
	obj.PopAndLoad("bins", &bins)
	obj.PopAndLoad("qinv", &q)
	if bins < 1 {
		return nil, fmt.Errorf("QinvCorrFctn: bins must be positive, got %d", bins)
	}
	if q[0] >= q[1] {
		return nil, fmt.Errorf("QinvCorrFctn: qinv range %g:%g is empty", q[0], q[1])
	}
	var kt config.Range
	if obj.PopAndLoad("kt", &kt) {
		if kt.Inverted() {
			return nil, fmt.Errorf("QinvCorrFctn: kt range %g:%g is inverted", kt.Low, kt.High)
		}
		c.kt = &kt
	}
	c.num = hist.New1D(c.name+"_num", "q_inv real", bins, q[0], q[1])
	c.den = hist.New1D(c.name+"_den", "q_inv mixed", bins, q[0], q[1])
	return c, nil
}

func (c *QinvCorrFctn) accept(p *event.Pair) bool {
	if c.kt == nil {
		return true
	}
	kt := p.KT()
	return kt >= c.kt.Low && kt < c.kt.High
}

// AddRealPair fills the numerator.
func (c *QinvCorrFctn) AddRealPair(p *event.Pair) {
	if c.accept(p) {
		c.nreal++
		c.num.Fill(p.QInv())
	}
}

// AddMixedPair fills the denominator.
func (c *QinvCorrFctn) AddMixedPair(p *event.Pair) {
	if c.accept(p) {
		c.nmix++
		c.den.Fill(p.QInv())
	}
}

// Numerator returns the real-pair histogram.
func (c *QinvCorrFctn) Numerator() *hist.Histogram1D { return c.num }

// Denominator returns the mixed-pair histogram.
func (c *QinvCorrFctn) Denominator() *hist.Histogram1D { return c.den }

// Finish implements CorrFctn.
func (c *QinvCorrFctn) Finish() error { return nil }

// Report implements CorrFctn.
func (c *QinvCorrFctn) Report() string {
	return fmt.Sprintf("Qinv correlation function %s: %d real pairs, %d mixed pairs\n", c.name, c.nreal, c.nmix)
}

// AppendSettings implements CorrFctn.
func (c *QinvCorrFctn) AppendSettings(list []string, prefix string) []string {
	p := prefix + c.name
	list = append(list,
		p+".bins="+strconv.Itoa(len(c.num.Counts)),
		p+".qinv.min="+formatFloat(c.num.Min),
		p+".qinv.max="+formatFloat(c.num.Max),
	)
	if c.kt != nil {
		list = append(list, p+".kt.min="+formatFloat(c.kt.Low), p+".kt.max="+formatFloat(c.kt.High))
	}
	return list
}

// OutputList implements CorrFctn.
func (c *QinvCorrFctn) OutputList() []hist.Object {
	return []hist.Object{c.num, c.den}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
