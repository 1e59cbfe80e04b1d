package corrfn

import (
	"fmt"
	"strconv"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/randalmurphal/femtomix/pkg/femtomix/hist"
)

// DEtaDPhiStarCorrFctn fills Δη × Δφ* for real and mixed pairs. It is the
// usual diagnostic for track merging and splitting.
//
// Keys: bins_eta (40), bins_phi (40), deta (-0.2:0.2), dphi (-0.2:0.2),
// phi_star_radius (1.2 m), name.
type DEtaDPhiStarCorrFctn struct {
	base
	radius float64
	num    *hist.Histogram2D
	den    *hist.Histogram2D
}

// NewDEtaDPhiStarCorrFctn builds a DEtaDPhiStarCorrFctn from obj.
func NewDEtaDPhiStarCorrFctn(obj *config.Object) (*DEtaDPhiStarCorrFctn, error) {
	c := &DEtaDPhiStarCorrFctn{base: newBase(obj, "DEtaDPhiStarCorrFctn"), radius: 1.2}
	binsEta, binsPhi := 40, 40
	deta, dphi := [2]float64{-0.2, 0.2}, [2]float64{-0.2, 0.2}
	obj.PopAndLoad("bins_eta", &binsEta)
	obj.PopAndLoad("bins_phi", &binsPhi)
	obj.PopAndLoad("deta", &deta)
	obj.PopAndLoad("dphi", &dphi)
	obj.PopAndLoad("phi_star_radius", &c.radius)
	if binsEta < 1 || binsPhi < 1 {
		return nil, fmt.Errorf("DEtaDPhiStarCorrFctn: bins must be positive, got %d and %d", binsEta, binsPhi)
	}
	if deta[0] >= deta[1] || dphi[0] >= dphi[1] {
		return nil, fmt.Errorf("DEtaDPhiStarCorrFctn: empty axis range")
	}
	c.num = hist.New2D(c.name+"_num", "#Delta#eta #Delta#phi* real", binsEta, deta[0], deta[1], binsPhi, dphi[0], dphi[1])
	c.den = hist.New2D(c.name+"_den", "#Delta#eta #Delta#phi* mixed", binsEta, deta[0], deta[1], binsPhi, dphi[0], dphi[1])
	return c, nil
}

// AddRealPair fills the numerator.
func (c *DEtaDPhiStarCorrFctn) AddRealPair(p *event.Pair) {
	c.num.Fill(p.DeltaEta(), p.DeltaPhiStar(c.radius))
}

// AddMixedPair fills the denominator.
func (c *DEtaDPhiStarCorrFctn) AddMixedPair(p *event.Pair) {
	c.den.Fill(p.DeltaEta(), p.DeltaPhiStar(c.radius))
}

// Finish implements CorrFctn.
func (c *DEtaDPhiStarCorrFctn) Finish() error { return nil }

// Report implements CorrFctn.
func (c *DEtaDPhiStarCorrFctn) Report() string {
	return fmt.Sprintf("DEtaDPhiStar correlation function %s: %d real pairs, %d mixed pairs\n",
		c.name, c.num.Entries, c.den.Entries)
}

// AppendSettings implements CorrFctn.
func (c *DEtaDPhiStarCorrFctn) AppendSettings(list []string, prefix string) []string {
	p := prefix + c.name
	return append(list,
		p+".bins_eta="+strconv.Itoa(c.num.XBins),
		p+".bins_phi="+strconv.Itoa(c.num.YBins),
		p+".phi_star_radius="+formatFloat(c.radius),
	)
}

// OutputList implements CorrFctn.
func (c *DEtaDPhiStarCorrFctn) OutputList() []hist.Object {
	return []hist.Object{c.num, c.den}
}
