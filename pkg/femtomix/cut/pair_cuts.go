package cut

import (
	"fmt"
	"math"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// DummyPairCut accepts every pair.
type DummyPairCut struct {
	Base
}

// NewDummyPairCut builds a DummyPairCut. It takes no keys.
func NewDummyPairCut(*config.Object) (*DummyPairCut, error) {
	return &DummyPairCut{Base: newBase("DummyPairCut")}, nil
}

// Pass accepts p and counts it.
func (c *DummyPairCut) Pass(p *event.Pair) bool { return c.record(true, p) }

// Report returns the totals.
func (c *DummyPairCut) Report() string {
	return fmt.Sprintf("Number of pairs which passed:\t%d  Number which failed:\t%d\n", c.passed, c.failed)
}

// AppendSettings implements Reporter. DummyPairCut has no thresholds.
func (c *DummyPairCut) AppendSettings(list []string, _ string) []string { return list }

// ShareQuality returns the TPC share quality and share fraction of two
// tracks over the pad rows.
//
// For each row clustered by both tracks, a row shared by both counts +1
// quality and two shared hits; otherwise -1 quality. A row clustered by only
// one track counts +1 quality. Both values are normalised by the number of
// hits and are 0 when neither track has clusters.
func ShareQuality(a, b *event.Particle) (quality, fraction float64) {
	var an, nh, ns int
	for row := 0; row < event.PadRows; row++ {
		c1, c2 := a.TPCClusters.Has(row), b.TPCClusters.Has(row)
		switch {
		case c1 && c2:
			if a.TPCShared.Has(row) && b.TPCShared.Has(row) {
				an++
				ns += 2
			} else {
				an--
			}
			nh += 2
		case c1 || c2:
			an++
			nh++
		}
	}
	if nh == 0 {
		return 0, 0
	}
	return float64(an) / float64(nh), float64(ns) / float64(nh)
}

type shareQuality struct {
	maxQuality      float64
	maxFraction     float64
	removeSameLabel bool
}

func loadShareQuality(obj *config.Object) shareQuality {
	s := shareQuality{maxQuality: 1.0, maxFraction: 0.05}
	obj.PopAndLoad("max_share_quality", &s.maxQuality)
	obj.PopAndLoad("max_share_fraction", &s.maxFraction)
	obj.PopAndLoad("remove_same_label", &s.removeSameLabel)
	return s
}

func (s shareQuality) pass(p *event.Pair) bool {
	if s.removeSameLabel && p.First.Label == p.Second.Label {
		return false
	}
	q, f := ShareQuality(p.First, p.Second)
	return q < s.maxQuality && f < s.maxFraction
}

func (s shareQuality) settings(list []string, p string) []string {
	return append(list,
		p+".max_share_quality="+formatFloat(s.maxQuality),
		p+".max_share_fraction="+formatFloat(s.maxFraction),
		p+".remove_same_label="+formatBool(s.removeSameLabel),
	)
}

// ShareQualityPairCut rejects pairs whose tracks share too many TPC
// clusters. Defaults: max_share_quality 1.0, max_share_fraction 0.05,
// remove_same_label false.
type ShareQualityPairCut struct {
	Base
	share shareQuality
}

// NewShareQualityPairCut builds a ShareQualityPairCut from obj.
func NewShareQualityPairCut(obj *config.Object) (*ShareQualityPairCut, error) {
	return &ShareQualityPairCut{Base: newBase("ShareQualityPairCut"), share: loadShareQuality(obj)}, nil
}

// Pass tests p and counts the result.
func (c *ShareQualityPairCut) Pass(p *event.Pair) bool { return c.record(c.share.pass(p), p) }

// Report returns the thresholds and totals.
func (c *ShareQualityPairCut) Report() string {
	return fmt.Sprintf("Share quality max:\t %g  Share fraction max:\t %g\nNumber of pairs which passed:\t%d  Number which failed:\t%d\n",
		c.share.maxQuality, c.share.maxFraction, c.passed, c.failed)
}

// AppendSettings implements Reporter.
func (c *ShareQualityPairCut) AppendSettings(list []string, prefix string) []string {
	return c.share.settings(list, prefix+"ShareQualityPairCut")
}

// DetaDphiPairCut rejects close pairs inside the ellipse
// (Δη/delta_eta_min)² + (Δφ*/delta_phi_min)² < 1, with Δφ* evaluated at
// phi_star_radius. A zero minimum drops that term; both zero accepts all
// pairs. The share-quality test of ShareQualityPairCut is applied too.
//
// Defaults: delta_eta_min 0, delta_phi_min 0, phi_star_radius 1.2 m.
type DetaDphiPairCut struct {
	Base
	detaMin float64
	dphiMin float64
	radius  float64
	share   shareQuality
}

// NewDetaDphiPairCut builds a DetaDphiPairCut from obj.
func NewDetaDphiPairCut(obj *config.Object) (*DetaDphiPairCut, error) {
	c := &DetaDphiPairCut{Base: newBase("DetaDphiPairCut"), radius: 1.2}
	obj.PopAndLoad("delta_eta_min", &c.detaMin)
	obj.PopAndLoad("delta_phi_min", &c.dphiMin)
	obj.PopAndLoad("phi_star_radius", &c.radius)
	if c.detaMin < 0 || c.dphiMin < 0 {
		return nil, fmt.Errorf("DetaDphiPairCut: minima must be non-negative, got %g and %g", c.detaMin, c.dphiMin)
	}
	c.share = loadShareQuality(obj)
	return c, nil
}

// Pass tests p and counts the result.
func (c *DetaDphiPairCut) Pass(p *event.Pair) bool {
	return c.record(c.separated(p) && c.share.pass(p), p)
}

func (c *DetaDphiPairCut) separated(p *event.Pair) bool {
	if c.detaMin == 0 && c.dphiMin == 0 {
		return true
	}
	var r float64
	if c.detaMin > 0 {
		r += math.Pow(p.DeltaEta()/c.detaMin, 2)
	}
	if c.dphiMin > 0 {
		r += math.Pow(p.DeltaPhiStar(c.radius)/c.dphiMin, 2)
	}
	return r >= 1
}

// Report returns the thresholds and totals.
func (c *DetaDphiPairCut) Report() string {
	return fmt.Sprintf("Delta eta min:\t %g  Delta phi* min:\t %g  Radius:\t %g\nNumber of pairs which passed:\t%d  Number which failed:\t%d\n",
		c.detaMin, c.dphiMin, c.radius, c.passed, c.failed)
}

// AppendSettings implements Reporter.
func (c *DetaDphiPairCut) AppendSettings(list []string, prefix string) []string {
	p := prefix + "DetaDphiPairCut"
	list = append(list,
		p+".delta_eta_min="+formatFloat(c.detaMin),
		p+".delta_phi_min="+formatFloat(c.dphiMin),
		p+".phi_star_radius="+formatFloat(c.radius),
	)
	return c.share.settings(list, p)
}
