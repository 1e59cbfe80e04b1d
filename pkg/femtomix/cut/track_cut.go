package cut

import (
	"fmt"
	"math"
	"strings"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// PionMass is the charged pion mass in GeV/c².
const PionMass = 0.13957039

// TrackCut selects particle candidates on charge, kinematics, PID and track
// quality, and assigns accepted particles its mass.
//
// Defaults: charge 0 (any), pt [0.2, 2.0], eta [-0.8, 0.8],
// nsigma_pion [-3, 3], min_tpc_ncls 80, max_tpc_chi_ndof 4,
// max_its_chi_ndof 36, max_impact_xy 2.4, max_impact_z 3.0,
// remove_kinks true, mass = PionMass. The ITS χ² limit applies only to
// tracks with ITS clusters.
type TrackCut struct {
	Base
	charge        int
	pt            Bounds
	eta           Bounds
	nsigma        Bounds
	minTPCNcls    int
	maxTPCChiNdof float64
	maxITSChiNdof float64
	maxImpactXY   float64
	maxImpactZ    float64
	removeKinks   bool
	mass          float64
}

// NewTrackCut builds a TrackCut from obj.
func NewTrackCut(obj *config.Object) (*TrackCut, error) {
	return newTrackCut("TrackCut", obj, 0)
}

// NewPionCut builds a TrackCut named PionCut. Its charge comes from
// pion_type ("pi+" or "pi-", default "pi+") unless charge is set.
func NewPionCut(obj *config.Object) (*TrackCut, error) {
	pionType := "pi+"
	obj.PopAndLoad("pion_type", &pionType)
	charge, err := PionCharge(pionType)
	if err != nil {
		return nil, fmt.Errorf("PionCut: %w", err)
	}
	return newTrackCut("PionCut", obj, charge)
}

// PionCharge maps "pi+" and "pi-" to their charge.
func PionCharge(pionType string) (int, error) {
	switch pionType {
	case "pi+":
		return 1, nil
	case "pi-":
		return -1, nil
	}
	return 0, fmt.Errorf("unknown pion type %q", pionType)
}

func newTrackCut(name string, obj *config.Object, charge int) (*TrackCut, error) {
	c := &TrackCut{
		Base:          newBase(name),
		charge:        charge,
		minTPCNcls:    80,
		maxTPCChiNdof: 4.0,
		maxITSChiNdof: 36.0,
		maxImpactXY:   2.4,
		maxImpactZ:    3.0,
		removeKinks:   true,
		mass:          PionMass,
	}
	obj.PopAndLoad("charge", &c.charge)
	var err error
	if c.pt, err = loadBounds(obj, name, "pt", Closed(0.2, 2.0)); err != nil {
		return nil, err
	}
	if c.eta, err = loadBounds(obj, name, "eta", Closed(-0.8, 0.8)); err != nil {
		return nil, err
	}
	if c.nsigma, err = loadBounds(obj, name, "nsigma_pion", Closed(-3, 3)); err != nil {
		return nil, err
	}
	obj.PopAndLoad("min_tpc_ncls", &c.minTPCNcls)
	obj.PopAndLoad("max_tpc_chi_ndof", &c.maxTPCChiNdof)
	obj.PopAndLoad("max_its_chi_ndof", &c.maxITSChiNdof)
	obj.PopAndLoad("max_impact_xy", &c.maxImpactXY)
	obj.PopAndLoad("max_impact_z", &c.maxImpactZ)
	obj.PopAndLoad("remove_kinks", &c.removeKinks)
	obj.PopAndLoad("mass", &c.mass)
	if c.mass <= 0 {
		return nil, fmt.Errorf("%s.mass: %g is not positive", name, c.mass)
	}
	return c, nil
}

// Mass returns the mass assigned to accepted particles.
func (c *TrackCut) Mass() float64 { return c.mass }

// Charge returns the required charge, 0 for any.
func (c *TrackCut) Charge() int { return c.charge }

// Pass tests p and counts the result. p is not modified.
func (c *TrackCut) Pass(p *event.Particle) bool {
	ok := (c.charge == 0 || p.Charge == c.charge) &&
		c.pt.Contains(p.Pt()) &&
		c.eta.Contains(p.Eta()) &&
		c.nsigma.Contains(p.NSigmaPion) &&
		p.TPCNcls >= c.minTPCNcls &&
		p.TPCChi2PerCluster() <= c.maxTPCChiNdof &&
		(p.ITSNcls == 0 || p.ITSChi2PerCluster() <= c.maxITSChiNdof) &&
		math.Abs(p.DCAxy) <= c.maxImpactXY &&
		math.Abs(p.DCAz) <= c.maxImpactZ &&
		(!c.removeKinks || !p.Kink)
	return c.record(ok, p)
}

// Report returns the thresholds and totals.
func (c *TrackCut) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Particle charge:\t %d\n", c.charge)
	fmt.Fprintf(&b, "Pt:\t %s\n", c.pt)
	fmt.Fprintf(&b, "Pseudorapidity:\t %s\n", c.eta)
	fmt.Fprintf(&b, "NSigma pion:\t %s\n", c.nsigma)
	fmt.Fprintf(&b, "Number of particles which passed:\t%d  Number which failed:\t%d\n", c.passed, c.failed)
	return b.String()
}

// AppendSettings implements Reporter.
func (c *TrackCut) AppendSettings(list []string, prefix string) []string {
	p := prefix + c.name
	list = append(list, fmt.Sprintf("%s.charge=%d", p, c.charge))
	list = rangeSettings(list, p+".pt", c.pt)
	list = rangeSettings(list, p+".eta", c.eta)
	list = rangeSettings(list, p+".nsigma_pion", c.nsigma)
	return append(list,
		fmt.Sprintf("%s.min_tpc_ncls=%d", p, c.minTPCNcls),
		p+".max_tpc_chi_ndof="+formatFloat(c.maxTPCChiNdof),
		p+".max_its_chi_ndof="+formatFloat(c.maxITSChiNdof),
		p+".max_impact_xy="+formatFloat(c.maxImpactXY),
		p+".max_impact_z="+formatFloat(c.maxImpactZ),
		p+".remove_kinks="+formatBool(c.removeKinks),
		p+".mass="+formatFloat(c.mass),
	)
}
