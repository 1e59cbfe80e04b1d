package event

import "math"

// PadRows is the number of TPC pad rows covered by the cluster bitmaps.
const PadRows = 159

// ClusterMap is a bitmap over TPC pad rows.
type ClusterMap [3]uint64

// Has reports whether row is set.
func (m ClusterMap) Has(row int) bool {
	if row < 0 || row >= PadRows {
		return false
	}
	return m[row/64]&(1<<(row%64)) != 0
}

// Set returns m with row set.
func (m ClusterMap) Set(row int) ClusterMap {
	if row >= 0 && row < PadRows {
		m[row/64] |= 1 << (row % 64)
	}
	return m
}

// Particle is a reconstructed track candidate.
type Particle struct {
	TrackID  int     `json:"track_id" yaml:"track_id"`
	Label    int     `json:"label" yaml:"label"`
	Charge   int     `json:"charge" yaml:"charge"`
	Momentum Vec3    `json:"momentum" yaml:"momentum"`
	Mass     float64 `json:"mass,omitempty" yaml:"mass,omitempty"`

	DCAxy      float64 `json:"dca_xy" yaml:"dca_xy"`
	DCAz       float64 `json:"dca_z" yaml:"dca_z"`
	NSigmaPion float64 `json:"nsigma_pion" yaml:"nsigma_pion"`
	TPCNcls    int     `json:"tpc_ncls" yaml:"tpc_ncls"`
	TPCChi2    float64 `json:"tpc_chi2" yaml:"tpc_chi2"`
	ITSNcls    int     `json:"its_ncls" yaml:"its_ncls"`
	ITSChi2    float64 `json:"its_chi2" yaml:"its_chi2"`
	Kink       bool    `json:"kink,omitempty" yaml:"kink,omitempty"`

	TPCClusters ClusterMap `json:"tpc_clusters" yaml:"tpc_clusters"`
	TPCShared   ClusterMap `json:"tpc_shared" yaml:"tpc_shared"`
}

// Pt returns the transverse momentum.
func (p *Particle) Pt() float64 { return p.Momentum.Perp() }

// P returns the momentum magnitude.
func (p *Particle) P() float64 { return p.Momentum.Mag() }

// Energy returns the energy for the particle's assigned mass.
func (p *Particle) Energy() float64 {
	return math.Sqrt(p.Momentum.Mag2() + p.Mass*p.Mass)
}

// Eta returns the pseudorapidity. Tracks along the beam axis return ±Inf.
func (p *Particle) Eta() float64 {
	pm := p.P()
	switch {
	case pm == p.Momentum.Z:
		return math.Inf(1)
	case pm == -p.Momentum.Z:
		return math.Inf(-1)
	}
	return 0.5 * math.Log((pm+p.Momentum.Z)/(pm-p.Momentum.Z))
}

// Phi returns the azimuth in (-π, π].
func (p *Particle) Phi() float64 {
	return math.Atan2(p.Momentum.Y, p.Momentum.X)
}

// TPCChi2PerCluster returns the TPC χ² per cluster, or +Inf with no clusters.
func (p *Particle) TPCChi2PerCluster() float64 {
	if p.TPCNcls == 0 {
		return math.Inf(1)
	}
	return p.TPCChi2 / float64(p.TPCNcls)
}

// ITSChi2PerCluster returns the ITS χ² per cluster, or +Inf with no clusters.
func (p *Particle) ITSChi2PerCluster() float64 {
	if p.ITSNcls == 0 {
		return math.Inf(1)
	}
	return p.ITSChi2 / float64(p.ITSNcls)
}

// PhiStar returns the azimuth of the track at radius r (m) in a solenoidal
// field bz (T).
func (p *Particle) PhiStar(bz, r float64) float64 {
	pt := p.Pt()
	if pt == 0 {
		return p.Phi()
	}
	arg := -0.15 * bz * float64(p.Charge) * r / pt
	arg = math.Max(-1, math.Min(1, arg))
	return p.Phi() + math.Asin(arg)
}
