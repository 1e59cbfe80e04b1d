package event

import "math"

// Provenance says where a pair's second particle came from.
type Provenance int

const (
	// Real pairs come from one event.
	Real Provenance = iota
	// Mixed pairs combine the current event with a pooled one.
	Mixed
)

// String returns "real" or "mixed".
func (p Provenance) String() string {
	if p == Mixed {
		return "mixed"
	}
	return "real"
}

// Pair is an ephemeral pair of particles handed to pair cuts and correlation
// functions. Receivers must not retain it past the call.
type Pair struct {
	First      *Particle
	Second     *Particle
	Provenance Provenance
	// BField is the field of the current event, in T.
	BField float64
}

// QInv returns the invariant relative momentum sqrt(-(p1-p2)²).
func (p *Pair) QInv() float64 {
	dq := p.First.Momentum.Sub(p.Second.Momentum)
	de := p.First.Energy() - p.Second.Energy()
	q2 := dq.Mag2() - de*de
	if q2 < 0 {
		return 0
	}
	return math.Sqrt(q2)
}

// KT returns half the transverse momentum of the pair.
func (p *Pair) KT() float64 {
	return 0.5 * p.First.Momentum.Add(p.Second.Momentum).Perp()
}

// DeltaEta returns η1 - η2.
func (p *Pair) DeltaEta() float64 {
	return p.First.Eta() - p.Second.Eta()
}

// DeltaPhi returns φ1 - φ2 wrapped into [-π, π].
func (p *Pair) DeltaPhi() float64 {
	return wrapPhi(p.First.Phi() - p.Second.Phi())
}

// DeltaPhiStar returns the azimuthal separation of the two tracks at radius
// r, wrapped into [-π, π].
func (p *Pair) DeltaPhiStar(r float64) float64 {
	return wrapPhi(p.First.PhiStar(p.BField, r) - p.Second.PhiStar(p.BField, r))
}

func wrapPhi(d float64) float64 {
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d < -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
