package reader

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/randalmurphal/femtomix/pkg/femtomix/config"
	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// SyntheticReader generates a reproducible stream of pion-like events.
//
// Keys: seed (1), events (1000), tracks (0:50), vertex_z (-12:12),
// mult (0:3000), centrality (0:100), bfield (0.5 T). The same seed always
// yields the same events.
type SyntheticReader struct {
	seed       uint64
	total      int
	tracks     [2]int
	vertexZ    [2]float64
	mult       [2]int
	centrality [2]float64
	bfield     float64

	rng    *rand.Rand
	next   int
	closed bool
}

// NewSyntheticReader builds a SyntheticReader from obj.
func NewSyntheticReader(obj *config.Object) (*SyntheticReader, error) {
	r := &SyntheticReader{
		total:      1000,
		tracks:     [2]int{0, 50},
		vertexZ:    [2]float64{-12, 12},
		mult:       [2]int{0, 3000},
		centrality: [2]float64{0, 100},
		bfield:     0.5,
	}
	seed := int64(1)
	obj.PopAndLoad("seed", &seed)
	obj.PopAndLoad("events", &r.total)
	obj.PopAndLoad("tracks", &r.tracks)
	obj.PopAndLoad("vertex_z", &r.vertexZ)
	obj.PopAndLoad("mult", &r.mult)
	obj.PopAndLoad("centrality", &r.centrality)
	obj.PopAndLoad("bfield", &r.bfield)

	switch {
	case r.total < 0:
		return nil, fmt.Errorf("SyntheticReader: events must not be negative, got %d", r.total)
	case r.tracks[0] < 0 || r.tracks[0] > r.tracks[1]:
		return nil, fmt.Errorf("SyntheticReader: invalid tracks range %d:%d", r.tracks[0], r.tracks[1])
	case r.mult[0] < 0 || r.mult[0] > r.mult[1]:
		return nil, fmt.Errorf("SyntheticReader: invalid mult range %d:%d", r.mult[0], r.mult[1])
	case r.vertexZ[0] > r.vertexZ[1] || r.centrality[0] > r.centrality[1]:
		return nil, fmt.Errorf("SyntheticReader: inverted range")
	}
	r.seed = uint64(seed)
	r.rng = rand.New(rand.NewPCG(r.seed, r.seed^0x9e3779b97f4a7c15))
	return r, nil
}

// Next generates the next event.
func (r *SyntheticReader) Next(ctx context.Context) (*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.closed {
		return nil, ErrClosed
	}
	if r.next >= r.total {
		return nil, io.EOF
	}
	r.next++
	return r.generate(int64(r.next)), nil
}

func (r *SyntheticReader) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.rng.Float64()
}

func (r *SyntheticReader) intIn(lo, hi int) int {
	return lo + r.rng.IntN(hi-lo+1)
}

func (r *SyntheticReader) generate(id int64) *event.Event {
	ev := &event.Event{
		ID:              id,
		Multiplicity:    r.intIn(r.mult[0], r.mult[1]),
		Centrality:      r.uniform(r.centrality[0], r.centrality[1]),
		Vertex:          event.Vec3{X: 0.01 * r.rng.NormFloat64(), Y: 0.01 * r.rng.NormFloat64(), Z: r.uniform(r.vertexZ[0], r.vertexZ[1])},
		ReactionPlane:   r.uniform(0, math.Pi),
		MagneticField:   r.bfield,
		ZDCParticipants: r.intIn(0, 400),
		TriggerMask:     1,
		PhysicsSelected: true,
	}
	n := r.intIn(r.tracks[0], r.tracks[1])
	ev.Tracks = make([]event.Particle, n)
	for i := range ev.Tracks {
		ev.Tracks[i] = r.track(i + 1)
	}
	return ev
}

func (r *SyntheticReader) track(id int) event.Particle {
	pt := 0.15 + 0.4*r.rng.ExpFloat64()
	eta := r.uniform(-1, 1)
	phi := r.uniform(-math.Pi, math.Pi)
	charge := 1
	if r.rng.IntN(2) == 0 {
		charge = -1
	}
	tpc := r.intIn(60, event.PadRows)
	its := r.intIn(0, 6)

	p := event.Particle{
		TrackID:    id,
		Label:      id,
		Charge:     charge,
		Momentum:   event.Vec3{X: pt * math.Cos(phi), Y: pt * math.Sin(phi), Z: pt * math.Sinh(eta)},
		DCAxy:      0.5 * r.rng.NormFloat64(),
		DCAz:       0.8 * r.rng.NormFloat64(),
		NSigmaPion: r.rng.NormFloat64(),
		TPCNcls:    tpc,
		TPCChi2:    float64(tpc) * r.uniform(0.5, 3),
		ITSNcls:    its,
		ITSChi2:    float64(its) * r.uniform(0.5, 10),
		Kink:       r.rng.IntN(100) == 0,
	}
	for row := 0; row < tpc; row++ {
		p.TPCClusters = p.TPCClusters.Set(row)
		if r.rng.IntN(100) == 0 {
			p.TPCShared = p.TPCShared.Set(row)
		}
	}
	return p
}

// Close stops the generator.
func (r *SyntheticReader) Close() error {
	r.closed = true
	return nil
}

// Report implements Reader.
func (r *SyntheticReader) Report() string {
	return fmt.Sprintf("SyntheticReader: seed %d, %d of %d events generated\n", r.seed, r.next, r.total)
}
