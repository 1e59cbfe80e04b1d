package event

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalar(t *testing.T) {
	ev := &Event{
		ID:              3,
		Multiplicity:    120,
		Centrality:      12.5,
		Vertex:          Vec3{X: 0.1, Y: -0.2, Z: 4},
		ReactionPlane:   0.7,
		MagneticField:   0.5,
		ZDCParticipants: 4,
		TriggerMask:     6,
		PhysicsSelected: true,
		Quality:         map[string]float64{"tpc_vertex_z": 3.9, "multiplicity": -1},
		Tracks:          make([]Particle, 2),
	}

	tests := []struct {
		name string
		want float64
	}{
		{ScalarMultiplicity, 120},
		{ScalarCentrality, 12.5},
		{ScalarVertexZ, 4},
		{ScalarReactionPlane, 0.7},
		{ScalarMagneticField, 0.5},
		{ScalarZDCParticipants, 4},
		{ScalarTriggerMask, 6},
		{ScalarPhysicsSelected, 1},
		{ScalarTracks, 2},
		{"tpc_vertex_z", 3.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ev.Scalar(tt.name)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	_, err := ev.Scalar("zdc_energy")
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "zdc_energy", missing.Field)
	assert.Equal(t, int64(3), missing.EventID)

	assert.Panics(t, func() { ev.MustScalar("nope") })
}

func TestParticleKinematics(t *testing.T) {
	p := &Particle{Momentum: Vec3{X: 3, Y: 4, Z: 0}, Mass: 0.13957039}
	assert.InDelta(t, 5.0, p.Pt(), 1e-12)
	assert.InDelta(t, 0.0, p.Eta(), 1e-12)
	assert.InDelta(t, math.Atan2(4, 3), p.Phi(), 1e-12)
	assert.InDelta(t, math.Sqrt(25+p.Mass*p.Mass), p.Energy(), 1e-12)

	forward := &Particle{Momentum: Vec3{Z: 1}}
	assert.True(t, math.IsInf(forward.Eta(), 1))
}

func TestPhiStar(t *testing.T) {
	p := &Particle{Charge: 1, Momentum: Vec3{X: 1}}
	assert.Equal(t, p.Phi(), p.PhiStar(0, 1.2), "no field, no bending")
	assert.InDelta(t, math.Asin(-0.15*0.5*1.2), p.PhiStar(0.5, 1.2), 1e-12)

	soft := &Particle{Charge: -1, Momentum: Vec3{X: 0.01}}
	assert.InDelta(t, math.Pi/2, soft.PhiStar(0.5, 1.2), 1e-12, "argument is clamped")
}

func TestPairKinematics(t *testing.T) {
	a := &Particle{Momentum: Vec3{X: 0.5}, Mass: 0.14}
	same := &Particle{Momentum: Vec3{X: 0.5}, Mass: 0.14}
	pair := &Pair{First: a, Second: same}
	assert.InDelta(t, 0.0, pair.QInv(), 1e-12)
	assert.InDelta(t, 0.5, pair.KT(), 1e-12)

	b := &Particle{Momentum: Vec3{X: -0.5}, Mass: 0.14}
	back := &Pair{First: a, Second: b}
	// Equal energies, so q_inv is |p1 - p2|.
	assert.InDelta(t, 1.0, back.QInv(), 1e-12)
	assert.InDelta(t, 0.0, back.KT(), 1e-12)
	assert.InDelta(t, math.Pi, math.Abs(back.DeltaPhi()), 1e-12)
}

func TestDeltaPhiWraps(t *testing.T) {
	a := &Particle{Momentum: Vec3{X: math.Cos(3), Y: math.Sin(3)}}
	b := &Particle{Momentum: Vec3{X: math.Cos(-3), Y: math.Sin(-3)}}
	pair := &Pair{First: a, Second: b}
	assert.InDelta(t, 6-2*math.Pi, pair.DeltaPhi(), 1e-9)
}

func TestClusterMap(t *testing.T) {
	var m ClusterMap
	m = m.Set(0).Set(63).Set(64).Set(158).Set(159)
	assert.True(t, m.Has(0))
	assert.True(t, m.Has(63))
	assert.True(t, m.Has(64))
	assert.True(t, m.Has(158))
	assert.False(t, m.Has(159))
	assert.False(t, m.Has(1))
}

func TestProvenanceString(t *testing.T) {
	assert.Equal(t, "real", Real.String())
	assert.Equal(t, "mixed", Mixed.String())
}
