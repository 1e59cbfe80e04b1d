package cut

import (
	"testing"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(from, to int) event.ClusterMap {
	var m event.ClusterMap
	for r := from; r < to; r++ {
		m = m.Set(r)
	}
	return m
}

func TestShareQuality(t *testing.T) {
	a := &event.Particle{TPCClusters: rows(0, 10)}
	b := &event.Particle{TPCClusters: rows(20, 30)}
	q, f := ShareQuality(a, b)
	assert.Equal(t, 1.0, q, "disjoint tracks")
	assert.Equal(t, 0.0, f)

	// Ten rows clustered by both, none shared.
	c := &event.Particle{TPCClusters: rows(0, 10)}
	q, f = ShareQuality(a, c)
	assert.Equal(t, -0.5, q)
	assert.Equal(t, 0.0, f)

	// Same rows, all shared.
	a.TPCShared, c.TPCShared = rows(0, 10), rows(0, 10)
	q, f = ShareQuality(a, c)
	assert.Equal(t, 0.5, q)
	assert.Equal(t, 1.0, f)

	q, f = ShareQuality(&event.Particle{}, &event.Particle{})
	assert.Zero(t, q)
	assert.Zero(t, f)
}

func TestShareQualityPairCut(t *testing.T) {
	c, err := NewShareQualityPairCut(parse(t, `{remove_same_label: true}`))
	require.NoError(t, err)
	c.EventBegin(&event.Event{})

	a := &event.Particle{Label: 1, TPCClusters: rows(0, 10)}
	b := &event.Particle{Label: 2, TPCClusters: rows(0, 5).Set(50)}
	assert.True(t, c.Pass(&event.Pair{First: a, Second: b}))

	shared := &event.Particle{Label: 3, TPCClusters: rows(0, 10), TPCShared: rows(0, 10)}
	a.TPCShared = rows(0, 10)
	assert.False(t, c.Pass(&event.Pair{First: a, Second: shared}), "share fraction 1.0")

	twin := &event.Particle{Label: 1}
	assert.False(t, c.Pass(&event.Pair{First: a, Second: twin}), "same label removed")

	assert.Equal(t, []string{
		"ShareQualityPairCut.max_share_quality=1",
		"ShareQualityPairCut.max_share_fraction=0.05",
		"ShareQualityPairCut.remove_same_label=1",
	}, c.AppendSettings(nil, ""))
}

func TestDetaDphiPairCut(t *testing.T) {
	c, err := NewDetaDphiPairCut(parse(t, `{delta_eta_min: 0.02, delta_phi_min: 0.045}`))
	require.NoError(t, err)
	c.EventBegin(&event.Event{})

	a := &event.Particle{Charge: 1, Momentum: event.Vec3{X: 1}}
	near := &event.Particle{Charge: 1, Momentum: event.Vec3{X: 1, Y: 0.01}}
	far := &event.Particle{Charge: 1, Momentum: event.Vec3{X: 1, Y: 0.5}}

	assert.False(t, c.Pass(&event.Pair{First: a, Second: near}))
	assert.True(t, c.Pass(&event.Pair{First: a, Second: far}))

	passed, failed := c.Counts()
	assert.Equal(t, int64(1), passed)
	assert.Equal(t, int64(1), failed)
}

func TestDetaDphiDisabled(t *testing.T) {
	c, err := NewDetaDphiPairCut(parse(t, `{}`))
	require.NoError(t, err)
	c.EventBegin(&event.Event{})
	p := &event.Particle{Momentum: event.Vec3{X: 1}}
	assert.True(t, c.Pass(&event.Pair{First: p, Second: p}))

	_, err = NewDetaDphiPairCut(parse(t, `{delta_eta_min: -1}`))
	assert.Error(t, err)
}

func TestDummyPairCutAndMonitor(t *testing.T) {
	c, err := NewDummyPairCut(nil)
	require.NoError(t, err)
	m := NewPairQinvMonitor("_pass")
	c.Monitors().Set(m, nil)
	c.EventBegin(&event.Event{})

	a := &event.Particle{Momentum: event.Vec3{X: 0.3}, Mass: PionMass}
	b := &event.Particle{Momentum: event.Vec3{X: 0.1}, Mass: PionMass}
	assert.True(t, c.Pass(&event.Pair{First: a, Second: b, Provenance: event.Real}))
	assert.True(t, c.Pass(&event.Pair{First: a, Second: b, Provenance: event.Mixed}))
	assert.Equal(t, int64(1), m.Real.Entries)
	assert.Equal(t, int64(1), m.Mixed.Entries)
	assert.Empty(t, c.AppendSettings(nil, "x."))
}
