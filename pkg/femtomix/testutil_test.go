package femtomix

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
)

// testCtx returns a context that is canceled when the test ends.
func testCtx(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// pion returns a track that passes the default PionCut of its charge.
func pion(id, charge int, phi float64) event.Particle {
	const pt = 0.5
	return event.Particle{
		TrackID:  id,
		Label:    id,
		Charge:   charge,
		Momentum: event.Vec3{X: pt * math.Cos(phi), Y: pt * math.Sin(phi)},
		TPCNcls:  100,
		TPCChi2:  100,
	}
}

// pions returns n pions of one charge with distinct IDs starting at first.
func pions(first, n, charge int) []event.Particle {
	out := make([]event.Particle, n)
	for i := range out {
		out[i] = pion(first+i, charge, 0.3*float64(i))
	}
	return out
}

// collision returns an event in the central mixing bin of the defaults.
func collision(id int64, tracks ...[]event.Particle) *event.Event {
	ev := &event.Event{ID: id, Multiplicity: 100, Vertex: event.Vec3{Z: 1}, MagneticField: 0.5}
	for _, ts := range tracks {
		ev.Tracks = append(ev.Tracks, ts...)
	}
	return ev
}

func mustConstruct(t *testing.T, text string, opts ...Option) *Analysis {
	t.Helper()
	a, err := Construct(NewCatalog(), text, opts...)
	require.NoError(t, err)
	return a
}

func processAll(t *testing.T, a *Analysis, events ...*event.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, a.ProcessEvent(ev))
	}
}

// mixable adds pair counting and a small, permissive mixing setup.
const mixable = `pair_cut: {class: 'DummyPairCut'},
	correlation_functions: [{class: 'PairCounter'}],
	mixing: {depth: 2, min_coll_size: 1}`
