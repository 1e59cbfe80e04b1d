package mixing

import (
	"testing"

	"github.com/randalmurphal/femtomix/pkg/femtomix/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coll(id int64, size int) Collection {
	return Collection{EventID: id, First: make([]event.Particle, size)}
}

func ids(cs []Collection) []int64 {
	out := make([]int64, len(cs))
	for i, c := range cs {
		out[i] = c.EventID
	}
	return out
}

func TestPoolFIFOEviction(t *testing.T) {
	p := NewPool(2, 0)
	p.Push(coll(1, 1))
	p.Push(coll(2, 1))
	p.Push(coll(3, 1))

	assert.Equal(t, []int64{2, 3}, ids(p.Buffered()))
	assert.Equal(t, 2, p.Len())
	assert.Equal(t, int64(3), p.Pushes())
}

func TestPoolNeverExceedsDepth(t *testing.T) {
	for depth := 1; depth <= 5; depth++ {
		p := NewPool(depth, 0)
		for i := int64(1); i <= 20; i++ {
			p.Push(coll(i, int(i%3)))
			require.LessOrEqual(t, p.Len(), depth)

			if i == int64(depth)+1 {
				assert.NotContains(t, ids(p.Buffered()), int64(1), "first push evicted after N+1 pushes")
			}

			var sum int
			for _, c := range p.Buffered() {
				sum += c.Size()
			}
			require.Equal(t, sum, p.Size())
		}
		got := ids(p.Buffered())
		assert.Equal(t, int64(20), got[len(got)-1], "newest is last")
	}
}

func TestPoolReady(t *testing.T) {
	p := NewPool(3, 5)
	assert.False(t, p.Ready(), "empty pool is never ready")

	p.Push(coll(1, 2))
	p.Push(coll(2, 2))
	assert.False(t, p.Ready())
	p.Push(coll(3, 1))
	assert.True(t, p.Ready())

	p.Push(coll(4, 0)) // evicts 2 particles
	assert.False(t, p.Ready())

	zero := NewPool(1, 0)
	assert.False(t, zero.Ready())
	zero.Push(coll(1, 0))
	assert.True(t, zero.Ready(), "min size 0 needs one collection")
}

func TestPoolEachOrder(t *testing.T) {
	p := NewPool(3, 0)
	for i := int64(1); i <= 5; i++ {
		p.Push(coll(i, 1))
	}
	var seen []int64
	p.Each(func(c Collection) { seen = append(seen, c.EventID) })
	assert.Equal(t, []int64{3, 4, 5}, seen)
	assert.Equal(t, 3, p.Depth())
}

func TestNewPoolClampsDepth(t *testing.T) {
	p := NewPool(0, 0)
	assert.Equal(t, 1, p.Depth())
}

func TestCollectionSize(t *testing.T) {
	c := Collection{First: make([]event.Particle, 2), Second: make([]event.Particle, 3)}
	assert.Equal(t, 5, c.Size())
}
