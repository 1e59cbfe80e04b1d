package mixing

import "github.com/randalmurphal/femtomix/pkg/femtomix/event"

// Collection is the accepted particles of one event. In identical-particle
// mode Second is nil and First serves both slots.
type Collection struct {
	EventID int64
	First   []event.Particle
	Second  []event.Particle
}

// Size returns the number of particles held.
func (c Collection) Size() int { return len(c.First) + len(c.Second) }

// Pool is a FIFO ring of at most Depth collections. It is not safe for
// concurrent use; each analysis owns its pools.
type Pool struct {
	buf     []Collection
	start   int
	n       int
	total   int
	minSize int
	pushes  int64
}

// NewPool creates a pool holding at most depth collections that is ready
// once they sum to minSize particles. depth < 1 is treated as 1.
func NewPool(depth, minSize int) *Pool {
	return &Pool{buf: make([]Collection, max(depth, 1)), minSize: minSize}
}

// Push appends c, evicting the oldest collection when the pool is full.
func (p *Pool) Push(c Collection) {
	depth := len(p.buf)
	if p.n < depth {
		p.buf[(p.start+p.n)%depth] = c
		p.n++
	} else {
		p.total -= p.buf[p.start].Size()
		p.buf[p.start] = c
		p.start = (p.start + 1) % depth
	}
	p.total += c.Size()
	p.pushes++
}

// Each calls fn for every buffered collection, oldest first.
func (p *Pool) Each(fn func(Collection)) {
	for i := 0; i < p.n; i++ {
		fn(p.buf[(p.start+i)%len(p.buf)])
	}
}

// Buffered returns the buffered collections, oldest first.
func (p *Pool) Buffered() []Collection {
	out := make([]Collection, 0, p.n)
	p.Each(func(c Collection) { out = append(out, c) })
	return out
}

// Ready reports whether the pool holds at least one collection and the
// buffered sizes sum to the minimum.
func (p *Pool) Ready() bool { return p.n > 0 && p.total >= p.minSize }

// Len returns the number of buffered collections.
func (p *Pool) Len() int { return p.n }

// Depth returns the capacity.
func (p *Pool) Depth() int { return len(p.buf) }

// Size returns the summed size of the buffered collections.
func (p *Pool) Size() int { return p.total }

// Pushes returns how many collections were ever pushed.
func (p *Pool) Pushes() int64 { return p.pushes }
