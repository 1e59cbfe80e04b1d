package registry

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	r := New[string, int]()
	assert.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
}

func TestRegisterAndGet(t *testing.T) {
	r := New[string, int]()

	require.NoError(t, r.Register("one", 1))
	require.NoError(t, r.Register("two", 2))

	v, ok := r.Get("one")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	v, ok = r.Get("three")
	assert.False(t, ok)
	assert.Equal(t, 0, v)
}

func TestRegisterDuplicateRejected(t *testing.T) {
	r := New[string, string]()

	require.NoError(t, r.Register("key", "first"))
	assert.ErrorIs(t, r.Register("key", "second"), ErrDuplicate)

	v, _ := r.Get("key")
	assert.Equal(t, "first", v)
}

func TestKeysKeepInsertionOrder(t *testing.T) {
	r := New[string, int]()
	for i, k := range []string{"c", "a", "b"} {
		require.NoError(t, r.Register(k, i))
	}
	r.GetOrCreate("d", func() int { return 3 })
	r.GetOrCreate("a", func() int { return 99 })

	assert.Equal(t, []string{"c", "a", "b", "d"}, r.Keys())
	assert.Equal(t, 4, r.Len())
	assert.True(t, r.Has("d"))
	assert.False(t, r.Has("e"))

	v, _ := r.Get("a")
	assert.Equal(t, 1, v)

	keys := r.Keys()
	keys[0] = "z"
	assert.Equal(t, "c", r.Keys()[0])
}

func TestGetOrCreateConcurrent(t *testing.T) {
	r := New[string, *int]()
	var calls atomic.Int32

	var wg sync.WaitGroup
	results := make([]*int, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetOrCreate("pool", func() *int {
				calls.Add(1)
				v := 7
				return &v
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, p := range results {
		assert.Same(t, results[0], p)
	}
}
