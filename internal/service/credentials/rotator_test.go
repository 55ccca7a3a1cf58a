package credentials

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatorVisitsEveryKeyThenWraps(t *testing.T) {
	r := NewRotator([]string{"k0", "k1", "k2", "k3"})

	seen := map[string]int{}
	for i := 0; i < r.Size(); i++ {
		key, idx, ok := r.Current()
		require.True(t, ok)
		assert.Equal(t, i, idx)
		seen[key]++
		r.Advance()
	}

	assert.Len(t, seen, 4)
	for k, n := range seen {
		assert.Equal(t, 1, n, "key %s visited more than once", k)
	}
	assert.Equal(t, 0, r.Index(), "cursor should wrap to the first key")
}

func TestRotatorEmptyPool(t *testing.T) {
	r := NewRotator([]string{"", ""})
	_, _, ok := r.Current()
	assert.False(t, ok)
	assert.Equal(t, 0, r.Advance())
}

func TestRotatorConcurrentAdvance(t *testing.T) {
	r := NewRotator([]string{"a", "b", "c"})

	var wg sync.WaitGroup
	for i := 0; i < 300; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Advance()
		}()
	}
	wg.Wait()

	// 300 advances over a pool of 3 land back on the start.
	assert.Equal(t, 0, r.Index())
}

func TestRotatorOnAdvance(t *testing.T) {
	var moves [][2]int
	r := NewRotator([]string{"a", "b"}, WithOnAdvance(func(from, to int) {
		moves = append(moves, [2]int{from, to})
	}))
	r.Advance()
	r.Advance()
	assert.Equal(t, [][2]int{{0, 1}, {1, 0}}, moves)
}
