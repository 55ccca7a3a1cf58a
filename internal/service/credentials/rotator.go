// Package credentials rotates a fixed pool of API keys shared by every
// in-flight request.
package credentials

import "sync/atomic"

// Rotator hands out the credential at a shared cursor. Advance is lock-free;
// two callers failing on the same key may both advance, which only skips a
// key early and never repeats one within a rotation.
type Rotator struct {
	keys   []string
	cursor atomic.Uint64
	onMove func(from, to int)
}

// Option configures a Rotator.
type Option func(*Rotator)

// WithOnAdvance registers a callback invoked after every Advance.
func WithOnAdvance(fn func(from, to int)) Option {
	return func(r *Rotator) { r.onMove = fn }
}

// NewRotator copies keys, dropping empty entries.
func NewRotator(keys []string, opts ...Option) *Rotator {
	pool := make([]string, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			pool = append(pool, k)
		}
	}
	r := &Rotator{keys: pool}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Size is the number of credentials in the pool.
func (r *Rotator) Size() int {
	return len(r.keys)
}

// Current returns the credential at the cursor and its index.
// ok is false for an empty pool.
func (r *Rotator) Current() (key string, index int, ok bool) {
	if len(r.keys) == 0 {
		return "", 0, false
	}
	i := int(r.cursor.Load() % uint64(len(r.keys)))
	return r.keys[i], i, true
}

// Advance moves the cursor to (cursor+1) mod N and returns the new index.
func (r *Rotator) Advance() int {
	n := uint64(len(r.keys))
	if n == 0 {
		return 0
	}
	for {
		cur := r.cursor.Load()
		next := (cur + 1) % n
		if r.cursor.CompareAndSwap(cur, next) {
			if r.onMove != nil {
				r.onMove(int(cur%n), int(next))
			}
			return int(next)
		}
	}
}

// Index returns the current cursor position.
func (r *Rotator) Index() int {
	if len(r.keys) == 0 {
		return 0
	}
	return int(r.cursor.Load() % uint64(len(r.keys)))
}
