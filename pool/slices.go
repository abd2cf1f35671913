// Package pool provides pooled scratch buffers for the validation hot paths.
package pool

import "sync"

// SlicePool hands out reusable slices of T for short-lived scratch work,
// such as the traversal stack of the build-expression scanner.
type SlicePool[T any] struct {
	pool   sync.Pool
	maxCap int
}

// NewSlicePool creates a pool of slices with the given initial capacity.
// Slices whose capacity grew beyond maxCap are not returned to the pool.
func NewSlicePool[T any](initialCap, maxCap int) *SlicePool[T] {
	p := &SlicePool[T]{maxCap: maxCap}
	p.pool.New = func() any {
		s := make([]T, 0, initialCap)
		return &s
	}
	return p
}

// Acquire gets an empty slice from the pool.
func (p *SlicePool[T]) Acquire() *[]T {
	s := p.pool.Get().(*[]T)
	*s = (*s)[:0]
	return s
}

// Release returns a slice to the pool.
func (p *SlicePool[T]) Release(s *[]T) {
	if s == nil {
		return
	}
	if cap(*s) <= p.maxCap {
		p.pool.Put(s)
	}
}

// SetPool hands out reusable string sets for duplicate detection.
type SetPool struct {
	pool   sync.Pool
	maxLen int
}

// NewSetPool creates a pool of string sets with the given initial capacity.
// Sets that grew beyond maxLen entries are not returned to the pool.
func NewSetPool(initialCap, maxLen int) *SetPool {
	p := &SetPool{maxLen: maxLen}
	p.pool.New = func() any {
		return make(map[string]struct{}, initialCap)
	}
	return p
}

// Acquire gets an empty set from the pool.
func (p *SetPool) Acquire() map[string]struct{} {
	return p.pool.Get().(map[string]struct{})
}

// Release clears the set and returns it to the pool.
func (p *SetPool) Release(m map[string]struct{}) {
	if m == nil {
		return
	}
	if len(m) > p.maxLen {
		return
	}
	clear(m)
	p.pool.Put(m)
}
