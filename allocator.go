// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"errors"
	"fmt"
	"sync"
)

// Allocator obtains and releases element buffers for a [Stack].
//
// Allocate returns a buffer with len(buf) == n whose slots hold the zero
// value. Deallocate receives exactly a buffer returned by Allocate, after
// every live slot has been destroyed.
type Allocator[T any] interface {
	Allocate(n int) ([]T, error)
	Deallocate(buf []T)
}

// ErrBudgetExceeded is returned by [LimitAllocator] when an allocation
// would exceed its slot budget.
var ErrBudgetExceeded = errors.New("guardstack: slot budget exceeded")

// Buffer management is split into four steps: allocate, construct,
// destroy and deallocate. A Stack never touches its buffer otherwise.

func allocate[T any](a Allocator[T], n int) ([]T, error) {
	buf, err := a.Allocate(n)
	if err != nil {
		return nil, fmt.Errorf("%w: %d slots: %w", ErrAllocation, n, err)
	}
	if len(buf) != n {
		if buf != nil {
			a.Deallocate(buf)
		}
		return nil, fmt.Errorf("%w: allocator returned %d slots, want %d", ErrAllocation, len(buf), n)
	}
	return buf, nil
}

// construct stores v into slot i.
func construct[T any](buf []T, i int, v T) {
	buf[i] = v
}

// relocate moves the live elements of src into the bottom of dst.
func relocate[T any](dst, src []T) {
	copy(dst, src)
}

// destroy zeroes slots so the collector can reclaim what they referenced.
func destroy[T any](slots []T) {
	clear(slots)
}

func deallocate[T any](a Allocator[T], buf []T) {
	if buf == nil {
		return
	}
	a.Deallocate(buf)
}

// HeapAllocator allocates buffers with make and leaves reclamation to
// the garbage collector.
type HeapAllocator[T any] struct{}

// Allocate returns a zeroed buffer of n slots. Runtime allocation panics
// such as an out of range length are returned as errors.
func (HeapAllocator[T]) Allocate(n int) (buf []T, err error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	defer func() {
		if r := recover(); r != nil {
			buf, err = nil, fmt.Errorf("make: %v", r)
		}
	}()
	return make([]T, n), nil
}

// Deallocate is a no-op.
func (HeapAllocator[T]) Deallocate([]T) {}

// LimitAllocator bounds the number of slots outstanding from an inner
// allocator. It is safe for concurrent use if the inner allocator is.
type LimitAllocator[T any] struct {
	inner Allocator[T]
	limit int

	mu    sync.Mutex
	inUse int
}

// NewLimitAllocator returns an allocator that fails once more than limit
// slots would be outstanding. A nil inner allocator means [HeapAllocator].
func NewLimitAllocator[T any](inner Allocator[T], limit int) *LimitAllocator[T] {
	if inner == nil {
		inner = HeapAllocator[T]{}
	}
	return &LimitAllocator[T]{inner: inner, limit: limit}
}

// Allocate fails with [ErrBudgetExceeded] if n more slots would exceed
// the limit. Otherwise it delegates to the inner allocator.
func (a *LimitAllocator[T]) Allocate(n int) ([]T, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n > a.limit-a.inUse {
		return nil, fmt.Errorf("%w: %d in use, %d requested, limit %d", ErrBudgetExceeded, a.inUse, n, a.limit)
	}
	buf, err := a.inner.Allocate(n)
	if err != nil {
		return nil, err
	}
	a.inUse += len(buf)
	return buf, nil
}

// Deallocate returns buf to the inner allocator and the budget.
func (a *LimitAllocator[T]) Deallocate(buf []T) {
	a.mu.Lock()
	a.inUse -= len(buf)
	a.mu.Unlock()
	a.inner.Deallocate(buf)
}

// InUse returns the number of slots currently outstanding.
func (a *LimitAllocator[T]) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}
