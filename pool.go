// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"math/bits"
	"sync"
)

// poolClasses is the number of power-of-two size classes; buffers larger
// than 1<<(poolClasses-1) slots bypass the pools.
const poolClasses = 24

// PoolAllocator recycles buffers through per-size-class [sync.Pool]s.
// A request for n slots is served from the class 1<<k >= n and returned
// as buf[:n]; the class is recovered from cap(buf) on release.
// Released buffers are zeroed before they are pooled.
//
// A PoolAllocator is safe for concurrent use and may be shared by many
// stacks. It must not be copied after first use.
type PoolAllocator[T any] struct {
	pools [poolClasses]sync.Pool
}

// NewPoolAllocator returns an empty pool allocator.
func NewPoolAllocator[T any]() *PoolAllocator[T] {
	return new(PoolAllocator[T])
}

// poolClass returns the size class serving n slots and whether one exists.
func poolClass(n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	k := bits.Len(uint(n - 1))
	return k, k < poolClasses
}

// Allocate acquires a zeroed buffer of n slots.
func (p *PoolAllocator[T]) Allocate(n int) ([]T, error) {
	k, ok := poolClass(n)
	if !ok {
		return HeapAllocator[T]{}.Allocate(n)
	}
	if v, _ := p.pools[k].Get().(*[]T); v != nil {
		return (*v)[:n], nil
	}
	return make([]T, n, 1<<k), nil
}

// Deallocate zeroes buf and returns it to its size class; buffers that
// do not belong to a class are dropped.
func (p *PoolAllocator[T]) Deallocate(buf []T) {
	c := cap(buf)
	k, ok := poolClass(c)
	if !ok || c != 1<<k {
		return
	}
	buf = buf[:c]
	clear(buf)
	p.pools[k].Put(&buf)
}
