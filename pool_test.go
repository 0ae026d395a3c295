// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/guardstack"
)

func TestPoolAllocatorSizeClasses(t *testing.T) {
	p := guardstack.NewPoolAllocator[int]()
	for _, tc := range []struct{ n, cap int }{{1, 1}, {2, 2}, {3, 4}, {5, 8}, {8, 8}, {9, 16}, {1000, 1024}} {
		buf, err := p.Allocate(tc.n)
		require.NoError(t, err)
		assert.Len(t, buf, tc.n)
		assert.Equal(t, tc.cap, cap(buf), "n=%d", tc.n)
		p.Deallocate(buf)
	}
}

func TestPoolAllocatorZeroesReleasedBuffers(t *testing.T) {
	p := guardstack.NewPoolAllocator[*int]()
	v := 7
	for range 100 {
		buf, err := p.Allocate(3)
		require.NoError(t, err)
		for i, e := range buf[:cap(buf)] {
			require.Nil(t, e, "slot %d of a pooled buffer", i)
		}
		for i := range buf {
			buf[i] = &v
		}
		p.Deallocate(buf)
	}
}

func TestPoolAllocatorLargeAndEmpty(t *testing.T) {
	p := guardstack.NewPoolAllocator[byte]()
	buf, err := p.Allocate(1 << 24)
	require.NoError(t, err)
	assert.Len(t, buf, 1<<24)
	p.Deallocate(buf)

	buf, err = p.Allocate(0)
	require.NoError(t, err)
	assert.Empty(t, buf)
	p.Deallocate(buf)

	// Foreign buffers are dropped, not pooled.
	p.Deallocate(make([]byte, 3))
}

func TestPoolAllocatorShared(t *testing.T) {
	p := guardstack.NewPoolAllocator[int]()
	const goroutines = 16
	var wg sync.WaitGroup
	wg.Add(goroutines)
	errs := make(chan error, goroutines)
	for g := range goroutines {
		go func() {
			defer wg.Done()
			s := guardstack.New[int](guardstack.WithAllocator[int](p))
			defer s.Destroy()
			for i := range 200 {
				if err := s.Push(g*1000 + i); err != nil {
					errs <- err
					return
				}
			}
			for i := 199; i >= 0; i-- {
				v, err := s.Pop()
				if err != nil {
					errs <- err
					return
				}
				if v != g*1000+i {
					errs <- assert.AnError
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
