// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"code.hybscloud.com/guardstack"
)

func filled(t *testing.T, vals ...string) *guardstack.Stack[string] {
	t.Helper()
	s := guardstack.New[string]()
	for _, v := range vals {
		require.NoError(t, s.Push(v))
	}
	return s
}

// drain pops every element and returns them in push order.
func drain[T any](t *testing.T, s *guardstack.Stack[T]) []T {
	t.Helper()
	n, err := s.Len()
	require.NoError(t, err)
	out := make([]T, n)
	for i := n - 1; i >= 0; i-- {
		out[i], err = s.Pop()
		require.NoError(t, err)
	}
	return out
}

func requireInvalid[T any](t *testing.T, s *guardstack.Stack[T], reason guardstack.Reason) {
	t.Helper()
	assert.False(t, s.Valid())
	ops := map[string]func() error{
		"push":    func() error { return s.Push(*new(T)) },
		"emplace": func() error { return s.Emplace(func(*T) {}) },
		"pop":     func() error { _, err := s.Pop(); return err },
		"top":     func() error { _, err := s.Top(); return err },
		"peek":    func() error { _, err := s.Peek(); return err },
		"len":     func() error { _, err := s.Len(); return err },
		"cap":     func() error { _, err := s.Cap(); return err },
		"empty":   func() error { _, err := s.Empty(); return err },
		"clear":   func() error { return s.Clear() },
		"reserve": func() error { return s.Reserve(4) },
		"clone":   func() error { _, err := s.Clone(); return err },
		"move":    func() error { _, err := s.Move(); return err },
	}
	for op, f := range ops {
		err := f()
		var se *guardstack.StateError
		if assert.ErrorAs(t, err, &se, op) {
			assert.Equal(t, reason, se.Reason, op)
			assert.Equal(t, op, se.Op)
		}
		assert.ErrorIs(t, err, guardstack.ErrInvalidState, op)
	}
}

func TestClone(t *testing.T) {
	src := filled(t, "a", "b", "c")
	cp, err := src.Clone()
	require.NoError(t, err)

	n, err := cp.Len()
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	c, err := cp.Cap()
	require.NoError(t, err)
	assert.Equal(t, 3, c, "a copy is sized to the source's length")

	require.NoError(t, cp.Push("d"))
	top, err := cp.Top()
	require.NoError(t, err)
	*top = "D"

	assert.Equal(t, []string{"a", "b", "c", "D"}, drain(t, cp))
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, src))
}

func TestCloneEmpty(t *testing.T) {
	cp, err := guardstack.New[int]().Clone()
	require.NoError(t, err)
	assert.True(t, cp.Valid())
	c, err := cp.Cap()
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestCopyFrom(t *testing.T) {
	src := filled(t, "a", "b", "c")
	dst := filled(t, "x")
	require.NoError(t, dst.CopyFrom(src))

	require.NoError(t, src.Push("z"))
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, dst))
	assert.Equal(t, []string{"a", "b", "c", "z"}, drain(t, src))
}

func TestCopyFromEmpty(t *testing.T) {
	dst := filled(t, "x", "y")
	require.NoError(t, dst.CopyFrom(guardstack.New[string]()))
	empty, err := dst.Empty()
	require.NoError(t, err)
	assert.True(t, empty)
	c, err := dst.Cap()
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestCopyFromSelf(t *testing.T) {
	s := filled(t, "a", "b")
	before := s.String()
	require.NoError(t, s.CopyFrom(s))
	assert.True(t, s.Valid())
	assert.Equal(t, before, s.String())
}

func TestCopyFromAllocationFailure(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[string](nil, 1)
	dst := guardstack.New[string](guardstack.WithAllocator[string](alloc))
	require.NoError(t, dst.Push("keep"))

	err := dst.CopyFrom(filled(t, "a", "b"))
	assert.ErrorIs(t, err, guardstack.ErrAllocation)
	assert.Equal(t, []string{"keep"}, drain(t, dst))
}

func TestCopyFromMovedSource(t *testing.T) {
	src := filled(t, "a")
	_, err := src.Move()
	require.NoError(t, err)

	dst := filled(t, "x")
	err = dst.CopyFrom(src)
	assert.ErrorIs(t, err, guardstack.ErrInvalidState)
	assert.Equal(t, []string{"x"}, drain(t, dst))
}

func TestMove(t *testing.T) {
	src := filled(t, "a", "b", "c")
	srcCap, err := src.Cap()
	require.NoError(t, err)

	dst, err := src.Move()
	require.NoError(t, err)

	c, err := dst.Cap()
	require.NoError(t, err)
	assert.Equal(t, srcCap, c, "move must not reallocate")
	assert.Equal(t, []string{"a", "b", "c"}, drain(t, dst))

	requireInvalid(t, src, guardstack.ReasonMoved)
}

func TestMoveFrom(t *testing.T) {
	src := filled(t, "a", "b", "c")
	dst := filled(t, "x", "y")
	require.NoError(t, dst.MoveFrom(src))

	assert.Equal(t, []string{"a", "b", "c"}, drain(t, dst))
	requireInvalid(t, src, guardstack.ReasonMoved)

	err := dst.MoveFrom(src)
	assert.ErrorIs(t, err, guardstack.ErrInvalidState)
	assert.True(t, dst.Valid(), "a rejected move leaves the destination alone")
}

func TestMoveFromSelf(t *testing.T) {
	s := filled(t, "a", "b")
	before := s.String()
	require.NoError(t, s.MoveFrom(s))
	assert.True(t, s.Valid())
	assert.Equal(t, before, s.String())
}

func TestSelfAssignmentOnUnusableStack(t *testing.T) {
	moved := filled(t, "a")
	_, err := moved.Move()
	require.NoError(t, err)

	destroyed := filled(t, "a")
	destroyed.Destroy()

	var zero guardstack.Stack[string]
	var null *guardstack.Stack[string]

	tests := []struct {
		name   string
		s      *guardstack.Stack[string]
		reason guardstack.Reason
	}{
		{"moved", moved, guardstack.ReasonMoved},
		{"destroyed", destroyed, guardstack.ReasonReleased},
		{"zero", &zero, guardstack.ReasonUninitialized},
		{"nil", null, guardstack.ReasonUninitialized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var se *guardstack.StateError
			require.ErrorAs(t, tt.s.CopyFrom(tt.s), &se)
			assert.Equal(t, "copy", se.Op)
			assert.Equal(t, tt.reason, se.Reason)

			require.ErrorAs(t, tt.s.MoveFrom(tt.s), &se)
			assert.Equal(t, "move", se.Op)
			assert.Equal(t, tt.reason, se.Reason)
		})
	}
}

func TestMoveFromAdoptsAllocator(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[int](nil, 100)
	src := guardstack.New[int](guardstack.WithAllocator[int](alloc))
	require.NoError(t, src.Push(1))
	require.Equal(t, 1, alloc.InUse())

	dst := guardstack.New[int]()
	require.NoError(t, dst.MoveFrom(src))
	dst.Destroy()
	assert.Equal(t, 0, alloc.InUse(), "the adopted buffer goes back to its allocator")
}

func TestMovedDestroyIsNoop(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[int](nil, 100)
	src := guardstack.New[int](guardstack.WithAllocator[int](alloc))
	require.NoError(t, src.Push(1))

	dst, err := src.Move()
	require.NoError(t, err)
	src.Destroy()
	assert.Equal(t, 1, alloc.InUse(), "destroying a moved-from stack must not free the moved buffer")

	v, err := dst.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	dst.Destroy()
	assert.Equal(t, 0, alloc.InUse())
}

func TestDestroy(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[string](nil, 100)
	s := guardstack.New[string](guardstack.WithAllocator[string](alloc))
	for _, v := range []string{"a", "b", "c"} {
		require.NoError(t, s.Push(v))
	}
	require.NotZero(t, alloc.InUse())

	s.Destroy()
	assert.Equal(t, 0, alloc.InUse())
	requireInvalid(t, s, guardstack.ReasonReleased)

	s.Destroy()
	assert.Equal(t, 0, alloc.InUse(), "a second destroy must not release again")
}

func TestBracket(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[int](nil, 100)
	var kept *guardstack.Stack[int]
	got, err := guardstack.Bracket(func(s *guardstack.Stack[int]) (int, error) {
		kept = s
		for i := range 5 {
			if err := s.Push(i); err != nil {
				return 0, err
			}
		}
		return s.Len()
	}, guardstack.WithAllocator[int](alloc))
	require.NoError(t, err)
	assert.Equal(t, 5, got)
	assert.Equal(t, 0, alloc.InUse())
	assert.False(t, kept.Valid())
}

func TestBracketReleasesOnPanic(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[int](nil, 100)
	assert.Panics(t, func() {
		_, _ = guardstack.Bracket(func(s *guardstack.Stack[int]) (int, error) {
			_ = s.Push(1)
			panic("intentional")
		}, guardstack.WithAllocator[int](alloc))
	})
	assert.Equal(t, 0, alloc.InUse())
}

func TestBracketMovedOut(t *testing.T) {
	alloc := guardstack.NewLimitAllocator[int](nil, 100)
	out, err := guardstack.Bracket(func(s *guardstack.Stack[int]) (*guardstack.Stack[int], error) {
		if err := s.Push(7); err != nil {
			return nil, err
		}
		return s.Move()
	}, guardstack.WithAllocator[int](alloc))
	require.NoError(t, err)
	assert.Equal(t, 1, alloc.InUse())

	v, err := out.Peek()
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	out.Destroy()
	assert.Equal(t, 0, alloc.InUse())
}
