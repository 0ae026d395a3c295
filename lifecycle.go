// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import "fmt"

// lifecycle is the state marker sealed into the control block.
// A stack leaves stateLive at most once: its storage is moved out or
// released, never both, and it cannot come back.
type lifecycle uint64

const (
	stateLive lifecycle = iota + 1
	stateMoved
	stateReleased
)

func (l lifecycle) String() string {
	switch l {
	case stateLive:
		return "live"
	case stateMoved:
		return "moved"
	case stateReleased:
		return "released"
	}
	return fmt.Sprintf("lifecycle(%#x)", uint64(l))
}

// retire marks s as moved or released. The buffer fields must already
// have been transferred or released.
func (s *Stack[T]) retire(to lifecycle) {
	s.data, s.capacity, s.size = nil, 0, 0
	s.state = to
	s.seal()
}

// Clone returns an independent copy of s. The copy holds the same
// elements in the same order in a buffer sized to s's length, and shares
// s's allocator, policy, logger and observer. Elements are copied by
// assignment.
func (s *Stack[T]) Clone() (*Stack[T], error) {
	if err := s.check(opClone); err != nil {
		return nil, err
	}
	c := &Stack[T]{
		width:  s.width,
		policy: s.policy,
		alloc:  s.alloc,
		log:    s.log,
		obs:    s.obs,
	}
	c.init()
	if s.size > 0 {
		buf, err := allocate(c.alloc, s.size)
		if err != nil {
			return nil, err
		}
		relocate(buf, s.data[:s.size])
		c.data, c.capacity, c.size = buf, s.size, s.size
		c.seal()
	}
	if err := c.check(opClone); err != nil {
		return nil, err
	}
	return c, nil
}

// CopyFrom replaces the contents of s with a copy of src's elements,
// using s's own allocator. The new buffer is allocated before the old one
// is released, so on failure s is unchanged. Copying a valid stack onto
// itself does nothing.
func (s *Stack[T]) CopyFrom(src *Stack[T]) error {
	if err := src.check(opCopy); err != nil {
		return err
	}
	if s == src {
		return nil
	}
	if err := s.check(opCopy); err != nil {
		return err
	}
	var buf []T
	if src.size > 0 {
		var err error
		if buf, err = allocate(s.alloc, src.size); err != nil {
			return err
		}
		relocate(buf, src.data[:src.size])
	}
	from := s.capacity
	s.release()
	s.data, s.capacity, s.size = buf, src.size, src.size
	s.seal()
	if from != 0 || s.capacity != 0 {
		s.obs.Reallocated(from, s.capacity)
	}
	return s.check(opCopy)
}

// Move transfers s's buffer to a new stack without copying elements.
// Afterwards s is tombstoned: every operation on it fails with
// [ErrInvalidState] and Destroy on it is a no-op.
func (s *Stack[T]) Move() (*Stack[T], error) {
	if err := s.check(opMove); err != nil {
		return nil, err
	}
	d := &Stack[T]{
		width:  s.width,
		policy: s.policy,
		alloc:  s.alloc,
		log:    s.log,
		obs:    s.obs,
	}
	d.init()
	d.data, d.capacity, d.size = s.data, s.capacity, s.size
	d.seal()
	s.retire(stateMoved)
	return d, d.check(opMove)
}

// MoveFrom releases s's buffer and takes over src's buffer and allocator.
// src is tombstoned as by Move. Moving a valid stack onto itself does
// nothing.
func (s *Stack[T]) MoveFrom(src *Stack[T]) error {
	if err := src.check(opMove); err != nil {
		return err
	}
	if s == src {
		return nil
	}
	if err := s.check(opMove); err != nil {
		return err
	}
	s.release()
	s.alloc = src.alloc
	s.data, s.capacity, s.size = src.data, src.capacity, src.size
	s.seal()
	src.retire(stateMoved)
	return s.check(opMove)
}

// Destroy destroys the elements and returns the buffer to the allocator.
// A stack that is not valid is left alone: moved-from and already
// destroyed stacks own nothing, and a corrupted one cannot be released
// safely, which is logged. Destroy never fails.
func (s *Stack[T]) Destroy() {
	switch r := s.diagnose(); r {
	case reasonNone:
	case ReasonCorrupted:
		s.report(opDestroy, r)
		return
	default:
		return
	}
	from := s.capacity
	s.release()
	s.retire(stateReleased)
	if from > 0 {
		s.obs.Reallocated(from, 0)
	}
}
