// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Operation names reported in [StateError] and diagnostics.
const (
	opPush    = "push"
	opEmplace = "emplace"
	opPop     = "pop"
	opTop     = "top"
	opPeek    = "peek"
	opLen     = "len"
	opCap     = "cap"
	opEmpty   = "empty"
	opClear   = "clear"
	opReserve = "reserve"
	opClone   = "clone"
	opCopy    = "copy"
	opMove    = "move"
	opDestroy = "destroy"
)

// Stack is a LIFO container over a buffer it owns exclusively.
//
// The fields from head to tail form the control block. Every operation
// verifies it before doing anything else and fails with [ErrInvalidState]
// when it does not hold. A Stack is not safe for concurrent use; see
// [Locked]. Stacks must be created with [New] and never copied by value:
// a copy no longer matches its own address and is reported as corrupted.
type Stack[T any] struct {
	_ noCopy

	head     uint64
	data     []T
	capacity int
	size     int
	state    lifecycle
	tag      uint64
	tail     uint64

	width  Width
	policy Policy
	alloc  Allocator[T]
	log    *zap.Logger
	obs    Observer
	self   *Stack[T]
}

// noCopy lets go vet's copylocks check flag by-value copies of a Stack.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New returns an empty stack. It does not allocate a buffer.
// New panics if an option carries an invalid policy or an allocator for
// another element type.
func New[T any](opts ...Option) *Stack[T] {
	o := options{policy: DefaultPolicy()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.policy.Validate(); err != nil {
		panic(err.Error())
	}
	s := &Stack[T]{
		policy: o.policy,
		width:  o.policy.TagWidth,
		log:    o.logger,
		obs:    o.observer,
	}
	switch a := o.allocator.(type) {
	case nil:
		s.alloc = HeapAllocator[T]{}
	case Allocator[T]:
		s.alloc = a
	default:
		panic(fmt.Sprintf("guardstack: allocator %T does not allocate %T", a, *new(T)))
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	s.init()
	return s
}

// init puts s into the empty live state.
func (s *Stack[T]) init() {
	s.head, s.tail = headSentinel, tailSentinel
	s.self = s
	s.data, s.capacity, s.size = nil, 0, 0
	s.state = stateLive
	s.seal()
}

// Push appends v.
func (s *Stack[T]) Push(v T) error {
	if err := s.check(opPush); err != nil {
		return err
	}
	if err := s.makeRoom(opPush); err != nil {
		return err
	}
	construct(s.data, s.size, v)
	s.size++
	s.seal()
	return s.check(opPush)
}

// Emplace appends a new element initialised in place by init, which
// receives a zeroed slot. If init panics the slot is discarded.
func (s *Stack[T]) Emplace(init func(*T)) error {
	if err := s.check(opEmplace); err != nil {
		return err
	}
	if err := s.makeRoom(opEmplace); err != nil {
		return err
	}
	slot := &s.data[s.size]
	defer func() {
		if r := recover(); r != nil {
			destroy(s.data[s.size : s.size+1])
			panic(r)
		}
	}()
	init(slot)
	s.size++
	s.seal()
	return s.check(opEmplace)
}

// makeRoom grows the buffer when it is full.
func (s *Stack[T]) makeRoom(op string) error {
	if s.size < s.capacity {
		return nil
	}
	next, ok := s.policy.grow(s.capacity)
	if !ok {
		return fmt.Errorf("%w: capacity %d cannot grow", ErrAllocation, s.capacity)
	}
	return s.reserve(op, next)
}

// Pop removes and returns the top element. It fails with [ErrUnderflow]
// on an empty stack. The buffer is shrunk to the remaining size when the
// policy's shrink threshold is crossed.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if err := s.check(opPop); err != nil {
		return zero, err
	}
	if s.size == 0 {
		return zero, ErrUnderflow
	}
	s.size--
	s.seal()
	v := s.data[s.size]
	destroy(s.data[s.size : s.size+1])
	if s.policy.shrinks(s.size, s.capacity) {
		if err := s.reserve(opPop, s.size); err != nil {
			if !errors.Is(err, ErrAllocation) {
				return zero, err
			}
			s.log.Warn("guardstack: shrink failed", zap.Int("capacity", s.capacity),
				zap.Int("size", s.size), zap.Error(err))
		}
	}
	if err := s.check(opPop); err != nil {
		return zero, err
	}
	return v, nil
}

// Top returns a pointer to the top element. The pointer is valid until
// the next operation that reallocates the buffer.
func (s *Stack[T]) Top() (*T, error) {
	if err := s.check(opTop); err != nil {
		return nil, err
	}
	if s.size == 0 {
		return nil, ErrUnderflow
	}
	return &s.data[s.size-1], nil
}

// Peek returns a copy of the top element.
func (s *Stack[T]) Peek() (T, error) {
	var zero T
	if err := s.check(opPeek); err != nil {
		return zero, err
	}
	if s.size == 0 {
		return zero, ErrUnderflow
	}
	return s.data[s.size-1], nil
}

// Len returns the number of elements.
func (s *Stack[T]) Len() (int, error) {
	if err := s.check(opLen); err != nil {
		return 0, err
	}
	return s.size, nil
}

// Cap returns the number of allocated slots.
func (s *Stack[T]) Cap() (int, error) {
	if err := s.check(opCap); err != nil {
		return 0, err
	}
	return s.capacity, nil
}

// Empty reports whether the stack has no elements.
func (s *Stack[T]) Empty() (bool, error) {
	if err := s.check(opEmpty); err != nil {
		return false, err
	}
	return s.size == 0, nil
}

// Clear removes every element and releases the buffer.
func (s *Stack[T]) Clear() error {
	if err := s.check(opClear); err != nil {
		return err
	}
	return s.reserve(opClear, 0)
}

// Reserve reallocates the buffer to exactly n slots. Elements above n are
// destroyed; n == 0 releases the buffer. If allocation fails the stack
// is left unchanged.
func (s *Stack[T]) Reserve(n int) error {
	if err := s.check(opReserve); err != nil {
		return err
	}
	return s.reserve(opReserve, n)
}

// reserve requires a valid s.
func (s *Stack[T]) reserve(op string, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative capacity %d", ErrAllocation, n)
	}
	if n == s.capacity {
		return nil
	}
	from := s.capacity
	if n == 0 {
		s.release()
	} else {
		buf, err := allocate(s.alloc, n)
		if err != nil {
			return err
		}
		keep := min(s.size, n)
		relocate(buf, s.data[:keep])
		destroy(s.data[:s.size])
		deallocate(s.alloc, s.data)
		s.data, s.capacity, s.size = buf, n, keep
	}
	s.seal()
	if ce := s.log.Check(zap.DebugLevel, "guardstack: reallocated"); ce != nil {
		ce.Write(zap.String("op", op), zap.Int("from", from), zap.Int("to", n))
	}
	s.obs.Reallocated(from, n)
	return s.check(op)
}

// release destroys the live elements and returns the buffer, leaving
// the buffer fields empty. The caller reseals.
func (s *Stack[T]) release() {
	destroy(s.data[:s.size])
	deallocate(s.alloc, s.data)
	s.data, s.capacity, s.size = nil, 0, 0
}
