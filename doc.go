// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package guardstack provides a self-checking generic stack.
//
// The core type [Stack] owns a contiguous buffer obtained from an
// [Allocator] and guards the fields that describe it against two classes
// of bugs: silent corruption of the control block, and use after the
// storage has been moved out.
//
// # Integrity Protocol
//
// The control block (buffer, capacity, size, lifecycle marker) is
// bracketed by two fixed sentinels and covered by an integrity tag:
//
//   - [Hash]: rolling hash, seed 1, acc = 31*acc + b over every byte
//   - [Width]: accumulator width; [Width8] reproduces a deliberately weak tag
//   - [Stack.Valid]: the validity predicate, pure and allocation-free
//
// Every operation checks the predicate first and fails with
// [ErrInvalidState] instead of touching a corrupted buffer. Mutations
// reseal the tag and check again on the way out. A stack also remembers
// its own address, so a by-value copy fails the check. The tag is a
// detection aid, not a proof: collisions are possible.
//
// # Core Operations
//
//   - [New]: Create an empty stack (no buffer is allocated)
//   - [Stack.Push], [Stack.Emplace]: Append, growing the buffer when full
//   - [Stack.Pop]: Remove and return the top element, shrinking when sparse
//   - [Stack.Top]: Pointer to the top element
//   - [Stack.Peek]: Copy of the top element
//   - [Stack.Len], [Stack.Cap], [Stack.Empty]: Derived state
//   - [Stack.Reserve], [Stack.Clear]: Explicit capacity management
//
// # Growth and Shrink
//
// [Policy] controls reallocation. Growing from capacity c yields
// floor(c*GrowthFactor)+1 slots; after a pop that leaves size/capacity
// below ShrinkFactor the buffer is shrunk to exactly size. The defaults
// (2 and 0.4) give amortised O(1) push and pop. Alternating push and pop
// around the threshold reallocates on every call.
//
// # Lifecycle
//
//   - [Stack.Clone]: Copy construction into a new stack
//   - [Stack.CopyFrom]: Copy assignment
//   - [Stack.Move]: Move construction; the source is tombstoned
//   - [Stack.MoveFrom]: Move assignment; the source is tombstoned
//   - [Stack.Destroy]: Release the buffer; a no-op on invalid stacks
//   - [Bracket]: Create, use, always destroy
//
// A tombstoned or destroyed stack keeps a sealed lifecycle marker, so
// using it reports [ErrInvalidState] with [ReasonMoved] or
// [ReasonReleased] rather than corruption, and destroying it twice never
// releases a buffer twice.
//
// # Errors
//
//   - [ErrUnderflow]: Top, Peek or Pop on an empty stack
//   - [ErrInvalidState]: wrapped by [*StateError] with a [Reason]
//   - [ErrAllocation]: allocation failed; the stack is unchanged
//
// # Allocation
//
//   - [HeapAllocator]: make, reclaimed by the garbage collector (default)
//   - [PoolAllocator]: power-of-two size classes over [sync.Pool]
//   - [LimitAllocator]: slot budget over another allocator
//
// # Diagnostics
//
// Stacks log through zap ([WithLogger]) and report
// reallocations and rejected operations to an [Observer] ([WithObserver]).
// [Stack.WriteTo] renders capacity, size and every slot for debugging.
//
// # Concurrency
//
// A [Stack] is not safe for concurrent use. [Locked] serialises access
// with a mutex.
//
// # Example
//
//	s := guardstack.New[string]()
//	defer s.Destroy()
//
//	if err := s.Push("hello"); err != nil {
//		return err
//	}
//	top, err := s.Peek()
//	// top == "hello"
package guardstack
