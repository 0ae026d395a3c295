// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import "errors"

// Error kinds. They are distinct and must be tested with [errors.Is].
var (
	// ErrUnderflow is returned by Top, Peek and Pop on an empty stack.
	ErrUnderflow = errors.New("guardstack: underflow")

	// ErrInvalidState is wrapped by every [*StateError]. A stack that
	// reported it must not be used again.
	ErrInvalidState = errors.New("guardstack: invalid state")

	// ErrAllocation is wrapped by allocation failures. The stack keeps the
	// state it had before the failing operation.
	ErrAllocation = errors.New("guardstack: allocation failed")
)

// Reason classifies why a stack failed its validity check.
type Reason uint8

const (
	reasonNone Reason = iota

	// ReasonCorrupted: a sentinel, the integrity tag, the lifecycle marker
	// or a size/capacity relation does not hold, or the stack was copied
	// by value.
	ReasonCorrupted

	// ReasonMoved: the storage was transferred out by Move or MoveFrom.
	ReasonMoved

	// ReasonReleased: the stack was destroyed.
	ReasonReleased

	// ReasonUninitialized: a nil or zero-value stack not created by New.
	ReasonUninitialized
)

// String returns the lower-case name of r.
func (r Reason) String() string {
	switch r {
	case reasonNone:
		return "valid"
	case ReasonCorrupted:
		return "corrupted"
	case ReasonMoved:
		return "moved"
	case ReasonReleased:
		return "released"
	case ReasonUninitialized:
		return "uninitialized"
	}
	return "unknown"
}

// StateError reports an operation rejected by the validity check.
type StateError struct {
	Op     string
	Reason Reason
}

// Error formats the operation and the reason.
func (e *StateError) Error() string {
	return "guardstack: " + e.Op + ": invalid state (" + e.Reason.String() + ")"
}

// Unwrap returns [ErrInvalidState].
func (e *StateError) Unwrap() error { return ErrInvalidState }
