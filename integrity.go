// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"encoding/binary"
	"unsafe"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sentinels bracketing the control block of every stack created by New.
const (
	headSentinel uint64 = 0x5AFE_57AC_C0DE_0A11
	tailSentinel uint64 = 0x0A11_C0DE_57AC_5AFE
)

// controlSize is the serialised size of a controlBlock.
const controlSize = 8 * 8

// controlBlock is a by-value snapshot of every control field except the tag.
type controlBlock struct {
	head     uint64
	data     uintptr
	length   int
	room     int
	capacity int
	size     int
	state    lifecycle
	tail     uint64
}

// checksum is the integrity tag of c. It is a pure function of c.
func (c controlBlock) checksum(w Width) uint64 {
	var raw [controlSize]byte
	b := raw[:0]
	b = binary.LittleEndian.AppendUint64(b, c.head)
	b = binary.LittleEndian.AppendUint64(b, uint64(c.data))
	b = binary.LittleEndian.AppendUint64(b, uint64(c.length))
	b = binary.LittleEndian.AppendUint64(b, uint64(c.room))
	b = binary.LittleEndian.AppendUint64(b, uint64(c.capacity))
	b = binary.LittleEndian.AppendUint64(b, uint64(c.size))
	b = binary.LittleEndian.AppendUint64(b, uint64(c.state))
	b = binary.LittleEndian.AppendUint64(b, c.tail)
	return Hash(b, w)
}

func (s *Stack[T]) control() controlBlock {
	return controlBlock{
		head:     s.head,
		data:     uintptr(unsafe.Pointer(unsafe.SliceData(s.data))),
		length:   len(s.data),
		room:     cap(s.data),
		capacity: s.capacity,
		size:     s.size,
		state:    s.state,
		tail:     s.tail,
	}
}

// seal recomputes the integrity tag. Every mutation of the control block
// ends with seal.
func (s *Stack[T]) seal() {
	s.tag = s.control().checksum(s.width)
}

// diagnose evaluates the validity predicate. It has no side effects.
func (s *Stack[T]) diagnose() Reason {
	if s == nil {
		return ReasonUninitialized
	}
	c := s.control()
	if c == (controlBlock{}) && s.tag == 0 {
		return ReasonUninitialized
	}
	if c.head != headSentinel || c.tail != tailSentinel {
		return ReasonCorrupted
	}
	if !s.width.Valid() || s.tag != c.checksum(s.width) {
		return ReasonCorrupted
	}
	if s.self != s {
		return ReasonCorrupted
	}
	switch c.state {
	case stateLive:
	case stateMoved:
		return ReasonMoved
	case stateReleased:
		return ReasonReleased
	default:
		return ReasonCorrupted
	}
	if c.size < 0 || c.size > c.capacity {
		return ReasonCorrupted
	}
	if c.length != c.capacity || (c.capacity == 0) != (c.data == 0) {
		return ReasonCorrupted
	}
	return reasonNone
}

// Valid reports whether s satisfies its validity predicate: sentinels
// intact, tag matching the control block, live, size <= capacity and
// capacity == 0 exactly when there is no buffer. Collisions of the tag are
// possible and accepted. Valid is safe on a nil receiver.
func (s *Stack[T]) Valid() bool {
	return s.diagnose() == reasonNone
}

// check runs the validity predicate for op, reporting failures to the
// logger and observer before returning them.
func (s *Stack[T]) check(op string) error {
	r := s.diagnose()
	if r == reasonNone {
		return nil
	}
	s.report(op, r)
	return &StateError{Op: op, Reason: r}
}

func (s *Stack[T]) report(op string, r Reason) {
	if s == nil {
		return
	}
	if s.log != nil {
		switch r {
		case ReasonCorrupted:
			s.log.Error("guardstack: corrupted control block",
				zap.String("op", op), zap.Object("control", s.controlView()))
		default:
			s.log.Warn("guardstack: use of unusable stack",
				zap.String("op", op), zap.Stringer("reason", r))
		}
	}
	if s.obs != nil {
		s.obs.Rejected(op, r)
	}
}

// controlView is the diagnostic rendering of a control block.
type controlView struct {
	controlBlock
	tag    uint64
	want   uint64
	width  Width
	copied bool
}

func (s *Stack[T]) controlView() controlView {
	c := s.control()
	v := controlView{controlBlock: c, tag: s.tag, width: s.width, copied: s.self != s}
	if s.width.Valid() {
		v.want = c.checksum(s.width)
	}
	return v
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (v controlView) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("head", v.head)
	enc.AddUintptr("data", v.data)
	enc.AddInt("len", v.length)
	enc.AddInt("cap", v.room)
	enc.AddInt("capacity", v.capacity)
	enc.AddInt("size", v.size)
	enc.AddString("state", v.state.String())
	enc.AddUint64("tag", v.tag)
	enc.AddUint64("want", v.want)
	enc.AddUint8("width", uint8(v.width))
	enc.AddBool("copied", v.copied)
	enc.AddUint64("tail", v.tail)
	return nil
}
