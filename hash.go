// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import "fmt"

// Width is the accumulator width of the integrity tag, in bits.
type Width uint8

// Supported tag widths. Width8 is the weakest and Width64 the default.
const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
	Width64 Width = 64
)

// hashSeed and hashFactor define the rolling recurrence acc = hashFactor*acc + b.
const (
	hashSeed   = 1
	hashFactor = 31
)

// Valid reports whether w is one of the supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width8, Width16, Width32, Width64:
		return true
	}
	return false
}

func (w Width) mask() uint64 {
	if w >= 64 {
		return ^uint64(0)
	}
	return 1<<w - 1
}

// String returns w as "8-bit" through "64-bit".
func (w Width) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Width(%d)", uint8(w))
	}
	return fmt.Sprintf("%d-bit", uint8(w))
}

// Hash computes the rolling hash of b truncated to w bits.
// Truncation commutes with the recurrence, so the result equals running
// the recurrence in a w-bit accumulator.
//
// The factor is odd, so changing any single byte of b always changes the
// result, at every width.
func Hash(b []byte, w Width) uint64 {
	acc := uint64(hashSeed)
	for _, c := range b {
		acc = hashFactor*acc + uint64(c)
	}
	return acc & w.mask()
}

// Hash8 is the 8-bit rolling hash of b.
func Hash8(b []byte) uint8 {
	return uint8(Hash(b, Width8))
}
