// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import (
	"fmt"
	"math"
)

// Policy controls reallocation and the integrity tag width.
//
// Growing from capacity c yields floor(c*GrowthFactor)+1 slots, so a stack
// makes progress from capacity 0. After a pop, if size/capacity drops
// below ShrinkFactor the buffer is shrunk to exactly size. Alternating
// push and pop around the shrink threshold reallocates every time.
type Policy struct {
	GrowthFactor float64 `yaml:"growth_factor"`
	ShrinkFactor float64 `yaml:"shrink_factor"`
	TagWidth     Width   `yaml:"tag_width"`
}

// DefaultPolicy returns growth factor 2, shrink factor 0.4 and a 64-bit tag.
func DefaultPolicy() Policy {
	return Policy{GrowthFactor: 2, ShrinkFactor: 0.4, TagWidth: Width64}
}

// Validate reports the first invalid field of p.
func (p Policy) Validate() error {
	if math.IsNaN(p.GrowthFactor) || math.IsInf(p.GrowthFactor, 0) || p.GrowthFactor < 1 {
		return fmt.Errorf("guardstack: growth factor %v must be finite and at least 1", p.GrowthFactor)
	}
	if math.IsNaN(p.ShrinkFactor) || p.ShrinkFactor < 0 || p.ShrinkFactor >= 1 {
		return fmt.Errorf("guardstack: shrink factor %v must be in [0, 1)", p.ShrinkFactor)
	}
	if !p.TagWidth.Valid() {
		return fmt.Errorf("guardstack: unsupported tag width %d", uint8(p.TagWidth))
	}
	return nil
}

// grow returns the capacity following c, or false if it does not fit in an int.
func (p Policy) grow(c int) (int, bool) {
	next := math.Floor(float64(c)*p.GrowthFactor) + 1
	if next >= math.MaxInt || int(next) <= c {
		return 0, false
	}
	return int(next), true
}

// shrinks reports whether a stack of the given size and capacity is
// below the shrink threshold.
func (p Policy) shrinks(size, capacity int) bool {
	return capacity > 0 && float64(size)/float64(capacity) < p.ShrinkFactor
}
