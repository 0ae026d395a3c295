// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

// Observer receives stack events. Calls are made synchronously from the
// operation that caused them.
type Observer interface {
	// Reallocated is called after the buffer changed from capacity from to to.
	// to == 0 means the buffer was released.
	Reallocated(from, to int)

	// Rejected is called when operation op failed the validity check.
	Rejected(op string, reason Reason)
}

type nopObserver struct{}

func (nopObserver) Reallocated(int, int)    {}
func (nopObserver) Rejected(string, Reason) {}
