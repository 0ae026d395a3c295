// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

// Bracket creates a stack with opts, passes it to use and destroys it
// afterwards, even if use panics or moves the stack out.
//
// Destroying a stack that use moved from is a no-op; the stack receiving
// the buffer is then the caller's to destroy.
func Bracket[T, A any](use func(*Stack[T]) (A, error), opts ...Option) (A, error) {
	s := New[T](opts...)
	defer s.Destroy()
	return use(s)
}
