// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import "sync"

// Locked serialises access to a [Stack] with a mutex.
type Locked[T any] struct {
	mu sync.Mutex
	s  *Stack[T]
}

// NewLocked returns a Locked wrapping a new stack.
func NewLocked[T any](opts ...Option) *Locked[T] {
	return &Locked[T]{s: New[T](opts...)}
}

// Push pushes v under the lock.
func (l *Locked[T]) Push(v T) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Push(v)
}

// Pop pops the top element under the lock.
func (l *Locked[T]) Pop() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Pop()
}

// Peek returns a copy of the top element under the lock.
func (l *Locked[T]) Peek() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Peek()
}

// Len returns the number of elements under the lock.
func (l *Locked[T]) Len() (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Len()
}

// Do runs f with exclusive access to the stack. f must not retain it.
func (l *Locked[T]) Do(f func(*Stack[T]) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f(l.s)
}

// Destroy destroys the wrapped stack.
func (l *Locked[T]) Destroy() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.Destroy()
}
