// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package guardstack

import "go.uber.org/zap"

type options struct {
	policy    Policy
	allocator any
	logger    *zap.Logger
	observer  Observer
}

// Option configures a stack created by [New].
type Option func(*options)

// WithPolicy sets the growth/shrink policy and tag width.
// New panics if p does not validate.
func WithPolicy(p Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithAllocator sets the allocation strategy. The element type of a must
// match the stack's; New panics otherwise.
func WithAllocator[T any](a Allocator[T]) Option {
	return func(o *options) { o.allocator = a }
}

// WithLogger sets the logger receiving diagnostics. The default discards them.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithObserver sets the observer receiving reallocation and rejection events.
func WithObserver(obs Observer) Option {
	return func(o *options) { o.observer = obs }
}
