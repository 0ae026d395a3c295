// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package promobserver exports guardstack events as Prometheus metrics.
package promobserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"code.hybscloud.com/guardstack"
)

// Reallocation directions used as the "direction" label.
const (
	DirectionGrow    = "grow"
	DirectionShrink  = "shrink"
	DirectionRelease = "release"
)

// Observer implements guardstack.Observer with Prometheus collectors.
// It may be shared by any number of stacks.
type Observer struct {
	reallocations *prometheus.CounterVec
	rejections    *prometheus.CounterVec
	capacity      prometheus.Histogram
}

var _ guardstack.Observer = (*Observer)(nil)

// New registers the collectors with reg under namespace.
// It panics if they are already registered.
func New(reg prometheus.Registerer, namespace string) *Observer {
	factory := promauto.With(reg)
	return &Observer{
		reallocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guardstack_reallocations_total",
				Help:      "Total number of stack buffer reallocations",
			},
			[]string{"direction"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guardstack_rejections_total",
				Help:      "Total number of operations rejected by the validity check",
			},
			[]string{"op", "reason"},
		),
		capacity: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "guardstack_capacity_slots",
				Help:      "Buffer capacity after each reallocation",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}
}

// Reallocated implements guardstack.Observer.
func (o *Observer) Reallocated(from, to int) {
	o.reallocations.WithLabelValues(direction(from, to)).Inc()
	o.capacity.Observe(float64(to))
}

// Rejected implements guardstack.Observer.
func (o *Observer) Rejected(op string, reason guardstack.Reason) {
	o.rejections.WithLabelValues(op, reason.String()).Inc()
}

// Reallocations returns the counter for one direction.
func (o *Observer) Reallocations(direction string) prometheus.Counter {
	return o.reallocations.WithLabelValues(direction)
}

// Rejections returns the counter for one operation and reason.
func (o *Observer) Rejections(op string, reason guardstack.Reason) prometheus.Counter {
	return o.rejections.WithLabelValues(op, reason.String())
}

func direction(from, to int) string {
	switch {
	case to == 0:
		return DirectionRelease
	case to > from:
		return DirectionGrow
	default:
		return DirectionShrink
	}
}
