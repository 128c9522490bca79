// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package metrics holds the Prometheus collectors updated by the receiver.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error kinds used as the "kind" label of ReceiveErrors.
const (
	KindBind      = "bind"
	KindTransient = "transient"
	KindFatal     = "fatal"
)

// Metrics is the set of receiver collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Datagrams     *prometheus.CounterVec
	Bytes         *prometheus.CounterVec
	ReceiveErrors *prometheus.CounterVec
	QueueDrops    *prometheus.CounterVec
	QueueDepth    *prometheus.GaugeVec
}

// New registers the collectors with reg. Passing prometheus.DefaultRegisterer
// exposes them on the default /metrics handler.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Datagrams: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cue_receiver_datagrams_total",
				Help: "Datagrams accepted into a channel queue",
			},
			[]string{"channel"},
		),
		Bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cue_receiver_bytes_total",
				Help: "Payload bytes accepted into a channel queue",
			},
			[]string{"channel"},
		),
		ReceiveErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cue_receiver_errors_total",
				Help: "Receive errors by channel and kind",
			},
			[]string{"channel", "kind"},
		),
		QueueDrops: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cue_receiver_queue_drops_total",
				Help: "Items discarded because a channel queue was full",
			},
			[]string{"channel"},
		),
		QueueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cue_receiver_queue_depth",
				Help: "Items pending in a channel queue",
			},
			[]string{"channel"},
		),
	}
}

// ObserveDatagram counts one accepted datagram of size bytes.
func (m *Metrics) ObserveDatagram(channel string, size int) {
	if m == nil {
		return
	}
	m.Datagrams.WithLabelValues(channel).Inc()
	m.Bytes.WithLabelValues(channel).Add(float64(size))
}

// ObserveError counts one error of the given kind.
func (m *Metrics) ObserveError(channel, kind string) {
	if m == nil {
		return
	}
	m.ReceiveErrors.WithLabelValues(channel, kind).Inc()
}

// ObserveDrop counts one item discarded by a full queue.
func (m *Metrics) ObserveDrop(channel string) {
	if m == nil {
		return
	}
	m.QueueDrops.WithLabelValues(channel).Inc()
}

// SetQueueDepth records the current number of pending items.
func (m *Metrics) SetQueueDepth(channel string, depth int) {
	if m == nil {
		return
	}
	m.QueueDepth.WithLabelValues(channel).Set(float64(depth))
}
