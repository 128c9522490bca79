// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Observe(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveDatagram("image", 100)
	m.ObserveDatagram("image", 50)
	m.ObserveDatagram("audio", 15)
	m.ObserveError("audio", KindTransient)
	m.ObserveDrop("image")
	m.SetQueueDepth("image", 7)

	assert.InDelta(t, 2, testutil.ToFloat64(m.Datagrams.WithLabelValues("image")), 0)
	assert.InDelta(t, 150, testutil.ToFloat64(m.Bytes.WithLabelValues("image")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Datagrams.WithLabelValues("audio")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReceiveErrors.WithLabelValues("audio", KindTransient)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.QueueDrops.WithLabelValues("image")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(m.QueueDepth.WithLabelValues("image")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveDatagram("image", 1)
		m.ObserveError("image", KindFatal)
		m.ObserveDrop("image")
		m.SetQueueDepth("image", 1)
	})
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Each receiver may carry its own registry without duplicate registration panics.
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
