package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	updatesReceived atomic.Uint64
	ordersEmitted   atomic.Uint64
	decodeErrors    atomic.Uint64

	// Gauges
	feedConnected atomic.Int32 // 1 = connected, 0 = disconnected
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordUpdate records one price update pulled from the feed.
func (m *Metrics) RecordUpdate() {
	m.updatesReceived.Add(1)
}

// RecordOrders records a burst of emitted orders.
func (m *Metrics) RecordOrders(n int) {
	m.ordersEmitted.Add(uint64(n))
}

// RecordDecodeError records a malformed feed message.
func (m *Metrics) RecordDecodeError() {
	m.decodeErrors.Add(1)
}

// SetFeedConnected sets the feed connection gauge.
func (m *Metrics) SetFeedConnected(connected bool) {
	if connected {
		m.feedConnected.Store(1)
	} else {
		m.feedConnected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	UpdatesReceived uint64
	OrdersEmitted   uint64
	DecodeErrors    uint64
	FeedConnected   bool
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UpdatesReceived: m.updatesReceived.Load(),
		OrdersEmitted:   m.ordersEmitted.Load(),
		DecodeErrors:    m.decodeErrors.Load(),
		FeedConnected:   m.feedConnected.Load() == 1,
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.updatesReceived.Store(0)
	m.ordersEmitted.Store(0)
	m.decodeErrors.Store(0)
	m.feedConnected.Store(0)
}
