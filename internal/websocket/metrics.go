package websocket

import (
	"sync/atomic"
	"time"
)

// Metrics counts relay activity. Counters are atomic so the stats endpoint
// can read them while the hub writes.
type Metrics struct {
	startTime time.Time

	TotalConnections  atomic.Int64
	ActiveConnections atomic.Int64
	Disconnects       atomic.Int64
	Joins             atomic.Int64

	MessagesRouted    atomic.Int64
	MessagesDropped   atomic.Int64 // malformed or unroutable
	Deliveries        atomic.Int64
	DeliveryFailures  atomic.Int64
	SlowConsumerDrops atomic.Int64
	HandlerPanics     atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

type MetricsSnapshot struct {
	Uptime        string `json:"uptime"`
	UptimeSeconds int64  `json:"uptime_seconds"`

	TotalConnections  int64 `json:"total_connections"`
	ActiveConnections int64 `json:"active_connections"`
	Disconnects       int64 `json:"disconnects"`
	Joins             int64 `json:"joins"`

	MessagesRouted    int64 `json:"messages_routed"`
	MessagesDropped   int64 `json:"messages_dropped"`
	Deliveries        int64 `json:"deliveries"`
	DeliveryFailures  int64 `json:"delivery_failures"`
	SlowConsumerDrops int64 `json:"slow_consumer_drops"`
	HandlerPanics     int64 `json:"handler_panics"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	uptime := time.Since(m.startTime)
	return MetricsSnapshot{
		Uptime:            uptime.Truncate(time.Second).String(),
		UptimeSeconds:     int64(uptime.Seconds()),
		TotalConnections:  m.TotalConnections.Load(),
		ActiveConnections: m.ActiveConnections.Load(),
		Disconnects:       m.Disconnects.Load(),
		Joins:             m.Joins.Load(),
		MessagesRouted:    m.MessagesRouted.Load(),
		MessagesDropped:   m.MessagesDropped.Load(),
		Deliveries:        m.Deliveries.Load(),
		DeliveryFailures:  m.DeliveryFailures.Load(),
		SlowConsumerDrops: m.SlowConsumerDrops.Load(),
		HandlerPanics:     m.HandlerPanics.Load(),
	}
}
