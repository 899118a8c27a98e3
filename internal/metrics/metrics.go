package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Realtime Metrics
var (
	// ConnectedSockets tracks currently connected WebSocket subscribers
	ConnectedSockets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connected_sockets",
			Help: "Currently connected WebSocket subscribers",
		},
	)

	// ConnectedStreams tracks currently open SSE streams
	ConnectedStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connected_streams",
			Help: "Currently open SSE streams",
		},
	)

	// BroadcastsTotal tracks envelopes fanned out to subscribers
	BroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_broadcasts_total",
			Help: "Total broadcast envelopes by event type",
		},
		[]string{"event"},
	)

	// SlowSocketsEvicted tracks WebSocket subscribers dropped because their
	// send buffer was full at broadcast time
	SlowSocketsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_slow_sockets_evicted_total",
			Help: "WebSocket subscribers evicted for not keeping up",
		},
	)

	// SocketPingFailures tracks failed keepalive pings
	SocketPingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_socket_ping_failures_total",
			Help: "Failed WebSocket keepalive pings",
		},
	)
)

// Ingestion Metrics
var (
	// IngestTotal tracks ingestion attempts by kind and outcome
	IngestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_operations_total",
			Help: "Ingestion attempts by kind (environment/device/alarm) and status",
		},
		[]string{"kind", "status"},
	)

	// AuditWriteFailures tracks best-effort dispatch log writes that failed
	AuditWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_audit_write_failures_total",
			Help: "Failed best-effort dispatch audit writes",
		},
	)
)
