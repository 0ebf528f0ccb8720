package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Bridge operations
	// ============================================
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_operations_total",
			Help: "Total number of bridge operations by result",
		},
		[]string{"operation", "result"},
	)

	OperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_operation_errors_total",
			Help: "Total number of aborted bridge operations by error code",
		},
		[]string{"operation", "code"},
	)

	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_operation_duration_seconds",
			Help:    "Bridge operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	NFTsMinted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_nfts_minted_total",
			Help: "NFTs created on the home chain",
		},
		[]string{"source"}, // local | inbound
	)

	TransfersByChain = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_transfers_total",
			Help: "Cross-chain transfers by direction and counterparty chain",
		},
		[]string{"direction", "chain_id"},
	)

	ReplayRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_inbound_replay_rejected_total",
		Help: "Inbound messages rejected because their receipt already exists",
	})

	SignatureRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_signature_rejected_total",
		Help: "Messages rejected because the authority signature did not verify",
	})

	// ============================================
	// NATS
	// ============================================
	NATSConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_nats_connection_status",
		Help: "NATS connection status (1=connected, 0=disconnected)",
	})

	NATSMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_nats_messages_published_total",
			Help: "Total number of events published to NATS",
		},
		[]string{"event_type"},
	)

	NATSPublishFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_nats_publish_failed_total",
			Help: "Total number of events that failed to publish",
		},
		[]string{"event_type"},
	)

	// ============================================
	// HTTP / WebSocket
	// ============================================
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_websocket_connections",
		Help: "Number of open event stream connections",
	})

	// ============================================
	// Ledger
	// ============================================
	DBConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_db_connection_status",
		Help: "Ledger database connection status (1=healthy, 0=unhealthy)",
	})

	DBConnectionPoolSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_db_connection_pool_size",
		Help: "Maximum open ledger database connections",
	})

	DBConnectionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_db_connections_active",
		Help: "Ledger database connections in use",
	})

	DBConnectionIdle = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_db_connections_idle",
		Help: "Idle ledger database connections",
	})

	// ============================================
	// Program state
	// ============================================
	ProgramTotalMinted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_program_total_minted",
		Help: "total_minted counter of the program configuration",
	})

	ProgramTransferCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_program_transfer_count",
		Help: "Outbound transfers initiated since initialization",
	})

	ProgramPaused = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_program_paused",
		Help: "1 while the program is paused",
	})
)
