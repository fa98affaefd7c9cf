package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the wallet pipeline.
type Metrics struct {
	// Consumer pipeline
	ProcessedTotal   *prometheus.CounterVec
	IdempotentTotal  prometheus.Counter
	DBErrors         prometheus.Counter
	StreamErrors     prometheus.Counter
	PublishErrors    prometheus.Counter
	DecodeErrors     prometheus.Counter
	ConsumerRestarts prometheus.Counter

	BalanceUpdateLatency prometheus.Histogram
	BatchLatency         prometheus.Histogram
	BatchSize            prometheus.Histogram

	// Withdraw intake
	WithdrawRequests   prometheus.Counter
	WithdrawQueueTime  prometheus.Histogram
	WithdrawQueueDepth prometheus.Gauge
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wallet_processed_total",
				Help: "Total processed trades by result",
			},
			[]string{"result"},
		),
		IdempotentTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_idempotent_total",
			Help: "Trades skipped as already applied",
		}),
		DBErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_db_errors_total",
			Help: "Ledger store transaction failures",
		}),
		StreamErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_stream_errors_total",
			Help: "Trade stream read failures",
		}),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_publish_errors_total",
			Help: "Downstream notification publish failures",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_decode_errors_total",
			Help: "Stream messages dropped as undecodable",
		}),
		ConsumerRestarts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_consumer_restarts_total",
			Help: "Consumption loop restarts after a fatal error",
		}),

		BalanceUpdateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_balance_update_latency_ms",
			Help:    "Latency for processing a trade to balance update (ms)",
			Buckets: []float64{5, 10, 20, 30, 50, 80, 120, 200, 500, 1000},
		}),
		BatchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_batch_latency_ms",
			Help:    "Batch processing latency (ms)",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		BatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_batch_size",
			Help:    "Dispatched batch size",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),

		WithdrawRequests: promauto.NewCounter(prometheus.CounterOpts{
			Name: "wallet_withdraw_requests_total",
			Help: "Total withdraw requests",
		}),
		WithdrawQueueTime: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "wallet_withdraw_queue_time_seconds",
			Help:    "Time from request receipt to enqueue acknowledgement",
			Buckets: []float64{0.05, 0.1, 0.2, 0.5, 1, 2, 5},
		}),
		WithdrawQueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "wallet_withdraw_queue_depth",
			Help: "Current pending withdraw queue depth (approx)",
		}),
	}
}
