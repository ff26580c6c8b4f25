package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsRecorded *prometheus.CounterVec
	TransactionAmount    prometheus.Histogram
	TransactionDuration  prometheus.Histogram
	ReconcileSplits      prometheus.Counter
	StaleWriteRetries    prometheus.Counter
	TransactionErrors    *prometheus.CounterVec

	// Customer metrics
	CustomersCreated   prometheus.Counter
	CustomersDeleted   prometheus.Counter
	CustomerOperations *prometheus.CounterVec

	// Summary metrics
	SummaryCacheHits   prometheus.Counter
	SummaryCacheMisses prometheus.Counter

	// API metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	WatchSessions prometheus.Gauge

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Redis metrics
	RedisOperations *prometheus.CounterVec
	RedisErrors     *prometheus.CounterVec

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxFailures  prometheus.Counter
	OutboxBacklog   prometheus.Gauge

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Transaction metrics
		TransactionsRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_transactions_recorded_total",
				Help: "Total number of ledger transactions recorded",
			},
			[]string{"direction"},
		),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "khata_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{10, 100, 500, 1000, 5000, 10000, 100000, 1000000},
		}),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "khata_transaction_duration_seconds",
			Help:    "Duration of transaction recording",
			Buckets: prometheus.DefBuckets,
		}),
		ReconcileSplits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_reconcile_splits_total",
			Help: "Total transactions split into repayment plus new loan",
		}),
		StaleWriteRetries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_stale_write_retries_total",
			Help: "Total write retries after losing a version check",
		}),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_transaction_errors_total",
				Help: "Total number of transaction errors by type",
			},
			[]string{"error_type"},
		),

		// Customer metrics
		CustomersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_customers_created_total",
			Help: "Total number of customers created",
		}),
		CustomersDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_customers_deleted_total",
			Help: "Total number of customers deleted",
		}),
		CustomerOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_customer_operations_total",
				Help: "Total customer operations by type",
			},
			[]string{"operation"},
		),

		// Summary metrics
		SummaryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_summary_cache_hits_total",
			Help: "Total summary requests served from cache",
		}),
		SummaryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_summary_cache_misses_total",
			Help: "Total summary requests computed from the database",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "khata_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WatchSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "khata_watch_sessions",
			Help: "Current number of open change streams",
		}),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "khata_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "khata_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Redis metrics
		RedisOperations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_redis_operations_total",
				Help: "Total Redis operations",
			},
			[]string{"operation"},
		),
		RedisErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Outbox metrics
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_outbox_published_total",
			Help: "Total outbox events published",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "khata_outbox_failures_total",
			Help: "Total outbox publish failures",
		}),
		OutboxBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "khata_outbox_backlog",
			Help: "Unpublished events seen in the last poll",
		}),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Rate limiting metrics
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khata_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
