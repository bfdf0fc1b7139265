package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP Метрики
// =============================================================================

// HttpRequestsTotal - счётчик всех HTTP запросов
// Пример запроса PromQL: rate(http_requests_total{service="sizereview-service"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - гистограмма времени ответа
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

// HttpRequestsInFlight - текущее количество обрабатываемых запросов
var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// Хранилище отзывов (MongoDB / PostgreSQL)
// =============================================================================

var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Redis Метрики (кеш агрегатов)
// =============================================================================

var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka Метрики
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"},
)

// =============================================================================
// Внешний каталог товаров
// =============================================================================

// CatalogRequests - обращения к Catalog API
// status: ok, not_found, error, circuit_open
var CatalogRequests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_requests_total",
		Help: "Total number of requests to the catalog API",
	},
	[]string{"operation", "status"},
)

// CatalogCircuitState - состояние circuit breaker (0=closed, 1=half-open, 2=open)
var CatalogCircuitState = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "catalog_circuit_breaker_state",
		Help: "Current state of the catalog circuit breaker (0=closed, 1=half-open, 2=open)",
	},
)

// =============================================================================
// Business Метрики (размерные отзывы)
// =============================================================================

// SizeReviewsSubmitted - принятые отзывы о размере
var SizeReviewsSubmitted = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "size_reviews_submitted_total",
		Help: "Total number of accepted size reviews",
	},
	[]string{"fit"}, // small, good, big
)

// SizeReviewsRejected - отклонённые валидатором отзывы
var SizeReviewsRejected = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "size_reviews_rejected_total",
		Help: "Total number of size reviews rejected by validation",
	},
	[]string{"reason"},
)

// SizeReviewCorruptRecords - записи, пропущенные при агрегации
var SizeReviewCorruptRecords = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "size_review_corrupt_records_total",
		Help: "Total number of stored size reviews skipped during aggregation",
	},
)

// SizeRecommendations - выданные рекомендации размера
var SizeRecommendations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "size_recommendations_total",
		Help: "Total number of size recommendations served",
	},
	[]string{"status"}, // recommended, insufficient_data
)

// AggregateReconciliations - прогоны фоновой сверки кеша агрегатов
var AggregateReconciliations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "size_aggregate_reconciliations_total",
		Help: "Total number of aggregate cache reconciliation runs",
	},
	[]string{"status"}, // success, failed
)
