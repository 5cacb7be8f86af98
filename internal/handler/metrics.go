package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors for the TubeSpy backend.
var Metrics = struct {
	SyncBatchesTotal   *prometheus.CounterVec
	SyncItemsTotal     *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	DBPoolActive       prometheus.GaugeFunc
	DBPoolIdle         prometheus.GaugeFunc
	RequestsInFlight   prometheus.Gauge
	ReportCacheHits    prometheus.Counter
	ReportCacheMisses  prometheus.Counter
	SearchCacheEntries prometheus.GaugeFunc
}{}

// InitMetrics registers all Prometheus metrics. Call once at startup.
// searchCacheSize reports the current in-memory search cache size; may be nil.
func InitMetrics(pool *pgxpool.Pool, searchCacheSize func() int) {
	Metrics.SyncBatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubespy_sync_batches_total",
			Help: "Total sync batches processed, by mode.",
		},
		[]string{"mode"},
	)

	Metrics.SyncItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tubespy_sync_items_total",
			Help: "Total sync items processed, by outcome.",
		},
		[]string{"outcome"},
	)

	Metrics.RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tubespy_api_request_duration_seconds",
			Help:    "HTTP request duration in seconds, by endpoint and method.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	Metrics.RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tubespy_requests_in_flight",
			Help: "Number of HTTP requests currently being served.",
		},
	)

	Metrics.ReportCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubespy_report_cache_hits_total",
			Help: "Total Redis report cache hits.",
		},
	)

	Metrics.ReportCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tubespy_report_cache_misses_total",
			Help: "Total Redis report cache misses.",
		},
	)

	// DB pool gauges — read live stats from pgxpool
	if pool != nil {
		Metrics.DBPoolActive = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubespy_db_connection_pool_active",
				Help: "Number of active database connections.",
			},
			func() float64 {
				return float64(pool.Stat().AcquiredConns())
			},
		)

		Metrics.DBPoolIdle = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubespy_db_connection_pool_idle",
				Help: "Number of idle database connections.",
			},
			func() float64 {
				return float64(pool.Stat().IdleConns())
			},
		)

		prometheus.MustRegister(Metrics.DBPoolActive)
		prometheus.MustRegister(Metrics.DBPoolIdle)
	}

	if searchCacheSize != nil {
		Metrics.SearchCacheEntries = prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "tubespy_search_cache_entries",
				Help: "Number of live entries in the in-memory search cache.",
			},
			func() float64 {
				return float64(searchCacheSize())
			},
		)

		prometheus.MustRegister(Metrics.SearchCacheEntries)
	}

	prometheus.MustRegister(
		Metrics.SyncBatchesTotal,
		Metrics.SyncItemsTotal,
		Metrics.RequestDuration,
		Metrics.RequestsInFlight,
		Metrics.ReportCacheHits,
		Metrics.ReportCacheMisses,
	)
}

// MetricsMiddleware records request duration and in-flight count for Prometheus.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		// Don't instrument the /metrics endpoint itself
		if c.Path() == "/metrics" {
			return c.Next()
		}

		// Copy path and method into owned strings BEFORE c.Next() — Fiber
		// returns slices backed by the fasthttp buffer which can be reused
		// or overwritten by handlers (especially fasthttpadaptor).
		path := string([]byte(c.Path()))
		method := string([]byte(c.Method()))
		endpoint := sanitizeEndpoint(path)

		Metrics.RequestsInFlight.Inc()
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Response().StatusCode())

		Metrics.RequestDuration.WithLabelValues(endpoint, method, status).Observe(duration)
		Metrics.RequestsInFlight.Dec()

		return err
	}
}

// sanitizeEndpoint normalizes paths to avoid cardinality explosion.
func sanitizeEndpoint(path string) string {
	if len(path) > 10 && path[:10] == "/api/data/" && path != "/api/data/bulk-delete" {
		return "/api/data/:kind/:id"
	}
	return path
}

// MetricsHandler serves the Prometheus /metrics endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	httpHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		httpHandler(c.RequestCtx())
		return nil
	}
}
