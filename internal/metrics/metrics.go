package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ReportRequestsTotal prometheus.Counter
	FetchFailuresTotal  prometheus.Counter
	DaysDroppedTotal    prometheus.Counter
	CacheHitsTotal      prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		ReportRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "report_requests_total",
				Help: "Total number of aggregate report requests",
			},
		),

		FetchFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "day_fetch_failures_total",
				Help: "Total number of per-day archive fetches dropped on error",
			},
		),

		DaysDroppedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "days_dropped_total",
				Help: "Total number of days dropped for structurally invalid payloads",
			},
		),

		CacheHitsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "report_cache_hits_total",
				Help: "Total number of report requests served from the cache",
			},
		),
	}
}
