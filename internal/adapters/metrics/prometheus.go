package metrics_adapter

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listing-service/internal/core/port"
)

const namespace = "listing_service"

// PrometheusMetrics keeps the service counters in a private registry.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	classifications *prometheus.CounterVec
	aiFallbacks     *prometheus.CounterVec
	matchChecks     *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	archived        prometheus.Counter
	httpDuration    *prometheus.HistogramVec
}

func NewPrometheusMetrics() *PrometheusMetrics {
	m := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "category_classifications_total",
			Help:      "Listing classifications by source.",
		}, []string{"source"}),
		aiFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_fallbacks_total",
			Help:      "AI calls that failed or returned an unusable answer.",
		}, []string{"operation"}),
		matchChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_evaluations_total",
			Help:      "Criterion checks against new listings.",
		}, []string{"kind", "matched"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Stored notifications by type.",
		}, []string{"type"}),
		archived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "listings_archived_total",
			Help:      "Listings archived after their validity ended.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of REST requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		m.classifications,
		m.aiFallbacks,
		m.matchChecks,
		m.notifications,
		m.archived,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

var _ port.MetricsPort = (*PrometheusMetrics)(nil)

func (m *PrometheusMetrics) CategoryClassified(source string) {
	m.classifications.WithLabelValues(source).Inc()
}

func (m *PrometheusMetrics) AIFallback(operation string) {
	m.aiFallbacks.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) MatchEvaluated(kind string, matched bool) {
	m.matchChecks.WithLabelValues(kind, strconv.FormatBool(matched)).Inc()
}

func (m *PrometheusMetrics) NotificationCreated(notificationType string) {
	m.notifications.WithLabelValues(notificationType).Inc()
}

func (m *PrometheusMetrics) ListingsArchived(n int) {
	if n > 0 {
		m.archived.Add(float64(n))
	}
}

// ObserveHTTP records one served request. route is the chi route pattern,
// never the raw path, to keep label cardinality bounded.
func (m *PrometheusMetrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// NoopMetrics is used when metrics are disabled.
type NoopMetrics struct{}

var _ port.MetricsPort = NoopMetrics{}

func (NoopMetrics) CategoryClassified(string)   {}
func (NoopMetrics) AIFallback(string)           {}
func (NoopMetrics) MatchEvaluated(string, bool) {}
func (NoopMetrics) NotificationCreated(string)  {}
func (NoopMetrics) ListingsArchived(int)        {}
