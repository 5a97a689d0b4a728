package metrics

import (
	"net/http"
	"time"

	"github.com/24-30496-max/project-helping-hand-2.0/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsManager holds the marketplace Prometheus metrics.
// A nil *MetricsManager is valid and records nothing.
type MetricsManager struct {
	Registry               *prometheus.Registry
	UsersRegisteredTotal   prometheus.Counter
	UsersDeletedTotal      prometheus.Counter
	ListingsCreatedTotal   prometheus.Counter
	ListingsUpdatedTotal   prometheus.Counter
	ListingsDeletedTotal   prometheus.Counter
	InterestsCreatedTotal  prometheus.Counter
	FeedbackCreatedTotal   prometheus.Counter
	NotificationsSentTotal *prometheus.CounterVec
	HTTPRequestErrorsTotal *prometheus.CounterVec
	HTTPRequestLatency     *prometheus.HistogramVec
}

func counter(namespace, name, help string) prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
}

// NewMetricsManager creates the metrics on a private registry.
func NewMetricsManager(namespace string) *MetricsManager {
	m := &MetricsManager{
		Registry:              prometheus.NewRegistry(),
		UsersRegisteredTotal:  counter(namespace, "users_registered_total", "Total number of user registrations."),
		UsersDeletedTotal:     counter(namespace, "users_deleted_total", "Total number of users deleted by admins."),
		ListingsCreatedTotal:  counter(namespace, "listings_created_total", "Total number of listings created."),
		ListingsUpdatedTotal:  counter(namespace, "listings_updated_total", "Total number of listings updated."),
		ListingsDeletedTotal:  counter(namespace, "listings_deleted_total", "Total number of listings deleted."),
		InterestsCreatedTotal: counter(namespace, "interests_created_total", "Total number of interests expressed."),
		FeedbackCreatedTotal:  counter(namespace, "feedback_created_total", "Total number of feedback entries left."),
		NotificationsSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of notifications created by type.",
		}, []string{"type"}),
		HTTPRequestErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Total number of HTTP responses with status >= 400 by route.",
		}, []string{"method", "route", "status"}),
		HTTPRequestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_latency_seconds",
			Help:      "Latency of HTTP requests by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.Registry.MustRegister(
		m.UsersRegisteredTotal,
		m.UsersDeletedTotal,
		m.ListingsCreatedTotal,
		m.ListingsUpdatedTotal,
		m.ListingsDeletedTotal,
		m.InterestsCreatedTotal,
		m.FeedbackCreatedTotal,
		m.NotificationsSentTotal,
		m.HTTPRequestErrorsTotal,
		m.HTTPRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// UserRegistered counts a successful registration.
func (m *MetricsManager) UserRegistered() {
	if m != nil {
		m.UsersRegisteredTotal.Inc()
	}
}

func (m *MetricsManager) UserDeleted() {
	if m != nil {
		m.UsersDeletedTotal.Inc()
	}
}

func (m *MetricsManager) ListingCreated() {
	if m != nil {
		m.ListingsCreatedTotal.Inc()
	}
}

func (m *MetricsManager) ListingUpdated() {
	if m != nil {
		m.ListingsUpdatedTotal.Inc()
	}
}

func (m *MetricsManager) ListingDeleted() {
	if m != nil {
		m.ListingsDeletedTotal.Inc()
	}
}

func (m *MetricsManager) InterestCreated() {
	if m != nil {
		m.InterestsCreatedTotal.Inc()
	}
}

func (m *MetricsManager) FeedbackCreated() {
	if m != nil {
		m.FeedbackCreatedTotal.Inc()
	}
}

// NotificationCreated counts a notification of the given type.
func (m *MetricsManager) NotificationCreated(notificationType string) {
	if m == nil {
		return
	}
	m.NotificationsSentTotal.WithLabelValues(notificationType).Inc()
}

// ObserveHTTP records latency and, for status >= 400, an error sample.
func (m *MetricsManager) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
	if status >= http.StatusBadRequest {
		m.HTTPRequestErrorsTotal.WithLabelValues(method, route, http.StatusText(status)).Inc()
	}
}

// StartMetricsServer exposes the registry on :port/metrics. An empty port disables it.
func StartMetricsServer(port string, appLogger *logger.Logger, registry *prometheus.Registry) error {
	if port == "" {
		appLogger.Info("Prometheus metrics server port not configured, server will not start.")
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	appLogger.Info("Prometheus metrics server starting", zap.String("port", port), zap.String("path", "/metrics"))

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return server.ListenAndServe()
}
