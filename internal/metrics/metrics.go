// Package metrics собирает метрики Prometheus консоли.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/subscription-admin/internal/userlist"
)

const namespace = "admin_console"

// Metrics держит собственный реестр и все метрики консоли.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	backendRequests   *prometheus.CounterVec
	backendDuration   *prometheus.HistogramVec
	sessionTransition *prometheus.CounterVec
	fetches           *prometheus.CounterVec
	fetchDuration     prometheus.Histogram
	mutations         *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Запросы к API консоли по маршруту и коду ответа.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность запросов к API консоли.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		backendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Вызовы REST API бэкенда по операции и итогу.",
		}, []string{"endpoint", "outcome"}),
		backendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Длительность вызовов бэкенда.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		sessionTransition: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Переходы сессии по целевому состоянию.",
		}, []string{"state"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_list_fetches_total",
			Help:      "Выборки списка пользователей по итогу.",
		}, []string{"outcome"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "user_list_fetch_duration_seconds",
			Help:      "Длительность выборок списка пользователей.",
			Buckets:   prometheus.DefBuckets,
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_mutations_total",
			Help:      "Оптимистичные изменения пользователей по действию и итогу.",
		}, []string{"action", "outcome"}),
	}
	registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.backendRequests, m.backendDuration,
		m.sessionTransition,
		m.fetches, m.fetchDuration,
		m.mutations,
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Handler отдаёт метрики для /metrics.
func (m *Metrics) Handler() http.Handler {
	return m.handler
}

// Middleware считает запросы к API консоли.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) ObserveBackendRequest(endpoint, outcome string, d time.Duration) {
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) ObserveSessionTransition(to string) {
	m.sessionTransition.WithLabelValues(to).Inc()
}

func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	m.fetches.WithLabelValues(outcome).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) MutationSettled(_ context.Context, mu userlist.Mutation) {
	m.mutations.WithLabelValues(string(mu.Action), string(mu.Outcome())).Inc()
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
