package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a private Prometheus registry for the service.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	advisorCalls    *prometheus.CounterVec
	remindersSent   *prometheus.CounterVec
	vaultSaves      *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "forecast_cache_lookups_total",
		Help: "Forecast cache lookups by result",
	}, []string{"result"})

	advisorCalls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_requests_total",
		Help: "AI advisor requests by provider and outcome",
	}, []string{"provider", "outcome"})

	remindersSent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Reminder messages delivered by kind",
	}, []string{"kind"})

	vaultSaves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "vault_autosaves_total",
		Help: "Vault file autosaves by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLookups, advisorCalls, remindersSent, vaultSaves, goroutines)

	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLookups:    cacheLookups,
		advisorCalls:    advisorCalls,
		remindersSent:   remindersSent,
		vaultSaves:      vaultSaves,
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(method string, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, route, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, route, labelStatus).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAdvisorCall(provider string, outcome string) {
	if m == nil {
		return
	}
	m.advisorCalls.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) RecordReminder(kind string) {
	if m == nil {
		return
	}
	m.remindersSent.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordVaultSave(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.vaultSaves.WithLabelValues(outcome).Inc()
}
