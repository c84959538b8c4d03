package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/kilnbuild/kiln/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the pipeline's Prometheus collectors and the registry they
// live in.
type Metrics struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stepsTotal    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kiln_stage_duration_seconds",
				Help: "Duration of pipeline stage executions",
			},
			[]string{"stage"},
		),
		stepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiln_steps_total",
				Help: "Executed recipe steps by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kiln_http_requests_total",
				Help: "Static file requests by method and status code",
			},
			[]string{"method", "code"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "kiln_http_request_duration_seconds",
				Help: "Static file request latency",
			},
			[]string{"method"},
		),
	}

	m.registry.MustRegister(m.stageDuration, m.stepsTotal, m.httpRequests, m.httpDuration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStageEnd: func(_ context.Context, e *domain.StageEvent) {
			m.stageDuration.WithLabelValues(e.Stage).Observe(e.Duration.Seconds())
		},
		OnStepEnd: func(_ context.Context, e *domain.StepEvent) {
			outcome := "ok"
			if e.Err != nil {
				outcome = "error"
			}
			m.stepsTotal.WithLabelValues(e.Kind, outcome).Inc()
		},
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method string, code int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
