// Package metrics instruments the hierarchical scheduler with Prometheus
// collectors, following the teacher's own-registry, promhttp.HandlerFor
// pattern.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SchedulerMetrics exposes Prometheus instrumentation for phase solves.
type SchedulerMetrics struct {
	registry          *prometheus.Registry
	handler           http.Handler
	phaseDuration     *prometheus.HistogramVec
	phaseAttempts     *prometheus.HistogramVec
	phaseInfeasible   *prometheus.CounterVec
	runsTotal         prometheus.Counter
	runsFailed        prometheus.Counter
	relaxedLunchCount prometheus.Counter
}

// New registers the scheduler's Prometheus collectors.
func New() *SchedulerMetrics {
	registry := prometheus.NewRegistry()

	phaseDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_phase_duration_seconds",
		Help:    "Duration of a single phase solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"phase"})

	phaseAttempts := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scheduler_phase_search_attempts",
		Help:    "Number of randomized-restart attempts a phase solve needed",
		Buckets: prometheus.LinearBuckets(1, 4, 10),
	}, []string{"phase"})

	phaseInfeasible := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_phase_infeasible_total",
		Help: "Count of phases that returned infeasible",
	}, []string{"phase"})

	runsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_runs_total",
		Help: "Total orchestrator runs started",
	})

	runsFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_runs_failed_total",
		Help: "Total orchestrator runs that ended FAILED",
	})

	relaxedLunchCount := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_relaxed_lunch_sessions_total",
		Help: "Sessions placed using a lunch-relaxed start slot",
	})

	registry.MustRegister(phaseDuration, phaseAttempts, phaseInfeasible, runsTotal, runsFailed, relaxedLunchCount)

	return &SchedulerMetrics{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		phaseDuration:     phaseDuration,
		phaseAttempts:     phaseAttempts,
		phaseInfeasible:   phaseInfeasible,
		runsTotal:         runsTotal,
		runsFailed:        runsFailed,
		relaxedLunchCount: relaxedLunchCount,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *SchedulerMetrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

func (m *SchedulerMetrics) ObservePhase(phase string, seconds float64, attempts int) {
	if m == nil {
		return
	}
	m.phaseDuration.WithLabelValues(phase).Observe(seconds)
	m.phaseAttempts.WithLabelValues(phase).Observe(float64(attempts))
}

func (m *SchedulerMetrics) IncPhaseInfeasible(phase string) {
	if m == nil {
		return
	}
	m.phaseInfeasible.WithLabelValues(phase).Inc()
}

func (m *SchedulerMetrics) IncRunStarted() {
	if m == nil {
		return
	}
	m.runsTotal.Inc()
}

func (m *SchedulerMetrics) IncRunFailed() {
	if m == nil {
		return
	}
	m.runsFailed.Inc()
}

func (m *SchedulerMetrics) IncRelaxedLunch() {
	if m == nil {
		return
	}
	m.relaxedLunchCount.Inc()
}
