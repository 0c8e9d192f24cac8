package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the solver metrics. A nil *Registry is valid and records
// nothing, so instrumentation stays optional for library users.
type Registry struct {
	registry *prometheus.Registry

	StepsTotal            prometheus.Counter
	NewtonIterations      prometheus.Histogram
	StepDuration          prometheus.Histogram
	ConvergenceFailures   prometheus.Counter
	ValveTransitionsTotal prometheus.Counter
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.StepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "zerod_steps_total",
			Help: "Total number of accepted time steps",
		},
	)

	r.NewtonIterations = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zerod_newton_iterations",
			Help:    "Newton iterations per accepted time step",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "zerod_step_duration_seconds",
			Help:    "Wall time per accepted time step",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		},
	)

	r.ConvergenceFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "zerod_convergence_failures_total",
			Help: "Total number of fatal Newton convergence failures",
		},
	)

	r.ValveTransitionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "zerod_valve_transitions_total",
			Help: "Total number of discrete valve state transitions",
		},
	)

	return r
}

// Gatherer exposes the underlying registry for scraping.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

func (r *Registry) RecordStep(iterations int, d time.Duration) {
	if r == nil {
		return
	}
	r.StepsTotal.Inc()
	r.NewtonIterations.Observe(float64(iterations))
	r.StepDuration.Observe(d.Seconds())
}

func (r *Registry) RecordConvergenceFailure() {
	if r == nil {
		return
	}
	r.ConvergenceFailures.Inc()
}

func (r *Registry) RecordValveTransitions(n int) {
	if r == nil {
		return
	}
	r.ValveTransitionsTotal.Add(float64(n))
}
