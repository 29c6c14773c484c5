package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Scheduler metrics
	TicksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ecsrt_ticks_total",
			Help: "Total number of scheduler ticks completed",
		},
	)

	TickDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ecsrt_tick_duration_seconds",
			Help:    "Wall-clock duration of a scheduler tick",
			Buckets: prometheus.DefBuckets,
		},
	)

	SystemDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ecsrt_system_duration_seconds",
			Help:    "Time a single system spent running, by system name",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"system"},
	)

	SystemsExecutedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecsrt_systems_executed_total",
			Help: "Total number of systems dispatched to completion, by name",
		},
		[]string{"system"},
	)

	SystemsPanickedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecsrt_systems_panicked_total",
			Help: "Total number of systems that panicked during Run, by name",
		},
		[]string{"system"},
	)

	DispatchConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ecsrt_dispatch_conflicts_total",
			Help: "Total number of scan iterations that skipped a ready system due to a DepSet conflict",
		},
	)

	SystemsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecsrt_systems_in_flight",
			Help: "Number of systems currently reserved and running in the worker pool",
		},
	)

	// World metrics
	ResourcesRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecsrt_resources_registered",
			Help: "Number of resource types registered in the world",
		},
	)

	ComponentsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ecsrt_components_registered",
			Help: "Number of component storages registered in the world",
		},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal)
	prometheus.MustRegister(TickDuration)
	prometheus.MustRegister(SystemDuration)
	prometheus.MustRegister(SystemsExecutedTotal)
	prometheus.MustRegister(SystemsPanickedTotal)
	prometheus.MustRegister(DispatchConflictsTotal)
	prometheus.MustRegister(SystemsInFlight)
	prometheus.MustRegister(ResourcesRegistered)
	prometheus.MustRegister(ComponentsRegistered)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since timer started
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
