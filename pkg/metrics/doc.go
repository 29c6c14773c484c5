/*
Package metrics exposes Prometheus instrumentation for the ECS runtime:
tick counts and durations, per-system execution time, dispatch conflicts
observed by the scheduler's conflict gate, and world registration gauges.

	timer := metrics.NewTimer()
	// ... run a tick ...
	timer.ObserveDuration(metrics.TickDuration)
	metrics.TicksTotal.Inc()

Handler returns the promhttp handler mounted by pkg/debugserver at
/metrics. HealthHandler/ReadyHandler/LivenessHandler back the same
server's /healthz family and are independent of Prometheus.
*/
package metrics
