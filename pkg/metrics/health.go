package metrics

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// HealthStatus is the JSON body served by HealthHandler and ReadyHandler.
// Status is "healthy"/"degraded"/"unhealthy" for /healthz and
// "ready"/"not_ready" for /readyz; the two handlers share a shape rather
// than a meaning.
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Systems   map[string]string `json:"systems,omitempty"`
	Message   string            `json:"message,omitempty"`
	Version   string            `json:"version,omitempty"`
	Uptime    string            `json:"uptime,omitempty"`
	Tick      uint64            `json:"tick,omitempty"`
	StartTime time.Time         `json:"-"`
}

// systemHealth is what the checker remembers about one scheduled system
// across ticks: the world/component registry in pkg/ecs has no notion of
// "degraded", only registered-or-not, so health here is derived entirely
// from tick outcomes, not from a parallel component registry.
type systemHealth struct {
	lastPanic      string
	panicked       bool
	ranAtLeastOnce bool
	updated        time.Time
}

// HealthChecker aggregates scheduler tick outcomes into the health and
// readiness views served over HTTP. A World never reports itself
// unhealthy on its own (registration either succeeds or panics, per
// pkg/ecs's error taxonomy); the only source of "unhealthy" here is a
// system that panicked during its last tick.
type HealthChecker struct {
	mu        sync.RWMutex
	systems   map[string]*systemHealth
	watched   map[string]bool
	startTime time.Time
	version   string
	lastTick  uint64
}

var healthChecker = &HealthChecker{
	systems:   make(map[string]*systemHealth),
	watched:   make(map[string]bool),
	startTime: time.Now(),
}

// SetVersion sets the version string reported in health responses.
func SetVersion(version string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.version = version
}

// WatchSystem marks name as a system whose absence from a tick's
// completion counts against readiness. Call once per system added to the
// scheduler; a system that is never watched still shows up in
// HealthStatus.Systems once it runs, but its absence doesn't block
// /readyz.
func WatchSystem(name string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()
	healthChecker.watched[name] = true
	if _, ok := healthChecker.systems[name]; !ok {
		healthChecker.systems[name] = &systemHealth{updated: time.Now()}
	}
}

// RecordTick folds one scheduler tick's outcome into the checker's state:
// every system that ran is marked healthy unless its name appears in
// panickedNames, in which case it's marked panicked with the tick number
// recorded.
// Intended to be called from a pkg/ecs.TickObserver.TickCompleted hook
// (see pkg/debugserver's wiring), not from system code directly.
func RecordTick(tick uint64, ranSystems, panickedNames []string) {
	healthChecker.mu.Lock()
	defer healthChecker.mu.Unlock()

	now := time.Now()
	healthChecker.lastTick = tick

	panicked := make(map[string]bool, len(panickedNames))
	for _, name := range panickedNames {
		panicked[name] = true
	}

	for _, name := range ranSystems {
		sh, ok := healthChecker.systems[name]
		if !ok {
			sh = &systemHealth{}
			healthChecker.systems[name] = sh
		}
		sh.ranAtLeastOnce = true
		sh.updated = now
		if panicked[name] {
			sh.panicked = true
			sh.lastPanic = "panicked during tick " + strconv.FormatUint(tick, 10)
		} else {
			sh.panicked = false
			sh.lastPanic = ""
		}
	}
}

// GetHealth returns the overall health status: unhealthy if any observed
// system's last tick panicked, healthy otherwise (including the
// not-yet-ticked case — a fresh scheduler isn't unhealthy, it's just
// idle).
func GetHealth() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := "healthy"
	systems := make(map[string]string, len(healthChecker.systems))

	for name, sh := range healthChecker.systems {
		if sh.panicked {
			status = "unhealthy"
			systems[name] = "unhealthy: " + sh.lastPanic
		} else if sh.ranAtLeastOnce {
			systems[name] = "healthy"
		} else {
			systems[name] = "pending"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Systems:   systems,
		Version:   healthChecker.version,
		Uptime:    time.Since(healthChecker.startTime).String(),
		Tick:      healthChecker.lastTick,
		StartTime: healthChecker.startTime,
	}
}

// GetReadiness reports ready once every watched system has completed at
// least one tick without panicking. A system added via WatchSystem that
// has never run yet (the scheduler hasn't been started, or hasn't reached
// it) holds readiness at not_ready; this mirrors the scheduler's own
// invariant that a system can't be skipped, only delayed by predecessor
// or conflict gating.
func GetReadiness() HealthStatus {
	healthChecker.mu.RLock()
	defer healthChecker.mu.RUnlock()

	status := "ready"
	message := ""
	systems := make(map[string]string, len(healthChecker.watched))

	for name := range healthChecker.watched {
		sh, ok := healthChecker.systems[name]
		switch {
		case !ok || !sh.ranAtLeastOnce:
			status = "not_ready"
			message = "waiting for system " + name + " to complete a tick"
			systems[name] = "not yet run"
		case sh.panicked:
			status = "not_ready"
			message = "system " + name + " panicked"
			systems[name] = "panicked: " + sh.lastPanic
		default:
			systems[name] = "ready"
		}
	}

	return HealthStatus{
		Status:    status,
		Timestamp: time.Now(),
		Systems:   systems,
		Message:   message,
		Version:   healthChecker.version,
		Uptime:    time.Since(healthChecker.startTime).String(),
		Tick:      healthChecker.lastTick,
		StartTime: healthChecker.startTime,
	}
}

// HealthHandler serves /healthz.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := GetHealth()
		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if health.Status == "unhealthy" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(health)
	}
}

// ReadyHandler serves /readyz.
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		readiness := GetReadiness()
		w.Header().Set("Content-Type", "application/json")
		statusCode := http.StatusOK
		if readiness.Status != "ready" {
			statusCode = http.StatusServiceUnavailable
		}
		w.WriteHeader(statusCode)
		_ = json.NewEncoder(w).Encode(readiness)
	}
}

// LivenessHandler serves /livez: 200 as long as the process is up, no
// dependency on tick or system state.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "alive",
			"uptime": time.Since(healthChecker.startTime).String(),
		})
	}
}
