package metrics

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func resetHealthChecker() {
	healthChecker = &HealthChecker{
		systems:   make(map[string]*systemHealth),
		watched:   make(map[string]bool),
		startTime: time.Now(),
	}
}

func TestRecordTick_MarksRanSystemsHealthy(t *testing.T) {
	resetHealthChecker()

	RecordTick(1, []string{"gravity", "movement"}, nil)

	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy, got %s", health.Status)
	}
	if health.Systems["gravity"] != "healthy" || health.Systems["movement"] != "healthy" {
		t.Errorf("unexpected system states: %+v", health.Systems)
	}
	if health.Tick != 1 {
		t.Errorf("expected tick 1, got %d", health.Tick)
	}
}

func TestRecordTick_PanickedSystemIsUnhealthy(t *testing.T) {
	resetHealthChecker()

	RecordTick(3, []string{"gravity", "movement"}, []string{"movement"})

	health := GetHealth()
	if health.Status != "unhealthy" {
		t.Errorf("expected unhealthy, got %s", health.Status)
	}
	if health.Systems["gravity"] != "healthy" {
		t.Errorf("gravity should be healthy, got %s", health.Systems["gravity"])
	}
	if health.Systems["movement"] == "healthy" {
		t.Error("movement should not report healthy after panicking")
	}
}

func TestRecordTick_RecoversFromPriorPanic(t *testing.T) {
	resetHealthChecker()

	RecordTick(1, []string{"gravity"}, []string{"gravity"})
	RecordTick(2, []string{"gravity"}, nil)

	health := GetHealth()
	if health.Status != "healthy" {
		t.Errorf("expected healthy after a clean tick, got %s", health.Status)
	}
	if health.Systems["gravity"] != "healthy" {
		t.Errorf("gravity should have recovered, got %s", health.Systems["gravity"])
	}
}

func TestGetReadiness_WatchedSystemNeverRun(t *testing.T) {
	resetHealthChecker()

	WatchSystem("gravity")
	WatchSystem("movement")

	readiness := GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready, got %s", readiness.Status)
	}
	if readiness.Message == "" {
		t.Error("expected a message explaining why not ready")
	}
}

func TestGetReadiness_AllWatchedRan(t *testing.T) {
	resetHealthChecker()

	WatchSystem("gravity")
	WatchSystem("movement")
	RecordTick(1, []string{"gravity", "movement"}, nil)

	readiness := GetReadiness()
	if readiness.Status != "ready" {
		t.Errorf("expected ready, got %s", readiness.Status)
	}
}

func TestGetReadiness_WatchedSystemPanicked(t *testing.T) {
	resetHealthChecker()

	WatchSystem("gravity")
	RecordTick(1, []string{"gravity"}, []string{"gravity"})

	readiness := GetReadiness()
	if readiness.Status != "not_ready" {
		t.Errorf("expected not_ready, got %s", readiness.Status)
	}
}

func TestUnwatchedSystemDoesNotBlockReadiness(t *testing.T) {
	resetHealthChecker()

	WatchSystem("gravity")
	RecordTick(1, []string{"gravity", "tick-counter"}, nil)

	readiness := GetReadiness()
	if readiness.Status != "ready" {
		t.Errorf("unwatched system should not affect readiness, got %s", readiness.Status)
	}
}

func TestHealthHandler(t *testing.T) {
	resetHealthChecker()
	SetVersion("test")
	RecordTick(1, []string{"gravity"}, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	HealthHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var health HealthStatus
	if err := json.NewDecoder(w.Body).Decode(&health); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if health.Version != "test" {
		t.Errorf("expected version 'test', got %s", health.Version)
	}
}

func TestHealthHandler_Unhealthy(t *testing.T) {
	resetHealthChecker()
	RecordTick(1, []string{"gravity"}, []string{"gravity"})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	HealthHandler()(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestReadyHandler_NotReady(t *testing.T) {
	resetHealthChecker()
	WatchSystem("gravity")

	req := httptest.NewRequest("GET", "/readyz", nil)
	w := httptest.NewRecorder()
	ReadyHandler()(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestLivenessHandler(t *testing.T) {
	resetHealthChecker()

	req := httptest.NewRequest("GET", "/livez", nil)
	w := httptest.NewRecorder()
	LivenessHandler()(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "alive" {
		t.Errorf("expected status 'alive', got %q", response["status"])
	}
}
