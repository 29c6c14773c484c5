package debugserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/parallex/ecsrt/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget int

func TestHandleWorldDump_ListsRegisteredTypes(t *testing.T) {
	world := ecs.NewWorld()
	ecs.RegisterComponent[widget](world)
	ecs.Insert[int](world, 0)

	srv := New(world)

	req := httptest.NewRequest(http.MethodGet, "/debug/world", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dump WorldDump
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dump))
	require.Len(t, dump.Components, 1)
	require.Len(t, dump.Resources, 1)
	assert.Contains(t, dump.Components[0], "widget")
}

func TestHealthzEndpoint(t *testing.T) {
	world := ecs.NewWorld()
	srv := New(world)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMetricsEndpointServesPrometheusText(t *testing.T) {
	world := ecs.NewWorld()
	srv := New(world)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
