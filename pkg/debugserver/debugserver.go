// Package debugserver exposes a read-only HTTP introspection surface over
// a running World and Scheduler: health/readiness/liveness, Prometheus
// metrics, and a JSON dump of registered resource/component names. It
// never mutates the world it serves.
package debugserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/parallex/ecsrt/pkg/ecs"
	"github.com/parallex/ecsrt/pkg/log"
	"github.com/parallex/ecsrt/pkg/metrics"
)

// WorldDump is the /debug/world response body.
type WorldDump struct {
	Resources  []string `json:"resources"`
	Components []string `json:"components"`
}

// Server wraps a gin.Engine serving introspection endpoints for world.
type Server struct {
	engine *gin.Engine
	world  *ecs.World
}

// New builds a Server for world. gin runs in release mode; this package
// has no interactive debug surface of its own.
func New(world *ecs.World) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, world: world}
	s.routes()
	return s
}

// ObserveScheduler registers the server's health bookkeeping as sched's
// TickObserver, and marks every name in systemNames as watched for
// readiness. Call once, after every system has been added to sched.
func (s *Server) ObserveScheduler(sched *ecs.Scheduler, systemNames []string) {
	for _, name := range systemNames {
		metrics.WatchSystem(name)
	}
	sched.SetObserver(tickHealthObserver{})
}

// tickHealthObserver forwards scheduler tick outcomes into pkg/metrics'
// health checker so /healthz and /readyz reflect live system state
// instead of the hand-set "seeded"/"running" flags a caller would
// otherwise have to maintain itself.
type tickHealthObserver struct{}

func (tickHealthObserver) TickCompleted(summary ecs.TickSummary) {
	metrics.RecordTick(summary.Tick, summary.Ran, summary.PanickedNames)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", adapt(metrics.HealthHandler()))
	s.engine.GET("/readyz", adapt(metrics.ReadyHandler()))
	s.engine.GET("/livez", adapt(metrics.LivenessHandler()))
	s.engine.GET("/metrics", adapt(metrics.Handler().ServeHTTP))
	s.engine.GET("/debug/world", s.handleWorldDump)
}

func (s *Server) handleWorldDump(c *gin.Context) {
	c.JSON(http.StatusOK, WorldDump{
		Resources:  s.world.ResourceNames(),
		Components: s.world.ComponentNames(),
	})
}

// adapt lets a plain net/http handler serve a gin route without wrapping
// its body in gin's own response helpers, since metrics.Handler and the
// health family already write their own status codes and bodies.
func adapt(h http.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		h(c.Writer, c.Request)
	}
}

// ListenAndServe starts the HTTP server on addr. It blocks until the
// server stops or errors.
func (s *Server) ListenAndServe(addr string) error {
	log.WithComponent("debugserver").Info().Str("addr", addr).Msg("listening")
	return http.ListenAndServe(addr, s.engine)
}

// Handler returns the underlying http.Handler, for embedding in another
// server or for tests via httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}
