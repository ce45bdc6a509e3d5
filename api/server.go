package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/Aidin1998/calendars/api/responses"
	"github.com/Aidin1998/calendars/common/apiutil"
	"github.com/Aidin1998/calendars/internal/calendars"
	"github.com/Aidin1998/calendars/pkg/errors"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// CalendarService is what the HTTP layer needs from the calendar domain.
type CalendarService interface {
	List(ctx context.Context) ([]calendars.PartialCalendar, error)
	GetByID(ctx context.Context, id int32) (*calendars.Calendar, error)
	GetByName(ctx context.Context, name string) (*calendars.Calendar, error)
	Create(ctx context.Context, in calendars.Input) (*calendars.Calendar, error)
	Update(ctx context.Context, id int32, in calendars.Input) error
	Delete(ctx context.Context, id int32) (*calendars.DeletedCalendar, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

const healthCheckTimeout = 2 * time.Second

// Server represents the API server
type Server struct {
	router         *gin.Engine
	logger         *zap.Logger
	calendars      CalendarService
	serviceName    string
	allowedOrigins []string
	checks         map[string]HealthCheck
}

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins enables CORS for the given origins; "*" allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.allowedOrigins = origins }
}

// WithServiceName names the spans produced for incoming requests.
func WithServiceName(name string) Option {
	return func(s *Server) { s.serviceName = name }
}

// WithHealthCheck adds a named dependency check to GET /health.
func WithHealthCheck(name string, check HealthCheck) Option {
	return func(s *Server) { s.checks[name] = check }
}

// NewServer creates a new API server around the calendar service
func NewServer(logger *zap.Logger, svc CalendarService, opts ...Option) *Server {
	server := &Server{
		logger:      logger,
		calendars:   svc,
		serviceName: "calendars",
		checks:      make(map[string]HealthCheck),
	}
	for _, opt := range opts {
		opt(server)
	}

	apiutil.RegisterJSONTagNames()

	router := gin.New()
	router.Use(apiutil.RequestID())
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))
	router.Use(otelgin.Middleware(server.serviceName))
	router.Use(apiutil.MetricsMiddleware())
	if cfg, ok := corsConfig(server.allowedOrigins); ok {
		router.Use(cors.New(cfg))
	}
	router.NoRoute(func(c *gin.Context) {
		responses.Empty(c, http.StatusNotFound)
	})

	server.router = router
	server.registerRoutes()
	return server
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", apiutil.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", apiutil.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg, true
		}
	}
	cfg.AllowOrigins = origins
	return cfg, true
}

// Router returns the Gin engine, for mounting in an http.Server or for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	cal := s.router.Group("/calendars")
	{
		cal.GET("", s.listCalendars)
		cal.GET("/:id", s.getCalendarByID)
		cal.GET("/name/:name", s.getCalendarByName)
		cal.POST("", s.createCalendar)
		cal.PUT("/:id", s.updateCalendar)
		cal.DELETE("/:id", s.deleteCalendar)
	}
}

// healthCheck runs every registered check; any failure turns the answer into 503.
func (s *Server) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn("health check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": results,
		"time":   time.Now().UTC(),
	})
}

// writeError answers a missing calendar with an empty 404 and anything else
// with a problem body. Server-side failures are logged with their kind and
// cause, neither of which reaches the client.
func (s *Server) writeError(c *gin.Context, err error) {
	e := errors.From(err)
	switch {
	case errors.Is(e, errors.NotFound):
		responses.Empty(c, http.StatusNotFound)
		c.Abort()
		return
	case e.Status() >= http.StatusInternalServerError:
		s.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", apiutil.TraceID(c)),
			zap.String("kind", e.Kind),
			zap.Error(err))
	}
	responses.Problem(c, e)
}
