package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sickfits/backend/internal/infrastructure/config"
	"github.com/sickfits/backend/internal/infrastructure/logger"
	"github.com/sickfits/backend/internal/interfaces/http/handler"
	"github.com/sickfits/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds everything needed to assemble the HTTP engine
type EngineConfig struct {
	Logger      *zap.Logger
	ServiceName string
	// Tracing adds otelgin spans; leave false when no tracer is installed
	Tracing bool
	// Meter enables HTTP metrics when non-nil
	Meter    metric.Meter
	HTTP     config.HTTPConfig
	CORS     config.CORSConfig
	Security middleware.SecurityConfig
	Session  middleware.SessionConfig
	Users    middleware.UserFinder
	Health   *handler.HealthHandler
	Handlers Handlers
}

// NewEngine builds the gin engine with the middleware stack in order:
// request id, recovery, tracing, access log, security headers, CORS, body
// limit, metrics; then session resolution for the API group.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(logger.AccessLog(log, "/health"))
	engine.Use(middleware.Secure(cfg.Security))
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}
	if cfg.Meter != nil {
		metricsMW, err := middleware.HTTPMetrics(cfg.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(metricsMW)
	}

	if cfg.Health != nil {
		engine.GET("/health", cfg.Health.Health)
	}

	var authLimit gin.HandlerFunc
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimit = middleware.RateLimit(middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow))
	}

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.SessionResolver(cfg.Session),
		middleware.CurrentUserLoader(cfg.Users, cfg.Session.Cookie, log),
		middleware.SpanEnricher(),
	)
	for _, group := range APIRoutes(cfg.Handlers, authLimit) {
		r.Register(group)
		for _, route := range group.Routes(r.BasePath()) {
			log.Debug("Route registered",
				zap.String("group", group.Name()),
				zap.String("method", route.Method),
				zap.String("path", route.Path),
			)
		}
	}
	r.Setup()

	return engine, nil
}
