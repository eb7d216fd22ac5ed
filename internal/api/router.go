package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/animeshelf/animes-api/docs"
	"github.com/animeshelf/animes-api/internal/api/handler"
	"github.com/animeshelf/animes-api/internal/api/middleware"
	"github.com/animeshelf/animes-api/internal/core/domain"
	"github.com/animeshelf/animes-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Logger         zerolog.Logger
	AnimeService   ports.AnimeService
	AuthService    ports.AuthService
	SessionService ports.SessionService
	HealthChecks   map[string]handler.Checker
	// SecureCookies marks the SESSION cookie Secure (set outside development).
	SecureCookies bool
	// Registerer and Gatherer back the HTTP metrics and /metrics. Nil selects
	// the default Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "animes",
		Registerer: registerer,
	}))

	// --- Security: authentication chain, then the ordered access policy ---
	e.Use(middleware.Authenticate(d.Logger,
		middleware.NewSessionAuthenticator(d.SessionService, handler.SessionCookieName),
		middleware.NewBasicAuthenticator(d.AuthService),
		middleware.NewBearerAuthenticator(d.AuthService),
	))
	e.Use(middleware.Authorize(middleware.DefaultPolicy()))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.SessionService, d.SecureCookies)
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.POST("/auth/token", authHandler.Token)

	// --- Animes ---
	animeHandler := handler.NewAnimeHandler(d.AnimeService)
	animes := e.Group("/animes")
	animes.GET("", animeHandler.List)
	animes.GET("/:id", animeHandler.Get)
	animes.POST("", animeHandler.Create)
	animes.POST("/batch", animeHandler.CreateBatch)
	animes.PUT("/:id", animeHandler.Update)
	animes.DELETE("/:id", animeHandler.Delete, middleware.RequireRole(domain.RoleAdmin))

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			switch {
			case v.Status >= 500:
				evt = log.Error().Err(v.Error)
			case v.Status >= 400:
				evt = log.Warn()
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
