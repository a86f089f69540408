package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/iset-tozeur/library-backend/docs" // Swagger docs
	"github.com/iset-tozeur/library-backend/internal/api/handler"
	"github.com/iset-tozeur/library-backend/internal/api/httperr"
	"github.com/iset-tozeur/library-backend/internal/api/middleware"
	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer needs. HealthChecks may be
// empty; LoginRatePerMinute <= 0 disables the per-IP login limiter.
type Dependencies struct {
	AuthService        ports.AuthService
	StudentService     ports.StudentService
	Tokens             ports.TokenValidator
	HealthChecks       map[string]handler.HealthCheck
	LoginRatePerMinute int
	Logger             zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = httperr.NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: func() string { return ulid.Make().String() },
	}))
	e.Use(middleware.RequestLogger(deps.Logger))

	// Each router gets its own registry for the HTTP metrics so several
	// routers can coexist in one process (tests).
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "library",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	// --- Public routes ---
	healthHandler := handler.NewHealthHandler(deps.HealthChecks)
	e.GET("/", handler.Welcome)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	authn := middleware.Authenticate(deps.Tokens, deps.Logger)
	loginLimit := middleware.RateLimitPerIP(deps.LoginRatePerMinute)

	e.POST("/api/auth/login", authHandler.Login, loginLimit)
	e.POST("/login", authHandler.Login, loginLimit)
	e.GET("/api/auth/me", authHandler.Me, authn)

	// --- Student routes (authenticated) ---
	studentHandler := handler.NewStudentHandler(deps.StudentService)
	anyRole := middleware.RequireRole(domain.RoleAdmin, domain.RoleStudent)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	students := e.Group("/api/students", authn)
	students.GET("", studentHandler.List, anyRole)
	students.GET("/:id", studentHandler.Get, anyRole)
	students.POST("", studentHandler.Create, adminOnly)
	students.PUT("/:id", studentHandler.Update, adminOnly)
	students.DELETE("/:id", studentHandler.Delete, adminOnly)

	return e
}
