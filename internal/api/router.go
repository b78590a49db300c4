package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/michi-labs/catapi/docs"
	"github.com/michi-labs/catapi/internal/api/handler"
	"github.com/michi-labs/catapi/internal/api/middleware"
	"github.com/michi-labs/catapi/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
type Dependencies struct {
	Users   ports.UserService
	Catalog ports.BreedCatalog

	// Mongo is required for readiness; a nil Redis is reported as disabled.
	Mongo handler.Pinger
	Redis handler.Pinger

	// Registry receives the HTTP metrics and backs /metrics. Nil means the
	// default Prometheus registry, where internal/pkg/metrics also lives.
	Registry *prometheus.Registry

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORS())
	e.Use(prometheusMiddleware(deps.Registry))

	// --- Handlers ---
	userHandler := handler.NewUserHandler(deps.Users)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog)

	api := e.Group("/api")

	// --- Catalog routes ---
	api.GET("/breeds", catalogHandler.ListBreeds)
	api.GET("/breeds/search/:q", catalogHandler.SearchBreeds)
	api.GET("/breeds/:breed_id", catalogHandler.GetBreed)
	api.GET("/imagesbybreedid", catalogHandler.ImagesByBreedID)

	// --- Account routes ---
	api.POST("/register", userHandler.Register)
	api.POST("/login", userHandler.Login)
	api.GET("/users", userHandler.List)
	api.GET("/users/:id", userHandler.Get)
	api.PUT("/users/:id", userHandler.Update)
	api.DELETE("/users/:id", userHandler.Delete)

	// --- Health checks ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational ---
	e.GET("/metrics", metricsHandler(deps.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func prometheusMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	if reg == nil {
		return echoprometheus.NewMiddleware("catapi")
	}
	return echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catapi",
		Registerer: reg,
	})
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
