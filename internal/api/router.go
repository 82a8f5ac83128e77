package api

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/qfactory/mes-helper/docs"
	"github.com/qfactory/mes-helper/internal/api/handler"
	"github.com/qfactory/mes-helper/internal/api/middleware"
	"github.com/qfactory/mes-helper/internal/core/ports"
)

// Dependencies are the collaborators the router needs. Mongo is nil when the
// audit trail is disabled.
type Dependencies struct {
	Queries  ports.QueryService
	Sessions func() int
	Mongo    *mongo.Database
	Logger   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
// HTTP metrics go to a registry owned by the router, served together with the
// default registry on /metrics.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	reg := prometheus.NewRegistry()
	promMW, err := echoprometheus.MiddlewareConfig{
		Subsystem:  "mes_helper",
		Registerer: reg,
	}.ToMiddleware()
	if err != nil {
		return nil, fmt.Errorf("prometheus middleware: %w", err)
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.AccessLog(deps.Logger))
	e.Use(promMW)

	// --- Machine surface ---
	gpt := handler.NewGPTHandler(deps.Queries)
	e.GET("/", gpt.Dispatch)
	e.GET("/api/:api", gpt.Dispatch)

	// --- Health probes ---
	health := handler.NewHealthHandler(deps.Mongo, deps.Sessions)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
