package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/catalog-api/docs"
	"github.com/99minutos/catalog-api/internal/api/handler"
	"github.com/99minutos/catalog-api/internal/api/middleware"
	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

// Options toggles router behaviour that is configured per deployment.
type Options struct {
	// APIPrefix mounts auth and product routes under a path, e.g. "/api".
	APIPrefix string
	// StaticDir serves files from this directory at "/" when set.
	StaticDir string
	// PublicProductListing drops the Auth gate from GET /products.
	PublicProductListing bool
	// UnifyAuthFailures answers invalid tokens with 401 instead of 403.
	UnifyAuthFailures bool
}

// Dependencies is everything NewRouter wires into the Echo instance.
type Dependencies struct {
	AuthService    ports.AuthService
	ProductService ports.ProductService
	Tokens         ports.TokenVerifier
	// Probes are pinged by GET /health/ready, keyed by dependency name.
	Probes map[string]ports.Pinger
	// Registerer and Gatherer back the HTTP metrics and GET /metrics. They
	// default to the process-wide prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
	Log        zerolog.Logger
	Options    Options
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.ContextLogger(deps.Log))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "catalog",
		Subsystem:                 "http",
		Registerer:                deps.Registerer,
		DoNotUseRequestPathFor404: true,
	}))

	// --- Gates ---
	authGate := middleware.Auth(deps.Tokens, middleware.AuthConfig{UnifyFailures: deps.Options.UnifyAuthFailures})
	authenticated := []echo.MiddlewareFunc{authGate}
	adminOnly := []echo.MiddlewareFunc{authGate, middleware.RequireRole(domain.RoleAdmin)}

	listGates := authenticated
	if deps.Options.PublicProductListing {
		listGates = nil
	}

	routes := e.Group(deps.Options.APIPrefix)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	routes.POST("/auth/register", authHandler.Register)
	routes.POST("/auth/login", authHandler.Login)

	// --- Product routes ---
	productHandler := handler.NewProductHandler(deps.ProductService)
	routes.GET("/products", productHandler.List, listGates...)
	routes.GET("/products/:id", productHandler.Get, authenticated...)
	routes.POST("/products", productHandler.Create, adminOnly...)
	routes.PUT("/products/:id", productHandler.Update, adminOnly...)
	routes.DELETE("/products/:id", productHandler.Delete, adminOnly...)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler(deps.Probes)
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if deps.Options.StaticDir != "" {
		e.Static("/", deps.Options.StaticDir)
	}

	return e
}
