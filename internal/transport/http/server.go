// Package httptransport implements the HTTP surface over the Shell: a
// single POST /v1/tools/call endpoint plus health, metrics, and swagger
// docs, built on github.com/gofiber/fiber/v2 exactly as the teacher's
// internal/api/routes.go builds its router.
package httptransport

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	fiberswagger "github.com/swaggo/fiber-swagger"

	"github.com/gongahkia/lexcore/internal/observability"
	"github.com/gongahkia/lexcore/internal/shell"
)

// Config configures the HTTP transport's optional auth and rate limiting.
type Config struct {
	Auth            AuthConfig
	RateLimitPerMin int
}

// Server wraps a fiber.App exposing the Shell over HTTP, adapted from the
// teacher's internal/api.Server.
type Server struct {
	app     *fiber.App
	shell   *shell.Shell
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewServer builds the fiber app and registers the global middleware
// chain, adapted from the teacher's internal/api.NewServer.
func NewServer(sh *shell.Shell, logger *observability.Logger, metrics *observability.Metrics, cfg Config) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "lexcore",
		ServerHeader: "lexcore",
		ErrorHandler: errorHandler(logger),
	})

	s := &Server{
		app:     app,
		shell:   sh,
		logger:  logger,
		metrics: metrics,
	}

	app.Use(requestID())
	app.Use(requestLogger(logger))
	app.Use(corsMiddleware())
	app.Use(recovery(logger))
	app.Use(metricsMiddleware(metrics))

	if cfg.Auth.Enabled {
		app.Use(jwtAuth(cfg.Auth))
	}
	if cfg.RateLimitPerMin > 0 {
		app.Use(rateLimit(cfg.RateLimitPerMin))
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))

	s.app.Get("/docs/*", fiberswagger.WrapHandler)

	s.app.Post("/v1/tools/call", s.handleToolCall)

	s.app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "resource not found",
			"path":  c.Path(),
		})
	})
}

// App returns the underlying fiber.App, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start begins serving on address (e.g. ":8080").
func (s *Server) Start(address string) error {
	return s.app.Listen(address)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
