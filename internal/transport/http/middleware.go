package httptransport

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/gongahkia/lexcore/internal/observability"
)

// requestID adds a unique request ID to each request, adapted from the
// teacher's internal/api/middleware.RequestID.
func requestID() fiber.Handler {
	return requestid.New(requestid.Config{Header: "X-Request-ID"})
}

// requestLogger logs each request through a zerolog Logger, adapted from
// the teacher's internal/api/middleware.Logger.
func requestLogger(log *observability.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		duration := time.Since(start)
		log.WithFields(map[string]interface{}{
			"request_id": c.GetRespHeader("X-Request-ID"),
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     c.Response().StatusCode(),
			"duration_ms": duration.Milliseconds(),
		}).Infof("%s %s %d %dms", c.Method(), c.Path(), c.Response().StatusCode(), duration.Milliseconds())

		return err
	}
}

// corsMiddleware allows cross-origin tool-call clients, adapted from the
// teacher's internal/api/middleware.CORS.
func corsMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
		MaxAge:       300,
	})
}

// recovery converts handler panics into a 500 response, adapted from the
// teacher's internal/api/middleware.Recovery.
func recovery(log *observability.Logger) fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.WithField("panic", e).Error("panic recovered in HTTP transport")
		},
	})
}

// metricsMiddleware records per-request Prometheus metrics, adapted from
// the teacher's internal/api/middleware.Metrics.
func metricsMiddleware(metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		err := c.Next()

		metrics.RecordHTTPRequest(c.Method(), c.Route().Path, fiber.StatusMessage(c.Response().StatusCode()), time.Since(start))
		return err
	}
}

// errorHandler renders an unhandled error as a JSON body, adapted from
// the teacher's internal/api/middleware.ErrorHandler.
func errorHandler(log *observability.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}

		log.WithFields(map[string]interface{}{
			"request_id": c.GetRespHeader("X-Request-ID"),
			"path":       c.Path(),
			"error":      err.Error(),
		}).Error(message)

		return c.Status(code).JSON(fiber.Map{
			"error":      message,
			"request_id": c.GetRespHeader("X-Request-ID"),
		})
	}
}
