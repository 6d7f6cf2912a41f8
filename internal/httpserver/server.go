// Package httpserver assembles the Fiber application: middleware,
// observability, the session API, and the embedded UI.
package httpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/voxlate/voxlate/internal/config"
	"github.com/voxlate/voxlate/internal/httpserver/api"
	"github.com/voxlate/voxlate/internal/observability"
	"github.com/voxlate/voxlate/internal/services/transcripts"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	app *fiber.App
	cfg *config.Config
}

// Deps collects everything the server needs to run.
type Deps struct {
	Config        *config.Config
	Service       *transcripts.Service
	Redis         *redis.Client
	Observability *observability.Provider
}

// New constructs a server with baseline middleware ready.
func New(deps Deps) (*Server, error) {
	cfg := deps.Config
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if deps.Service == nil {
		return nil, fmt.Errorf("transcripts service is required")
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ServerHeader:          "voxlated",
		BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		ReadTimeout:           cfg.Server.ReadTimeout,
		IdleTimeout:           cfg.Server.IdleTimeout,
	})

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(recover.New())

	if deps.Observability != nil {
		app.Use(func(c *fiber.Ctx) error {
			start := time.Now()
			err := c.Next()
			route := ""
			if r := c.Route(); r != nil {
				route = r.Path
			}
			if route == "" {
				route = c.Path()
			}
			deps.Observability.RecordHTTPRequest(c.UserContext(), c.Method(), route, c.Response().StatusCode(), time.Since(start))
			return err
		})
	}

	if deps.Observability != nil && deps.Observability.TracerProvider() != nil {
		tracer := otel.Tracer("voxlated/http")
		app.Use(func(c *fiber.Ctx) error {
			spanCtx, span := tracer.Start(c.UserContext(), c.Method()+" "+c.Path())
			c.SetUserContext(spanCtx)
			err := c.Next()
			route := ""
			if r := c.Route(); r != nil {
				route = r.Path
			}
			span.SetAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.route", route),
				attribute.Int("http.status_code", c.Response().StatusCode()),
			)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			} else if status := c.Response().StatusCode(); status >= 500 {
				span.SetStatus(codes.Error, fmt.Sprintf("status %d", status))
			} else {
				span.SetStatus(codes.Ok, "OK")
			}
			span.End()
			return err
		})
	}

	if deps.Observability != nil {
		if handler := deps.Observability.PrometheusHandler(); handler != nil {
			app.Get("/metrics", adaptor.HTTPHandler(handler))
		}
	}

	registerHealthRoutes(app, deps.Redis)
	api.Register(app, cfg, deps.Service, deps.Observability)
	mountEmbeddedUI(app)

	return &Server{app: app, cfg: cfg}, nil
}

// Listen blocks until context cancellation or a fatal listen error occurs.
func (s *Server) Listen(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.app.Listen(s.cfg.Server.ListenAddr)
	}()

	select {
	case <-ctx.Done():
		timeout := s.cfg.Server.GracefulShutdownDelay
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := s.app.ShutdownWithContext(shutdownCtx)
		if err == nil {
			err = <-errCh
		}
		return err
	case err := <-errCh:
		return err
	}
}

func registerHealthRoutes(app *fiber.App, redisClient *redis.Client) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
		defer cancel()

		checks := make(map[string]fiber.Map)
		overall := "ok"

		if redisClient != nil {
			start := time.Now()
			err := redisClient.Ping(ctx).Err()
			latency := time.Since(start)
			check := fiber.Map{
				"status":     "ok",
				"latency_ms": latency.Milliseconds(),
			}
			if err != nil {
				check["status"] = "error"
				check["error"] = err.Error()
				overall = "degraded"
			}
			checks["redis"] = check
		}

		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": overall,
			"checks": checks,
		})
	})
}
