package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/config"
	"github.com/netts-ev/netts-backend/internal/routes"
)

// Server wraps the Fiber application and shared dependencies.
type Server struct {
	app   *fiber.App
	cfg   config.Config
	db    *pgxpool.Pool
	cache *redis.Client
}

// New instantiates the HTTP server and delegates route wiring to
// routes.Setup. The error handler is the single place application
// errors become status/body pairs.
func New(cfg config.Config, db *pgxpool.Pool, cache *redis.Client, logger *slog.Logger) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: newErrorHandler(logger),
	})

	if err := routes.Setup(app, routes.Deps{Cfg: cfg, DB: db, Cache: cache, Logger: logger}); err != nil {
		return nil, err
	}

	return &Server{app: app, cfg: cfg, db: db, cache: cache}, nil
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// newErrorHandler maps the error taxonomy onto HTTP responses. Store
// failures are logged with detail but the response body withholds
// internals.
func newErrorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			switch appErr.Kind {
			case apperr.KindValidation, apperr.KindConflict:
				return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindAuth:
				return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": appErr.Message})
			case apperr.KindConfig:
				logger.Error("configuration error", slog.String("path", c.Path()), slog.String("error", appErr.Message))
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"message": appErr.Message})
			case apperr.KindStore:
				logger.Error("store error", slog.String("path", c.Path()), slog.Any("error", appErr.Unwrap()))
				return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": appErr.Message})
			}
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error("unhandled error", slog.String("path", c.Path()), slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
	}
}
