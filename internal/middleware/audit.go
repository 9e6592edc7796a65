package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Audit writes one structured log line per completed request, tagged
// with the id assigned by the RequestID middleware when present.
func Audit(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		attrs := []any{
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("elapsed", time.Since(start)),
		}
		if rid, _ := c.Locals(requestIDHeader).(string); rid != "" {
			attrs = append(attrs, slog.String("request_id", rid))
		}

		if err != nil {
			logger.Error("request failed", append(attrs, slog.Any("error", err))...)
			return err
		}
		logger.Info("request completed", attrs...)
		return nil
	}
}
