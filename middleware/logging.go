package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/meinhoongagan/bizmatch/logger"
)

// RequestLogging logs one line per request. Errors are rendered here through
// the app error handler so the logged status is the one the client sees.
func RequestLogging(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().Config().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		attrs := []any{
			"request_id", c.Locals("requestid"),
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if user := CurrentUser(c); user != nil {
			attrs = append(attrs, "user_id", user.ID)
		}
		log.Info("HTTP request completed", attrs...)
		return nil
	}
}
