package middleware

import (
	"log"
	"strconv"
	"time"

	"skillforge/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestID tags every request with an X-Request-ID, reusing the client's if present.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("request_id", id)
		return c.Next()
	}
}

// LoggingMiddleware writes one line per request. colors adds ANSI codes for console output.
func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()
		statusText, methodText := strconv.Itoa(status), method
		if colors {
			statusText = utils.Colorize(utils.StatusColor(status), statusText)
			methodText = utils.Colorize(utils.MethodColor(method), methodText)
		}

		requestID, _ := c.Locals("request_id").(string)
		logger.Printf("%s %s %s %s %s %v user=%d err=%v",
			requestID,
			c.IP(),
			methodText,
			c.Path(),
			statusText,
			time.Since(start),
			utils.CurrentUserID(c),
			err,
		)

		return err
	}
}
