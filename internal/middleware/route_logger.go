package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const requestIDLocal = "request_id"

// RouteLogger tags each request with an id and logs entry/exit with duration.
func RouteLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals(requestIDLocal, requestID)
		c.Set("X-Request-ID", requestID)

		start := time.Now()
		log.Info().Str("request_id", requestID).Str("method", c.Method()).Str("path", c.Path()).Msg("Entering request")
		err := c.Next()
		ms := time.Since(start).Milliseconds()
		log.Info().Str("request_id", requestID).Str("method", c.Method()).Str("path", c.Path()).Int("status", c.Response().StatusCode()).Int64("ms", ms).Msg("Exiting request")
		return err
	}
}

// GetRequestID returns the request id assigned by RouteLogger.
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDLocal).(string)
	return id
}
