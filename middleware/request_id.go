package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"hrms/utils"
)

const headerRequestID = "X-Request-Id"

// RequestID propagates an inbound X-Request-Id or assigns a fresh one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(headerRequestID, id)
		c.Locals(utils.RequestIDKey, id)
		return c.Next()
	}
}

func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(utils.RequestIDKey).(string)
	return id
}
