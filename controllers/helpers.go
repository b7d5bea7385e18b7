package controller

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrms/middleware"
	"hrms/utils"
)

// currentIdentity returns the caller set by the auth middleware.
func currentIdentity(c *fiber.Ctx) (utils.Identity, error) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		return utils.Identity{}, utils.ErrUnauthenticated
	}
	return identity, nil
}

func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return utils.NewValidationError("Invalid request body")
	}
	return nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}

// optionalEmail normalizes a non-empty email; empty stays empty.
func optionalEmail(email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", nil
	}
	return utils.NormalizeEmail(email)
}

// EntityID is a numeric id in a request body. It also accepts the id as a decimal string.
type EntityID uint

func (id *EntityID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	raw := strings.TrimSpace(strings.Trim(string(data), `"`))
	if raw == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("invalid id %s", data)
	}
	*id = EntityID(n)
	return nil
}
