package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hrms/utils"
)

const identityKey = "identity"

// TokenParser verifies a bearer token and returns the identity it carries.
type TokenParser interface {
	Parse(token string) (utils.Identity, error)
}

// Protected rejects requests without a valid bearer token and stores the caller's identity
// for the handlers behind it.
func Protected(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return utils.ErrUnauthenticated
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			return utils.ErrTokenRejected
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// GetIdentity returns the identity stored by Protected.
func GetIdentity(c *fiber.Ctx) (utils.Identity, bool) {
	identity, ok := c.Locals(identityKey).(utils.Identity)
	return identity, ok
}

// SetIdentity stores identity the same way Protected does.
func SetIdentity(c *fiber.Ctx, identity utils.Identity) {
	c.Locals(identityKey, identity)
}
