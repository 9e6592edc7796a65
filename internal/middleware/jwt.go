package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/auth"
	"github.com/netts-ev/netts-backend/internal/identity"
)

// JWTAuth returns a middleware that validates bearer tokens and checks
// the subject still exists before letting the request through.
func JWTAuth(tokens *auth.Issuer, repo identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := tokens.Verify(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}
		sub := auth.StringClaim(claims, "id")
		if sub == "" {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}

		if _, err := repo.FindByID(c.UserContext(), sub); err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Locals("user_id", sub)
		return c.Next()
	}
}
