package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/identity"
	"github.com/netts-ev/netts-backend/internal/oauth"
)

// RegisterAuthRoutes wires the identity and OAuth endpoints under
// /api/auth.
func RegisterAuthRoutes(r fiber.Router, ids *identity.Handler, google *oauth.Handler, jwtmw fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/register", ids.Register)
	group.Post("/login", ids.Login)
	group.Get("/google", google.GoogleLogin)
	group.Get("/google/callback", google.GoogleCallback)
	group.Post("/google-phone-auth", google.GooglePhoneAuth)
	group.Get("/session", jwtmw, ids.Session)
}
