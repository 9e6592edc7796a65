package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/booking"
)

// RegisterBookingRoutes wires pre-booking endpoints under /api/booking.
// All of them require a valid bearer token.
func RegisterBookingRoutes(r fiber.Router, h *booking.Handler, jwtmw fiber.Handler) {
	group := r.Group("/booking", jwtmw)
	group.Post("/", h.Create)
	group.Get("/", h.ListMine)
}
