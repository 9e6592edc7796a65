package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/dealership"
)

// RegisterDealershipRoutes wires the dealership-creation endpoint.
func RegisterDealershipRoutes(app *fiber.App, h *dealership.Handler) {
	app.Post("/dealership", h.Create)
}
