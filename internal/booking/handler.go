package booking

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/notification"
)

// Handler exposes pre-booking HTTP endpoints. Both routes sit behind
// the JWT middleware; the decoded subject becomes the booking owner.
type Handler struct {
	service  *Service
	notifier notification.Notifier
}

// NewHandler builds a booking HTTP handler.
func NewHandler(service *Service, notifier notification.Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

type createRequest struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
	Battery      string `json:"battery"`
}

// Create places a pre-booking for the authenticated user.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	uid, _ := c.Locals("user_id").(string)
	b, err := h.service.Create(c.UserContext(), CreateInput{
		UserID:       uid,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
		Battery:      req.Battery,
	})
	if err != nil {
		return err
	}
	if h.notifier != nil {
		_ = h.notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindBookingPlaced,
			Destination: b.UserID,
			Body:        "Pre-booking received for " + b.Manufacturer + " " + b.Model,
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Booking created successfully",
		"booking": b,
	})
}

// ListMine returns the authenticated user's pre-bookings.
func (h *Handler) ListMine(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	bookings, err := h.service.ListMine(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"bookings": bookings})
}
