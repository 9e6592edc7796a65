package identity

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/notification"
)

// Handler exposes registration, login and session endpoints.
type Handler struct {
	service  *Service
	notifier notification.Notifier
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, notifier notification.Notifier) *Handler {
	return &Handler{service: service, notifier: notifier}
}

type registerRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
	State     string `json:"state"`
	City      string `json:"city"`
	Pincode   string `json:"pincode"`
}

// Register creates an account and returns a session token.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, token, err := h.service.Register(c.UserContext(), RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
		State:     req.State,
		City:      req.City,
		Pincode:   req.Pincode,
	})
	if err != nil {
		return err
	}
	if h.notifier != nil {
		_ = h.notifier.Send(c.UserContext(), notification.Message{
			Kind:        notification.KindWelcome,
			Destination: user.Email,
			Body:        "Welcome to Netts, " + user.FirstName,
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// Login authenticates a phone+password pair. Authentication failures
// keep the original API's 400 contract rather than the default 401.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	user, token, err := h.service.LoginLocal(c.UserContext(), req.Phone, req.Password)
	if err != nil {
		if apperr.IsKind(err, apperr.KindAuth) {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Session returns the user the bearer token resolves to. The JWT
// middleware has already populated user_id.
func (h *Handler) Session(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return apperr.Auth("invalid or expired token")
	}
	user, err := h.service.Get(c.UserContext(), uid)
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"user": user})
}
