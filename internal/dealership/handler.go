package dealership

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/netts-ev/netts-backend/internal/apperr"
)

// Handler exposes the dealership-creation endpoint.
type Handler struct {
	repo Repository
}

// NewHandler builds a dealership HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type createRequest struct {
	Company     string `json:"company"`
	Phone       string `json:"phno"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Description string `json:"description"`
}

// Create registers a new dealership. Description is optional.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if req.Company == "" || req.Phone == "" || req.Email == "" || req.Address == "" {
		return apperr.Validation("missing required fields")
	}

	d := Dealership{
		ID:          uuid.New().String(),
		Company:     req.Company,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.repo.Create(c.UserContext(), d); err != nil {
		return apperr.Store(err)
	}
	return c.Status(http.StatusCreated).JSON(d)
}
