package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/netts-ev/netts-backend/internal/apperr"
)

// Service exposes pre-booking operations.
type Service struct {
	repo Repository
}

// NewService builds a booking service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures data required to place a pre-booking.
type CreateInput struct {
	UserID       string
	Manufacturer string
	Model        string
	Battery      string
}

// Create validates and persists a pre-booking for the given user.
func (s *Service) Create(ctx context.Context, in CreateInput) (PreBooking, error) {
	if _, err := uuid.Parse(in.UserID); err != nil {
		return PreBooking{}, apperr.Auth("invalid or expired token")
	}
	if in.Manufacturer == "" || in.Model == "" || in.Battery == "" {
		return PreBooking{}, apperr.Validation("missing required fields")
	}

	b := PreBooking{
		ID:           uuid.New().String(),
		UserID:       in.UserID,
		Manufacturer: in.Manufacturer,
		Model:        in.Model,
		Battery:      in.Battery,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return PreBooking{}, apperr.Store(err)
	}
	return b, nil
}

// ListMine returns the caller's pre-bookings.
func (s *Service) ListMine(ctx context.Context, userID string) ([]PreBooking, error) {
	bookings, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Store(err)
	}
	return bookings, nil
}
