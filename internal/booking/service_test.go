package booking

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/netts-ev/netts-backend/internal/apperr"
	"github.com/netts-ev/netts-backend/internal/identity"
)

func TestCreateAndListMine(t *testing.T) {
	users := identity.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(users))
	ctx := context.Background()

	owner := uuid.New().String()

	b, err := svc.Create(ctx, CreateInput{
		UserID:       owner,
		Manufacturer: "Ather",
		Model:        "450X",
		Battery:      "3.7kWh",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.UserID != owner {
		t.Fatalf("booking owner %s, want %s", b.UserID, owner)
	}

	mine, err := svc.ListMine(ctx, owner)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != b.ID {
		t.Fatalf("unexpected bookings %+v", mine)
	}

	other, err := svc.ListMine(ctx, uuid.New().String())
	if err != nil {
		t.Fatalf("list other: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no bookings for another user, got %d", len(other))
	}
}

func TestCreateValidation(t *testing.T) {
	users := identity.NewMemoryRepository()
	svc := NewService(NewMemoryRepository(users))
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{UserID: "not-a-uuid", Manufacturer: "X", Model: "Y", Battery: "Z"}); !apperr.IsKind(err, apperr.KindAuth) {
		t.Fatalf("expected auth error for bad subject, got %v", err)
	}

	if _, err := svc.Create(ctx, CreateInput{UserID: uuid.New().String(), Manufacturer: "X"}); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
