package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/netts-ev/netts-backend/internal/identity"
)

type memoryRepository struct {
	mu       sync.RWMutex
	bookings []PreBooking
	users    identity.Repository
}

// NewMemoryRepository builds an in-memory booking store for testing.
// The identity repository supplies the user join for reporting queries.
func NewMemoryRepository(users identity.Repository) Repository {
	return &memoryRepository{users: users}
}

func (r *memoryRepository) Create(_ context.Context, b PreBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, b)
	return nil
}

func (r *memoryRepository) ListByUser(_ context.Context, userID string) ([]PreBooking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []PreBooking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *memoryRepository) ListAll(ctx context.Context) ([]WithUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.join(ctx, r.bookings, 0)
}

func (r *memoryRepository) ListRecent(ctx context.Context, limit int) ([]WithUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.join(ctx, r.bookings, limit)
}

func (r *memoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.bookings)), nil
}

func (r *memoryRepository) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, b := range r.bookings {
		if !b.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) join(ctx context.Context, bookings []PreBooking, limit int) ([]WithUser, error) {
	sorted := make([]PreBooking, len(bookings))
	copy(sorted, bookings)
	sortNewestFirst(sorted)
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]WithUser, 0, len(sorted))
	for _, b := range sorted {
		w := WithUser{PreBooking: b}
		if user, err := r.users.FindByID(ctx, b.UserID); err == nil {
			w.UserFirstName = user.FirstName
			w.UserLastName = user.LastName
			w.UserEmail = user.Email
		}
		out = append(out, w)
	}
	return out, nil
}

func sortNewestFirst(bookings []PreBooking) {
	sort.Slice(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
}
