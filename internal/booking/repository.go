package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists pre-bookings.
type Repository interface {
	Create(ctx context.Context, b PreBooking) error
	ListByUser(ctx context.Context, userID string) ([]PreBooking, error)
	ListAll(ctx context.Context) ([]WithUser, error)
	ListRecent(ctx context.Context, limit int) ([]WithUser, error)
	Count(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

// PostgresRepository stores pre-bookings in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a pre-booking record.
func (r *PostgresRepository) Create(ctx context.Context, b PreBooking) error {
	bookingID, err := uuid.Parse(b.ID)
	if err != nil {
		return err
	}
	userID, err := uuid.Parse(b.UserID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO pre_bookings (id, user_id, manufacturer, model, battery, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`,
		bookingID, userID, b.Manufacturer, b.Model, b.Battery, b.CreatedAt.UTC())
	return err
}

// ListByUser returns the bookings owned by one user, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]PreBooking, error) {
	owner, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, user_id, manufacturer, model, battery, created_at
        FROM pre_bookings WHERE user_id = $1 ORDER BY created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectBookings(rows)
}

const joinedColumns = `b.id, b.user_id, b.manufacturer, b.model, b.battery, b.created_at,
        u.first_name, u.last_name, COALESCE(u.email, '')`

// ListAll returns every booking joined with its user, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]WithUser, error) {
	rows, err := r.db.Query(ctx, `SELECT `+joinedColumns+`
        FROM pre_bookings b JOIN users u ON u.id = b.user_id ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJoined(rows)
}

// ListRecent returns the most recent bookings joined with their users.
func (r *PostgresRepository) ListRecent(ctx context.Context, limit int) ([]WithUser, error) {
	rows, err := r.db.Query(ctx, `SELECT `+joinedColumns+`
        FROM pre_bookings b JOIN users u ON u.id = b.user_id ORDER BY b.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectJoined(rows)
}

// Count returns the total number of pre-bookings.
func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pre_bookings`).Scan(&n)
	return n, err
}

// CountCreatedSince returns how many bookings were placed at or after
// the given instant.
func (r *PostgresRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM pre_bookings WHERE created_at >= $1`, since.UTC()).Scan(&n)
	return n, err
}

func collectBookings(rows pgx.Rows) ([]PreBooking, error) {
	var out []PreBooking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func collectJoined(rows pgx.Rows) ([]WithUser, error) {
	var out []WithUser
	for rows.Next() {
		var (
			id        uuid.UUID
			userID    uuid.UUID
			createdAt time.Time
			w         WithUser
		)
		err := rows.Scan(&id, &userID, &w.Manufacturer, &w.Model, &w.Battery, &createdAt,
			&w.UserFirstName, &w.UserLastName, &w.UserEmail)
		if err != nil {
			return nil, err
		}
		w.ID = id.String()
		w.UserID = userID.String()
		w.CreatedAt = createdAt.UTC()
		out = append(out, w)
	}
	return out, rows.Err()
}

func scanBooking(rows pgx.Rows) (PreBooking, error) {
	var (
		id        uuid.UUID
		userID    uuid.UUID
		createdAt time.Time
		b         PreBooking
	)
	if err := rows.Scan(&id, &userID, &b.Manufacturer, &b.Model, &b.Battery, &createdAt); err != nil {
		return PreBooking{}, err
	}
	b.ID = id.String()
	b.UserID = userID.String()
	b.CreatedAt = createdAt.UTC()
	return b, nil
}
