package dealership

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Dealership represents a partner dealership record.
type Dealership struct {
	ID          string    `json:"id"`
	Company     string    `json:"company"`
	Phone       string    `json:"phno"`
	Email       string    `json:"email"`
	Address     string    `json:"address"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Repository persists dealerships.
type Repository interface {
	Create(ctx context.Context, d Dealership) error
}

// PostgresRepository stores dealerships in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a dealership record.
func (r *PostgresRepository) Create(ctx context.Context, d Dealership) error {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO dealerships (id, company, phno, email, address, description, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, d.Company, d.Phone, d.Email, d.Address, d.Description, d.CreatedAt.UTC())
	return err
}

type memoryRepository struct {
	mu          sync.Mutex
	dealerships []Dealership
}

// NewMemoryRepository builds an in-memory dealership store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{}
}

func (r *memoryRepository) Create(_ context.Context, d Dealership) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dealerships = append(r.dealerships, d)
	return nil
}
