package auth

import (
	"context"
	"errors"
	"strings"

	"studio_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides data access for employees.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new employee repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const employeeColumns = `id, name, email, phone, password_hash, roles, active, created_at, updated_at`

// GetByEmail looks up an employee by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lower(email) = lower($1)`
	return r.scanOne(ctx, query, strings.TrimSpace(email))
}

// GetByID looks up an employee by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *Repository) scanOne(ctx context.Context, query string, arg any) (*Employee, error) {
	var e Employee
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&e.ID, &e.Name, &e.Email, &e.Phone, &e.PasswordHash,
		&e.Roles, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("employee not found")
		}
		return nil, apperr.Persistence("failed to load employee", err)
	}
	return &e, nil
}
