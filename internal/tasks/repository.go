package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskNotFoundMsg = "task not found"

// ListParams contains parameters for listing tasks.
type ListParams struct {
	AssignedTo *uuid.UUID
	Status     *string
	TaskType   *string
	Page       int
	PageSize   int
}

// ListResult contains the paginated result of listing tasks.
type ListResult struct {
	Items      []Task
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides data access for tasks.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new tasks repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new task.
func (r *Repository) Create(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (
			id, title, description, task_type, priority, status,
			assigned_to, quotation_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if _, err := r.pool.Exec(ctx, query,
		t.ID, t.Title, t.Description, t.TaskType, t.Priority, t.Status,
		t.AssignedTo, t.QuotationID, t.CreatedAt, t.UpdatedAt,
	); err != nil {
		return apperr.Persistence("failed to insert task", err)
	}
	return nil
}

// GetByID loads a single task.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	query := `
		SELECT id, title, description, task_type, priority, status,
		       assigned_to, quotation_id, created_at, updated_at, completed_at
		FROM tasks
		WHERE id = $1`

	var t Task
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.TaskType, &t.Priority, &t.Status,
		&t.AssignedTo, &t.QuotationID, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(taskNotFoundMsg)
		}
		return nil, apperr.Persistence("failed to load task", err)
	}
	return &t, nil
}

// List retrieves tasks with filtering and pagination, highest priority and
// newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if params.AssignedTo != nil {
		where += fmt.Sprintf(" AND assigned_to = $%d", argPos)
		args = append(args, *params.AssignedTo)
		argPos++
	}
	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *params.Status)
		argPos++
	}
	if params.TaskType != nil {
		where += fmt.Sprintf(" AND task_type = $%d", argPos)
		args = append(args, *params.TaskType)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tasks "+where, args...).Scan(&total); err != nil {
		return nil, apperr.Persistence("failed to count tasks", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`
		SELECT id, title, description, task_type, priority, status,
		       assigned_to, quotation_id, created_at, updated_at, completed_at
		FROM tasks %s
		ORDER BY CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("failed to list tasks", err)
	}
	defer rows.Close()

	items := []Task{}
	for rows.Next() {
		var t Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.TaskType, &t.Priority, &t.Status,
			&t.AssignedTo, &t.QuotationID, &t.CreatedAt, &t.UpdatedAt, &t.CompletedAt,
		); err != nil {
			return nil, apperr.Persistence("failed to scan task", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("failed to read tasks", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateStatus moves a task to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, completedAt *time.Time) error {
	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2, updated_at = $3
		WHERE id = $4`

	tag, err := r.pool.Exec(ctx, query, status, completedAt, time.Now(), id)
	if err != nil {
		return apperr.Persistence("failed to update task status", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(taskNotFoundMsg)
	}
	return nil
}

// CompleteRevisionTasks marks all open revision tasks for a quotation as
// completed. Returns the number of tasks closed.
func (r *Repository) CompleteRevisionTasks(ctx context.Context, quotationID uuid.UUID) (int, error) {
	now := time.Now()
	query := `
		UPDATE tasks
		SET status = $1, completed_at = $2, updated_at = $2
		WHERE quotation_id = $3 AND task_type = $4 AND status <> $1`

	tag, err := r.pool.Exec(ctx, query, StatusCompleted, now, quotationID, TypeQuotationRevision)
	if err != nil {
		return 0, apperr.Persistence("failed to complete revision tasks", err)
	}
	return int(tag.RowsAffected()), nil
}
