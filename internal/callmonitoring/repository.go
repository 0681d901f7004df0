package callmonitoring

import (
	"context"
	"fmt"
	"time"

	"studio_backend/platform/apperr"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ListParams contains parameters for listing call logs.
type ListParams struct {
	CallType *string
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing call logs.
type ListResult struct {
	Items      []CallLog
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides data access for call logs.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new call log repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new call log entry.
func (r *Repository) Create(ctx context.Context, c *CallLog) error {
	query := `
		INSERT INTO call_logs (
			id, client_name, client_phone, employee_id, call_type,
			duration_seconds, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query,
		c.ID, c.ClientName, c.ClientPhone, c.EmployeeID, c.CallType,
		c.DurationSeconds, c.Notes, c.CreatedAt,
	); err != nil {
		return apperr.Persistence("failed to insert call log", err)
	}
	return nil
}

// List retrieves call logs with filtering and pagination, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if params.CallType != nil {
		where += fmt.Sprintf(" AND call_type = $%d", argPos)
		args = append(args, *params.CallType)
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM call_logs "+where, args...).Scan(&total); err != nil {
		return nil, apperr.Persistence("failed to count call logs", err)
	}

	offset := (params.Page - 1) * params.PageSize
	query := fmt.Sprintf(`
		SELECT id, client_name, client_phone, employee_id, call_type,
		       duration_seconds, notes, created_at
		FROM call_logs %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Persistence("failed to list call logs", err)
	}
	defer rows.Close()

	items := []CallLog{}
	for rows.Next() {
		var c CallLog
		if err := rows.Scan(
			&c.ID, &c.ClientName, &c.ClientPhone, &c.EmployeeID, &c.CallType,
			&c.DurationSeconds, &c.Notes, &c.CreatedAt,
		); err != nil {
			return nil, apperr.Persistence("failed to scan call log", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("failed to read call logs", err)
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

// StatsBetween aggregates call activity in the half-open interval [from, to).
func (r *Repository) StatsBetween(ctx context.Context, from, to time.Time) (*BucketStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE call_type = 'incoming'),
			COUNT(*) FILTER (WHERE call_type = 'outgoing'),
			COUNT(*) FILTER (WHERE call_type = 'missed'),
			COALESCE(SUM(duration_seconds), 0),
			COUNT(DISTINCT client_phone)
		FROM call_logs
		WHERE created_at >= $1 AND created_at < $2`

	var stats BucketStats
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(
		&stats.TotalCalls, &stats.Incoming, &stats.Outgoing, &stats.Missed,
		&stats.TotalDurationSecs, &stats.UniqueClients,
	); err != nil {
		return nil, apperr.Persistence("failed to aggregate call stats", err)
	}

	if stats.TotalCalls > 0 {
		stats.AvgDurationSeconds = stats.TotalDurationSecs / stats.TotalCalls
	}
	return &stats, nil
}
