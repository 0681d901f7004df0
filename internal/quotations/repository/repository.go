package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio_backend/internal/quotations/domain"
	"studio_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const quotationNotFoundMsg = "quotation not found"

// ListParams contains parameters for listing quotations
type ListParams struct {
	Status       *string
	SalesOwnerID *uuid.UUID
	Search       string
	Page         int
	PageSize     int
}

// ListResult contains the paginated result of listing quotations
type ListResult struct {
	Items      []domain.Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for quotations
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotations repository
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// NextQuotationNumber atomically generates the next quotation number.
func (r *Repository) NextQuotationNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()

	var nextNum int
	query := `
		INSERT INTO quotation_counters (year, last_number)
		VALUES ($1, 1)
		ON CONFLICT (year) DO UPDATE SET last_number = quotation_counters.last_number + 1
		RETURNING last_number`

	if err := r.pool.QueryRow(ctx, query, year).Scan(&nextNum); err != nil {
		return "", apperr.Persistence("failed to generate quotation number", err)
	}

	return fmt.Sprintf("QT-%d-%04d", year, nextNum), nil
}

// Create inserts a new quotation header. Any actions already present on
// the aggregate are inserted alongside it.
func (r *Repository) Create(ctx context.Context, q *domain.Quotation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Persistence("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO quotations (
			id, quotation_number, client_name, client_phone, event_type,
			sales_owner_id, amount, status, revision_count, rejection_remarks,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	if _, err := tx.Exec(ctx, query,
		q.ID, q.QuotationNumber, q.ClientName, q.ClientPhone, q.EventType,
		q.SalesOwnerID, q.Amount, string(q.Status), q.RevisionCount, q.RejectionRemarks,
		q.CreatedAt, q.UpdatedAt,
	); err != nil {
		return apperr.Persistence("failed to insert quotation", err)
	}

	for i := range q.Actions {
		if err := insertAction(ctx, tx, q.ID, &q.Actions[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Persistence("failed to commit quotation", err)
	}
	return nil
}

// GetByID loads a quotation with its full action log, ordered chronologically.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	query := `
		SELECT id, quotation_number, client_name, client_phone, event_type,
		       sales_owner_id, amount, status, revision_count, rejection_remarks,
		       created_at, updated_at
		FROM quotations
		WHERE id = $1`

	var q domain.Quotation
	var status string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.QuotationNumber, &q.ClientName, &q.ClientPhone, &q.EventType,
		&q.SalesOwnerID, &q.Amount, &status, &q.RevisionCount, &q.RejectionRemarks,
		&q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quotationNotFoundMsg)
		}
		return nil, apperr.Persistence("failed to load quotation", err)
	}
	q.Status = domain.Status(status)

	actions, err := r.getActions(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Actions = actions

	return &q, nil
}

// List retrieves quotation headers with filtering and pagination. Action
// logs are not loaded; use GetByID for the full aggregate.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argPos := 1

	if params.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argPos)
		args = append(args, *params.Status)
		argPos++
	}
	if params.SalesOwnerID != nil {
		where += fmt.Sprintf(" AND sales_owner_id = $%d", argPos)
		args = append(args, *params.SalesOwnerID)
		argPos++
	}
	if params.Search != "" {
		where += fmt.Sprintf(" AND (client_name ILIKE $%d OR quotation_number ILIKE $%d)", argPos, argPos)
		args = append(args, "%"+params.Search+"%")
		argPos++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM quotations " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, apperr.Persistence("failed to count quotations", err)
	}

	offset := (params.Page - 1) * params.PageSize
	listQuery := fmt.Sprintf(`
		SELECT id, quotation_number, client_name, client_phone, event_type,
		       sales_owner_id, amount, status, revision_count, rejection_remarks,
		       created_at, updated_at
		FROM quotations %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argPos, argPos+1)
	args = append(args, params.PageSize, offset)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, apperr.Persistence("failed to list quotations", err)
	}
	defer rows.Close()

	items := []domain.Quotation{}
	for rows.Next() {
		var q domain.Quotation
		var status string
		if err := rows.Scan(
			&q.ID, &q.QuotationNumber, &q.ClientName, &q.ClientPhone, &q.EventType,
			&q.SalesOwnerID, &q.Amount, &status, &q.RevisionCount, &q.RejectionRemarks,
			&q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, apperr.Persistence("failed to scan quotation", err)
		}
		q.Status = domain.Status(status)
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("failed to read quotations", err)
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

// SaveTransition durably records a status transition and its audit entry
// in one transaction. The UPDATE carries the expected source status as a
// precondition: when two users race on the same quotation, the second
// write finds zero matching rows and fails instead of silently clobbering
// the first.
func (r *Repository) SaveTransition(ctx context.Context, q *domain.Quotation, expected domain.Status, action *domain.Action) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return apperr.Persistence("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE quotations
		SET status = $1, amount = $2, revision_count = $3, rejection_remarks = $4, updated_at = $5
		WHERE id = $6 AND status = $7`

	tag, err := tx.Exec(ctx, query,
		string(q.Status), q.Amount, q.RevisionCount, q.RejectionRemarks, q.UpdatedAt,
		q.ID, string(expected),
	)
	if err != nil {
		return apperr.Persistence("failed to update quotation", err)
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM quotations WHERE id = $1)`, q.ID).Scan(&exists); err != nil {
			return apperr.Persistence("failed to verify quotation", err)
		}
		if !exists {
			return apperr.NotFound(quotationNotFoundMsg)
		}
		return apperr.InvalidTransition("quotation was updated by someone else, reload and retry")
	}

	if action != nil {
		if err := insertAction(ctx, tx, q.ID, action); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return apperr.Persistence("failed to commit transition", err)
	}
	return nil
}

func (r *Repository) getActions(ctx context.Context, quotationID uuid.UUID) ([]domain.Action, error) {
	query := `
		SELECT id, action_type, status, message, actor, created_at
		FROM quotation_actions
		WHERE quotation_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, apperr.Persistence("failed to load quotation actions", err)
	}
	defer rows.Close()

	actions := []domain.Action{}
	for rows.Next() {
		var a domain.Action
		var actionType, status string
		if err := rows.Scan(&a.ID, &actionType, &status, &a.Message, &a.Actor, &a.Timestamp); err != nil {
			return nil, apperr.Persistence("failed to scan quotation action", err)
		}
		a.Type = domain.ActionType(actionType)
		a.Status = domain.Status(status)
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Persistence("failed to read quotation actions", err)
	}

	return actions, nil
}

func insertAction(ctx context.Context, tx pgx.Tx, quotationID uuid.UUID, action *domain.Action) error {
	query := `
		INSERT INTO quotation_actions (id, quotation_id, action_type, status, message, actor, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := tx.Exec(ctx, query,
		action.ID, quotationID, string(action.Type), string(action.Status),
		action.Message, action.Actor, action.Timestamp,
	); err != nil {
		return apperr.Persistence("failed to insert quotation action", err)
	}
	return nil
}
