// Package tasks provides the internal work-item module. Rejected
// quotations automatically create revision tasks for their sales owner.
package tasks

import (
	"time"

	"github.com/google/uuid"
)

// Task types.
const (
	TypeGeneral           = "general"
	TypeQuotationRevision = "quotation_revision"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Task is a work item assigned to an employee.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	TaskType    string
	Priority    string
	Status      string
	AssignedTo  uuid.UUID
	QuotationID *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateTaskRequest is the request body for creating a task.
type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=300"`
	Description string    `json:"description" validate:"omitempty,max=2000"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	AssignedTo  uuid.UUID `json:"assignedTo" validate:"required"`
}

// UpdateTaskStatusRequest is the request body for moving a task between statuses.
type UpdateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_progress completed"`
}

// ListTasksRequest defines the query parameters for listing tasks.
type ListTasksRequest struct {
	AssignedTo string `form:"assignedTo" validate:"omitempty,uuid"`
	Status     string `form:"status" validate:"omitempty,oneof=pending in_progress completed"`
	TaskType   string `form:"taskType" validate:"omitempty,oneof=general quotation_revision"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// TaskResponse is the API representation of a task.
type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	TaskType    string     `json:"taskType"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  uuid.UUID  `json:"assignedTo"`
	QuotationID *uuid.UUID `json:"quotationId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// TaskListResponse is the paginated list representation.
type TaskListResponse struct {
	Items      []TaskResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

func toResponse(t *Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		TaskType:    t.TaskType,
		Priority:    t.Priority,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		QuotationID: t.QuotationID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}
