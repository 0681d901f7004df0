package tasks

import (
	"context"
	"fmt"
	"time"

	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

// Store is the persistence port for tasks; tests substitute a fake.
type Store interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*Task, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, completedAt *time.Time) error
	CompleteRevisionTasks(ctx context.Context, quotationID uuid.UUID) (int, error)
}

// Service provides business logic for tasks.
type Service struct {
	store Store
	bus   events.Bus // optional, nil means no event publishing
	log   *logger.Logger
}

// NewService creates a new tasks service.
func NewService(store Store, bus events.Bus, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, log: log}
}

// Create registers a new general task.
func (s *Service) Create(ctx context.Context, req CreateTaskRequest) (*TaskResponse, error) {
	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	now := time.Now()
	task := &Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		TaskType:    TypeGeneral,
		Priority:    priority,
		Status:      StatusPending,
		AssignedTo:  req.AssignedTo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, task); err != nil {
		return nil, err
	}
	s.publishCreated(ctx, task)

	resp := toResponse(task)
	return &resp, nil
}

// List retrieves tasks with filtering and pagination.
func (s *Service) List(ctx context.Context, req ListTasksRequest) (*TaskListResponse, error) {
	params := ListParams{
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	if req.AssignedTo != "" {
		parsed, err := uuid.Parse(req.AssignedTo)
		if err != nil {
			return nil, apperr.BadRequest("invalid assignedTo format")
		}
		params.AssignedTo = &parsed
	}
	if req.Status != "" {
		params.Status = &req.Status
	}
	if req.TaskType != "" {
		params.TaskType = &req.TaskType
	}

	result, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]TaskResponse, len(result.Items))
	for i := range result.Items {
		items[i] = toResponse(&result.Items[i])
	}

	return &TaskListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// UpdateStatus moves a task to a new status. Completed tasks stay completed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req UpdateTaskStatusRequest) (*TaskResponse, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if task.Status == StatusCompleted && req.Status != StatusCompleted {
		return nil, apperr.InvalidTransition("completed tasks cannot be reopened")
	}

	var completedAt *time.Time
	if req.Status == StatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	if err := s.store.UpdateStatus(ctx, id, req.Status, completedAt); err != nil {
		return nil, err
	}

	task.Status = req.Status
	task.CompletedAt = completedAt
	task.UpdatedAt = time.Now()

	resp := toResponse(task)
	return &resp, nil
}

func clampPageSize(size int) int {
	if size < 1 {
		return 20
	}
	if size > 100 {
		return 100
	}
	return size
}

// publishCreated announces a persisted task on the event bus.
func (s *Service) publishCreated(ctx context.Context, task *Task) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(ctx, events.TaskCreated{
		BaseEvent:   events.NewBaseEvent(),
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		TaskType:    task.TaskType,
		Priority:    task.Priority,
		AssignedTo:  task.AssignedTo,
	})
}

// RegisterHandlers subscribes the module to quotation workflow events.
func (s *Service) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuotationRejected{}.EventName(), events.HandlerFunc(s.onQuotationRejected))
	bus.Subscribe(events.QuotationRevised{}.EventName(), events.HandlerFunc(s.onQuotationRevised))
}

// onQuotationRejected creates a high-priority revision task for the sales
// owner of the rejected quotation.
func (s *Service) onQuotationRejected(ctx context.Context, event events.Event) error {
	rejected, ok := event.(events.QuotationRejected)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	now := time.Now()
	quotationID := rejected.QuotationID
	task := &Task{
		ID:          uuid.New(),
		Title:       fmt.Sprintf("Revise quotation %s for %s", rejected.QuotationNumber, rejected.ClientName),
		Description: fmt.Sprintf("Rejected by %s: %s", rejected.RejectedBy, rejected.Remarks),
		TaskType:    TypeQuotationRevision,
		Priority:    PriorityHigh,
		Status:      StatusPending,
		AssignedTo:  rejected.SalesOwnerID,
		QuotationID: &quotationID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, task); err != nil {
		return err
	}
	s.publishCreated(ctx, task)

	s.log.Info("revision task created",
		"taskId", task.ID,
		"quotationId", rejected.QuotationID,
		"assignedTo", rejected.SalesOwnerID,
	)
	return nil
}

// onQuotationRevised closes any open revision tasks for the quotation.
func (s *Service) onQuotationRevised(ctx context.Context, event events.Event) error {
	revised, ok := event.(events.QuotationRevised)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	closed, err := s.store.CompleteRevisionTasks(ctx, revised.QuotationID)
	if err != nil {
		return err
	}
	if closed > 0 {
		s.log.Info("revision tasks completed", "quotationId", revised.QuotationID, "count", closed)
	}
	return nil
}
