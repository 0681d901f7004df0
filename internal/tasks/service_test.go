package tasks

import (
	"context"
	"strings"
	"testing"
	"time"

	"studio_backend/internal/events"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	tasks      map[uuid.UUID]*Task
	listParams ListParams
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: make(map[uuid.UUID]*Task)}
}

func (f *fakeStore) Create(ctx context.Context, t *Task) error {
	copied := *t
	f.tasks[t.ID] = &copied
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, apperr.NotFound("task not found")
	}
	copied := *t
	return &copied, nil
}

func (f *fakeStore) List(ctx context.Context, params ListParams) (*ListResult, error) {
	f.listParams = params
	items := []Task{}
	for _, t := range f.tasks {
		if params.AssignedTo != nil && t.AssignedTo != *params.AssignedTo {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		items = append(items, *t)
	}
	return &ListResult{Items: items, Total: len(items), Page: params.Page, PageSize: params.PageSize, TotalPages: 1}, nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string, completedAt *time.Time) error {
	t, ok := f.tasks[id]
	if !ok {
		return apperr.NotFound("task not found")
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

func (f *fakeStore) CompleteRevisionTasks(ctx context.Context, quotationID uuid.UUID) (int, error) {
	closed := 0
	now := time.Now()
	for _, t := range f.tasks {
		if t.QuotationID != nil && *t.QuotationID == quotationID && t.TaskType == TypeQuotationRevision && t.Status != StatusCompleted {
			t.Status = StatusCompleted
			t.CompletedAt = &now
			closed++
		}
	}
	return closed, nil
}

// recordingBus captures published events without running handlers.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func TestRejectedEventCreatesRevisionTask(t *testing.T) {
	store := newFakeStore()
	rec := &recordingBus{}
	svc := NewService(store, rec, logger.New("development"))

	bus := events.NewInMemoryBus(logger.New("development"))
	svc.RegisterHandlers(bus)

	owner := uuid.New()
	quotationID := uuid.New()
	err := bus.PublishSync(context.Background(), events.QuotationRejected{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     quotationID,
		QuotationNumber: "QT-2026-0042",
		ClientName:      "Priya Sharma",
		Amount:          33000,
		Remarks:         "Please lower photography package price",
		RejectedBy:      "Rajesh",
		SalesOwnerID:    owner,
	})
	if err != nil {
		t.Fatalf("PublishSync: %v", err)
	}

	if len(store.tasks) != 1 {
		t.Fatalf("expected one task, got %d", len(store.tasks))
	}
	for _, task := range store.tasks {
		if task.TaskType != TypeQuotationRevision || task.Priority != PriorityHigh || task.Status != StatusPending {
			t.Fatalf("unexpected task: %+v", task)
		}
		if task.AssignedTo != owner {
			t.Fatalf("task assigned to %s, want sales owner %s", task.AssignedTo, owner)
		}
		if task.QuotationID == nil || *task.QuotationID != quotationID {
			t.Fatalf("task not linked to quotation: %+v", task)
		}
		if !strings.Contains(task.Title, "QT-2026-0042") || !strings.Contains(task.Description, "lower photography package price") {
			t.Fatalf("task text missing context: %+v", task)
		}
	}

	if len(rec.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(rec.published))
	}
	created, ok := rec.published[0].(events.TaskCreated)
	if !ok {
		t.Fatalf("expected TaskCreated event, got %T", rec.published[0])
	}
	if created.AssignedTo != owner || created.TaskType != TypeQuotationRevision {
		t.Fatalf("unexpected event payload: %+v", created)
	}
}

func TestCreatePublishesTaskCreated(t *testing.T) {
	store := newFakeStore()
	rec := &recordingBus{}
	svc := NewService(store, rec, logger.New("development"))

	assignee := uuid.New()
	resp, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:       "Confirm album delivery date",
		Description: "Client expects the wedding album before Diwali",
		AssignedTo:  assignee,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(rec.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(rec.published))
	}
	created, ok := rec.published[0].(events.TaskCreated)
	if !ok {
		t.Fatalf("expected TaskCreated event, got %T", rec.published[0])
	}
	if created.TaskID != resp.ID || created.AssignedTo != assignee || created.Title != "Confirm album delivery date" {
		t.Fatalf("unexpected event payload: %+v", created)
	}
}

func TestListCapsPageSize(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.New("development"))

	if _, err := svc.List(context.Background(), ListTasksRequest{PageSize: 100000}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.listParams.PageSize != 100 {
		t.Fatalf("page size not capped: got %d", store.listParams.PageSize)
	}

	if _, err := svc.List(context.Background(), ListTasksRequest{}); err != nil {
		t.Fatalf("List: %v", err)
	}
	if store.listParams.PageSize != 20 {
		t.Fatalf("expected default page size 20, got %d", store.listParams.PageSize)
	}
}

func TestRevisedEventCompletesRevisionTask(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.New("development"))

	bus := events.NewInMemoryBus(logger.New("development"))
	svc.RegisterHandlers(bus)

	quotationID := uuid.New()
	ctx := context.Background()
	if err := bus.PublishSync(ctx, events.QuotationRejected{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     quotationID,
		QuotationNumber: "QT-2026-0042",
		SalesOwnerID:    uuid.New(),
	}); err != nil {
		t.Fatalf("publish rejected: %v", err)
	}

	if err := bus.PublishSync(ctx, events.QuotationRevised{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     quotationID,
		QuotationNumber: "QT-2026-0042",
		NewAmount:       28000,
	}); err != nil {
		t.Fatalf("publish revised: %v", err)
	}

	for _, task := range store.tasks {
		if task.Status != StatusCompleted || task.CompletedAt == nil {
			t.Fatalf("revision task should be completed: %+v", task)
		}
	}
}

func TestCompletedTasksCannotReopen(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil, logger.New("development"))

	resp, err := svc.Create(context.Background(), CreateTaskRequest{
		Title:      "Call the venue",
		AssignedTo: uuid.New(),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Priority != PriorityMedium {
		t.Fatalf("expected default medium priority, got %s", resp.Priority)
	}

	if _, err := svc.UpdateStatus(context.Background(), resp.ID, UpdateTaskStatusRequest{Status: StatusCompleted}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err = svc.UpdateStatus(context.Background(), resp.ID, UpdateTaskStatusRequest{Status: StatusPending})
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}
