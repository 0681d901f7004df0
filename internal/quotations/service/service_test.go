package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"studio_backend/internal/events"
	"studio_backend/internal/quotations/domain"
	"studio_backend/internal/quotations/repository"
	"studio_backend/internal/quotations/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

// fakeStore is an in-memory Store with injectable failures.
type fakeStore struct {
	quotations map[uuid.UUID]*domain.Quotation
	saveErr    error
	saveCalls  int
	counter    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{quotations: make(map[uuid.UUID]*domain.Quotation)}
}

func (f *fakeStore) NextQuotationNumber(ctx context.Context) (string, error) {
	f.counter++
	return fmt.Sprintf("QT-2026-%04d", f.counter), nil
}

func (f *fakeStore) Create(ctx context.Context, q *domain.Quotation) error {
	f.quotations[q.ID] = q.Clone()
	return nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	q, ok := f.quotations[id]
	if !ok {
		return nil, apperr.NotFound("quotation not found")
	}
	return q.Clone(), nil
}

func (f *fakeStore) List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error) {
	items := []domain.Quotation{}
	for _, q := range f.quotations {
		if params.Status != nil && string(q.Status) != *params.Status {
			continue
		}
		items = append(items, *q.Clone())
	}
	return &repository.ListResult{
		Items: items, Total: len(items),
		Page: params.Page, PageSize: params.PageSize, TotalPages: 1,
	}, nil
}

func (f *fakeStore) SaveTransition(ctx context.Context, q *domain.Quotation, expected domain.Status, action *domain.Action) error {
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	current, ok := f.quotations[q.ID]
	if !ok {
		return apperr.NotFound("quotation not found")
	}
	if current.Status != expected {
		return apperr.InvalidTransition("quotation was updated by someone else, reload and retry")
	}
	f.quotations[q.ID] = q.Clone()
	return nil
}

// fakeNotifier records dispatches and can be told to fail.
type fakeNotifier struct {
	err       error
	calls     int
	channel   string
	recipient string
	payload   NotifyPayload
	messageID string
}

func (f *fakeNotifier) Notify(ctx context.Context, channel, recipient string, payload NotifyPayload) (*DeliveryReceipt, error) {
	f.calls++
	f.channel = channel
	f.recipient = recipient
	f.payload = payload
	if f.err != nil {
		return nil, f.err
	}
	return &DeliveryReceipt{MessageID: f.messageID}, nil
}

// recordingBus captures published events synchronously.
type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func seedQuotation(t *testing.T, store *fakeStore, status domain.Status) uuid.UUID {
	t.Helper()
	q := &domain.Quotation{
		ID:              uuid.New(),
		QuotationNumber: "QT-2026-0042",
		ClientName:      "Priya Sharma",
		ClientPhone:     "+919876543210",
		EventType:       "Wedding",
		SalesOwnerID:    uuid.New(),
		Amount:          33000,
		Status:          status,
	}
	store.quotations[q.ID] = q
	return q.ID
}

func newTestService(store *fakeStore, notifier *fakeNotifier) (*Service, *recordingBus) {
	bus := &recordingBus{}
	svc := New(store, notifier, logger.New("development"))
	svc.SetEventBus(bus)
	return svc, bus
}

func TestRejectPersistenceFailureLeavesStateUnchanged(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusPendingApproval)
	store.saveErr = apperr.Persistence("write failed", errors.New("connection reset"))

	svc, bus := newTestService(store, &fakeNotifier{})

	_, err := svc.Reject(context.Background(), id, "Rajesh", transport.RejectRequest{Remarks: "too expensive"})
	if !apperr.Is(err, apperr.KindPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}

	stored := store.quotations[id]
	if stored.Status != domain.StatusPendingApproval || stored.RejectionRemarks != "" || len(stored.Actions) != 0 {
		t.Fatalf("failed write must not change stored state: %+v", stored)
	}
	if len(bus.published) != 0 {
		t.Fatalf("no event should be published on a failed write, got %d", len(bus.published))
	}
}

func TestRejectPublishesEvent(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusPendingApproval)

	svc, bus := newTestService(store, &fakeNotifier{})

	resp, err := svc.Reject(context.Background(), id, "Rajesh", transport.RejectRequest{Remarks: "Please lower package price"})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if resp.Status != string(domain.StatusRejected) {
		t.Fatalf("expected rejected, got %s", resp.Status)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	rejected, ok := bus.published[0].(events.QuotationRejected)
	if !ok {
		t.Fatalf("expected QuotationRejected, got %T", bus.published[0])
	}
	if rejected.Remarks != "Please lower package price" || rejected.RejectedBy != "Rajesh" {
		t.Fatalf("unexpected event payload: %+v", rejected)
	}
}

func TestSendToClientDeliveryFailureKeepsApproved(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusApproved)
	notifier := &fakeNotifier{err: errors.New("gateway timeout")}

	svc, bus := newTestService(store, notifier)

	_, err := svc.SendToClient(context.Background(), id)
	if !apperr.Is(err, apperr.KindDelivery) {
		t.Fatalf("expected delivery error, got %v", err)
	}
	if store.saveCalls != 0 {
		t.Fatalf("failed delivery must not write, got %d save calls", store.saveCalls)
	}
	if store.quotations[id].Status != domain.StatusApproved {
		t.Fatalf("status must remain approved, got %s", store.quotations[id].Status)
	}
	if len(bus.published) != 0 {
		t.Fatalf("no event should be published on failed delivery")
	}
}

func TestSendToClientSuccess(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusApproved)
	notifier := &fakeNotifier{messageID: "wamid.HBgMOTE5ODc2"}

	svc, bus := newTestService(store, notifier)

	resp, err := svc.SendToClient(context.Background(), id)
	if err != nil {
		t.Fatalf("SendToClient: %v", err)
	}

	if resp.MessageID != "wamid.HBgMOTE5ODc2" {
		t.Fatalf("expected gateway message ID, got %q", resp.MessageID)
	}
	if resp.Quotation.Status != string(domain.StatusSentToClient) {
		t.Fatalf("expected sent_to_client, got %s", resp.Quotation.Status)
	}
	if notifier.calls != 1 || notifier.channel != "whatsapp" || notifier.recipient != "+919876543210" {
		t.Fatalf("unexpected dispatch: %+v", notifier)
	}
	if notifier.payload.Amount != 33000 || notifier.payload.ClientName != "Priya Sharma" {
		t.Fatalf("unexpected payload: %+v", notifier.payload)
	}

	last := resp.Quotation.Actions[len(resp.Quotation.Actions)-1]
	if !strings.Contains(last.Message, "wamid.HBgMOTE5ODc2") || last.Actor != "System" {
		t.Fatalf("unexpected send action: %+v", last)
	}

	if len(bus.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(bus.published))
	}
	if sent, ok := bus.published[0].(events.QuotationSent); !ok || sent.MessageID != "wamid.HBgMOTE5ODc2" {
		t.Fatalf("unexpected event: %+v", bus.published[0])
	}
}

func TestSendToClientRequiresApproved(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusPendingApproval)
	notifier := &fakeNotifier{messageID: "wamid.1"}

	svc, _ := newTestService(store, notifier)

	_, err := svc.SendToClient(context.Background(), id)
	if !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if notifier.calls != 0 {
		t.Fatalf("client must not be messaged for non-approved quotation")
	}
}

func TestApproveStaleStateSurfacesConflict(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusPendingApproval)

	svc, _ := newTestService(store, &fakeNotifier{})

	// Another user rejects between our read and write.
	staleRead, _ := store.GetByID(context.Background(), id)
	if _, err := svc.Reject(context.Background(), id, "Rajesh", transport.RejectRequest{Remarks: "no"}); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	updated := staleRead.Clone()
	action, err := updated.Approve("", "Anita")
	if err != nil {
		t.Fatalf("Approve on stale copy: %v", err)
	}
	if err := store.SaveTransition(context.Background(), updated, staleRead.Status, action); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected conflict on stale write, got %v", err)
	}
}

func TestCreateAndSubmit(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, &fakeNotifier{})

	resp, err := svc.Create(context.Background(), uuid.New(), transport.CreateQuotationRequest{
		ClientName:  "Priya Sharma",
		ClientPhone: "9876543210",
		EventType:   "Wedding",
		Amount:      55000,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if resp.Status != string(domain.StatusDraft) {
		t.Fatalf("expected draft, got %s", resp.Status)
	}
	if resp.ClientPhone != "+919876543210" {
		t.Fatalf("expected normalized phone, got %s", resp.ClientPhone)
	}
	if !strings.HasPrefix(resp.QuotationNumber, "QT-") {
		t.Fatalf("unexpected quotation number %q", resp.QuotationNumber)
	}

	submitted, err := svc.Submit(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if submitted.Status != string(domain.StatusPendingApproval) {
		t.Fatalf("expected pending_approval, got %s", submitted.Status)
	}
	if len(submitted.Actions) != 0 {
		t.Fatalf("submission must not append audit actions, got %d", len(submitted.Actions))
	}
}

func TestRevisionAfterRejectReentersQueue(t *testing.T) {
	store := newFakeStore()
	id := seedQuotation(t, store, domain.StatusPendingApproval)
	svc, bus := newTestService(store, &fakeNotifier{})

	if _, err := svc.Reject(context.Background(), id, "Rajesh", transport.RejectRequest{Remarks: "lower the price"}); err != nil {
		t.Fatalf("Reject: %v", err)
	}

	resp, err := svc.SubmitRevision(context.Background(), id, "Anita", transport.ReviseRequest{
		NewAmount: 28000,
		Notes:     "Switched to basic package",
	})
	if err != nil {
		t.Fatalf("SubmitRevision: %v", err)
	}
	if resp.Status != string(domain.StatusPendingApproval) || resp.Amount != 28000 || resp.RevisionCount != 1 {
		t.Fatalf("unexpected state after revision: %+v", resp)
	}

	queue, err := svc.ListPendingApprovals(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("ListPendingApprovals: %v", err)
	}
	if queue.Total != 1 {
		t.Fatalf("expected revised quotation back in queue, got %d", queue.Total)
	}

	if len(bus.published) != 2 {
		t.Fatalf("expected rejected + revised events, got %d", len(bus.published))
	}
	if _, ok := bus.published[1].(events.QuotationRevised); !ok {
		t.Fatalf("expected QuotationRevised, got %T", bus.published[1])
	}
}
