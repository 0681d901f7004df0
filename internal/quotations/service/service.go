package service

import (
	"context"
	"time"

	"studio_backend/internal/events"
	"studio_backend/internal/quotations/domain"
	"studio_backend/internal/quotations/repository"
	"studio_backend/internal/quotations/transport"
	"studio_backend/platform/apperr"
	"studio_backend/platform/logger"
	"studio_backend/platform/phone"

	"github.com/google/uuid"
)

const whatsappChannel = "whatsapp"

// Store is the persistence collaborator for the workflow. Implemented by
// the pgx repository; tests substitute an in-memory fake.
type Store interface {
	NextQuotationNumber(ctx context.Context) (string, error)
	Create(ctx context.Context, q *domain.Quotation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error)
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	SaveTransition(ctx context.Context, q *domain.Quotation, expected domain.Status, action *domain.Action) error
}

// NotifyPayload carries the quotation details a client-facing message needs.
type NotifyPayload struct {
	QuotationNumber string
	ClientName      string
	EventType       string
	Amount          int64
}

// DeliveryReceipt is the confirmation returned by the notification gateway.
type DeliveryReceipt struct {
	MessageID string
}

// Notifier dispatches messages to clients over an external channel.
type Notifier interface {
	Notify(ctx context.Context, channel, recipient string, payload NotifyPayload) (*DeliveryReceipt, error)
}

// Service provides business logic for the quotation approval workflow.
type Service struct {
	store    Store
	notifier Notifier
	bus      events.Bus // optional, nil means no event publishing
	log      *logger.Logger
}

// New creates a new quotations service
func New(store Store, notifier Notifier, log *logger.Logger) *Service {
	return &Service{store: store, notifier: notifier, log: log}
}

// SetEventBus injects the event bus (set after construction to break circular deps).
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// Create registers a new quotation, optionally submitting it straight
// into the approval queue.
func (s *Service) Create(ctx context.Context, salesOwnerID uuid.UUID, req transport.CreateQuotationRequest) (*transport.QuotationResponse, error) {
	number, err := s.store.NextQuotationNumber(ctx)
	if err != nil {
		return nil, err
	}

	status := domain.StatusDraft
	if req.SubmitForApproval {
		status = domain.StatusPendingApproval
	}

	now := time.Now()
	q := &domain.Quotation{
		ID:              uuid.New(),
		QuotationNumber: number,
		ClientName:      req.ClientName,
		ClientPhone:     phone.NormalizeE164(req.ClientPhone),
		EventType:       req.EventType,
		SalesOwnerID:    salesOwnerID,
		Amount:          req.Amount,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}

	return buildResponse(q), nil
}

// GetByID retrieves a quotation with its full action log.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResponse(q), nil
}

// ListActions retrieves just the decision audit log of a quotation.
func (s *Service) ListActions(ctx context.Context, id uuid.UUID) ([]transport.ActionResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResponse(q).Actions, nil
}

// List retrieves quotations with filtering and pagination.
func (s *Service) List(ctx context.Context, req transport.ListQuotationsRequest) (*transport.QuotationListResponse, error) {
	params := repository.ListParams{
		Search:   req.Search,
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}
	if req.Status != "" {
		params.Status = &req.Status
	}

	result, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]transport.QuotationResponse, len(result.Items))
	for i := range result.Items {
		items[i] = *buildResponse(&result.Items[i])
	}

	return &transport.QuotationListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// ListPendingApprovals returns the approval queue, oldest submissions first
// by virtue of the repository ordering.
func (s *Service) ListPendingApprovals(ctx context.Context, page, pageSize int) (*transport.QuotationListResponse, error) {
	return s.List(ctx, transport.ListQuotationsRequest{
		Status:   string(domain.StatusPendingApproval),
		Page:     page,
		PageSize: pageSize,
	})
}

// Submit moves a draft quotation into the approval queue.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := q.Clone()
	if err := updated.Submit(); err != nil {
		return nil, err
	}

	if err := s.store.SaveTransition(ctx, updated, q.Status, nil); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), "")
	return buildResponse(updated), nil
}

// Approve transitions a pending quotation to approved.
func (s *Service) Approve(ctx context.Context, id uuid.UUID, actor string, req transport.ApproveRequest) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := q.Clone()
	action, err := updated.Approve(req.Comments, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveTransition(ctx, updated, q.Status, action); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), actor)
	s.publish(ctx, events.QuotationApproved{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     updated.ID,
		QuotationNumber: updated.QuotationNumber,
		ClientName:      updated.ClientName,
		Amount:          updated.Amount,
		Comments:        action.Message,
		ApprovedBy:      actor,
		SalesOwnerID:    updated.SalesOwnerID,
	})

	return buildResponse(updated), nil
}

// Reject transitions a pending quotation to rejected and alerts the sales
// owner. The alert is best-effort: a failed notification is logged by the
// bus, never rolled into the caller's result.
func (s *Service) Reject(ctx context.Context, id uuid.UUID, actor string, req transport.RejectRequest) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := q.Clone()
	action, err := updated.Reject(req.Remarks, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveTransition(ctx, updated, q.Status, action); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), actor)
	s.publish(ctx, events.QuotationRejected{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     updated.ID,
		QuotationNumber: updated.QuotationNumber,
		ClientName:      updated.ClientName,
		Amount:          updated.Amount,
		Remarks:         updated.RejectionRemarks,
		RejectedBy:      actor,
		SalesOwnerID:    updated.SalesOwnerID,
	})

	return buildResponse(updated), nil
}

// SubmitRevision resubmits a rejected quotation with a new amount.
func (s *Service) SubmitRevision(ctx context.Context, id uuid.UUID, actor string, req transport.ReviseRequest) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := q.Clone()
	action, err := updated.SubmitRevision(req.NewAmount, req.Notes, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveTransition(ctx, updated, q.Status, action); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), actor)
	s.publish(ctx, events.QuotationRevised{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     updated.ID,
		QuotationNumber: updated.QuotationNumber,
		NewAmount:       updated.Amount,
		Notes:           req.Notes,
		RevisedBy:       actor,
	})

	return buildResponse(updated), nil
}

// SendToClient delivers an approved quotation over WhatsApp. Delivery is
// transition-gating: the status only becomes sent_to_client when the
// gateway confirmed the message, so "sent" always reflects an actual send.
func (s *Service) SendToClient(ctx context.Context, id uuid.UUID) (*transport.SendResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if q.Status != domain.StatusApproved {
		return nil, apperr.InvalidTransition("only approved quotations can be sent to the client")
	}

	receipt, err := s.notifier.Notify(ctx, whatsappChannel, q.ClientPhone, NotifyPayload{
		QuotationNumber: q.QuotationNumber,
		ClientName:      q.ClientName,
		EventType:       q.EventType,
		Amount:          q.Amount,
	})
	if err != nil {
		s.log.NotifyFailure(whatsappChannel, q.ClientPhone, err)
		return nil, apperr.Delivery("failed to deliver quotation to client", err)
	}

	updated := q.Clone()
	action, err := updated.MarkSent(receipt.MessageID)
	if err != nil {
		return nil, err
	}

	// The client already received the message at this point. A failed
	// write leaves the status at approved and a retry will message the
	// client again; see the delivery log above for reconciliation.
	if err := s.store.SaveTransition(ctx, updated, q.Status, action); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), action.Actor)
	s.publish(ctx, events.QuotationSent{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     updated.ID,
		QuotationNumber: updated.QuotationNumber,
		ClientName:      updated.ClientName,
		MessageID:       receipt.MessageID,
	})

	return &transport.SendResponse{
		Quotation: *buildResponse(updated),
		MessageID: receipt.MessageID,
	}, nil
}

// RecordClientResponse captures the client's accept/decline decision.
func (s *Service) RecordClientResponse(ctx context.Context, id uuid.UUID, actor string, req transport.ClientResponseRequest) (*transport.QuotationResponse, error) {
	q, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	accepted := req.Response == "accepted"

	updated := q.Clone()
	action, err := updated.RecordClientResponse(accepted, actor)
	if err != nil {
		return nil, err
	}

	if err := s.store.SaveTransition(ctx, updated, q.Status, action); err != nil {
		return nil, err
	}

	s.log.WorkflowTransition(id.String(), string(q.Status), string(updated.Status), actor)
	s.publish(ctx, events.QuotationClientResponded{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     updated.ID,
		QuotationNumber: updated.QuotationNumber,
		ClientName:      updated.ClientName,
		Accepted:        accepted,
		SalesOwnerID:    updated.SalesOwnerID,
	})

	return buildResponse(updated), nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func buildResponse(q *domain.Quotation) *transport.QuotationResponse {
	actions := make([]transport.ActionResponse, len(q.Actions))
	for i, a := range q.Actions {
		actions[i] = transport.ActionResponse{
			ID:        a.ID,
			Type:      string(a.Type),
			Status:    string(a.Status),
			Message:   a.Message,
			Actor:     a.Actor,
			Timestamp: a.Timestamp,
		}
	}

	return &transport.QuotationResponse{
		ID:               q.ID,
		QuotationNumber:  q.QuotationNumber,
		ClientName:       q.ClientName,
		ClientPhone:      q.ClientPhone,
		EventType:        q.EventType,
		SalesOwnerID:     q.SalesOwnerID,
		Amount:           q.Amount,
		Status:           string(q.Status),
		RevisionCount:    q.RevisionCount,
		RejectionRemarks: q.RejectionRemarks,
		Actions:          actions,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
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
