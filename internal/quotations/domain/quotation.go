package domain

import (
	"fmt"
	"strings"
	"time"

	"studio_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	defaultApprovalMessage = "Quote approved"

	// systemActor is recorded on actions triggered by the application
	// itself rather than an employee.
	systemActor = "System"
)

// Action is one immutable entry in a quotation's audit log.
type Action struct {
	ID        uuid.UUID
	Type      ActionType
	Status    Status // status snapshot after the action was applied
	Message   string
	Actor     string
	Timestamp time.Time
}

// Quotation is the aggregate root of the approval workflow. All status
// changes go through the transition methods below; there is no other
// mutation path.
type Quotation struct {
	ID               uuid.UUID
	QuotationNumber  string
	ClientName       string
	ClientPhone      string
	EventType        string
	SalesOwnerID     uuid.UUID
	Amount           int64
	Status           Status
	RevisionCount    int
	RejectionRemarks string
	Actions          []Action
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Clone returns a deep copy. The service layer mutates the copy and only
// swaps it in after the persistence write succeeds, so a failed write
// never leaves the caller with state the store does not have.
func (q *Quotation) Clone() *Quotation {
	clone := *q
	clone.Actions = append([]Action(nil), q.Actions...)
	return &clone
}

// Submit moves a draft quotation into the approval queue. Submission is a
// status-only change; the audit log records approval decisions, not the
// act of queueing.
func (q *Quotation) Submit() error {
	if q.Status != StatusDraft {
		return apperr.InvalidTransition("only draft quotations can be submitted for approval")
	}
	q.Status = StatusPendingApproval
	q.UpdatedAt = time.Now()
	return nil
}

// Approve transitions a pending quotation to approved. An empty comment
// falls back to a standard approval message.
func (q *Quotation) Approve(comments, actor string) (*Action, error) {
	if q.Status != StatusPendingApproval {
		return nil, apperr.InvalidTransition("quotation is not awaiting approval")
	}

	message := strings.TrimSpace(comments)
	if message == "" {
		message = defaultApprovalMessage
	}

	q.Status = StatusApproved
	return q.appendAction(ActionApproval, message, actor), nil
}

// Reject transitions a pending quotation to rejected. Remarks are
// mandatory: the sales owner needs them to prepare a revision.
func (q *Quotation) Reject(remarks, actor string) (*Action, error) {
	trimmed := strings.TrimSpace(remarks)
	if trimmed == "" {
		return nil, apperr.Validation("rejection remarks are required")
	}
	if q.Status != StatusPendingApproval {
		return nil, apperr.InvalidTransition("quotation is not awaiting approval")
	}

	q.Status = StatusRejected
	q.RejectionRemarks = trimmed
	return q.appendAction(ActionRejection, trimmed, actor), nil
}

// SubmitRevision resubmits a rejected quotation with a new amount,
// clearing the rejection remarks and returning it to the approval queue.
func (q *Quotation) SubmitRevision(newAmount int64, notes, actor string) (*Action, error) {
	if newAmount <= 0 {
		return nil, apperr.Validation("revised amount must be greater than zero")
	}
	trimmed := strings.TrimSpace(notes)
	if trimmed == "" {
		return nil, apperr.Validation("revision notes are required")
	}
	if q.Status != StatusRejected {
		return nil, apperr.InvalidTransition("only rejected quotations can be revised")
	}

	q.Amount = newAmount
	q.RevisionCount++
	q.RejectionRemarks = ""
	q.Status = StatusPendingApproval

	message := fmt.Sprintf("Revised amount to ₹%d. Notes: %s", newAmount, trimmed)
	return q.appendAction(ActionRevision, message, actor), nil
}

// MarkSent records a confirmed delivery to the client. The caller must
// only invoke this after the notification collaborator reported success;
// the message ID is the delivery confirmation identifier.
func (q *Quotation) MarkSent(messageID string) (*Action, error) {
	if q.Status != StatusApproved {
		return nil, apperr.InvalidTransition("only approved quotations can be sent to the client")
	}

	q.Status = StatusSentToClient
	message := fmt.Sprintf("Quotation sent to client via WhatsApp (ID: %s)", messageID)
	return q.appendAction(ActionApproval, message, systemActor), nil
}

// RecordClientResponse captures the client's accept/decline decision on a
// sent quotation. Both outcomes are terminal for this workflow.
func (q *Quotation) RecordClientResponse(accepted bool, actor string) (*Action, error) {
	if q.Status != StatusSentToClient {
		return nil, apperr.InvalidTransition("quotation has not been sent to the client")
	}

	message := "Client declined the quotation"
	q.Status = StatusClientDeclined
	if accepted {
		message = "Client accepted the quotation"
		q.Status = StatusClientAccepted
	}
	return q.appendAction(ActionClientResponse, message, actor), nil
}

// LatestAction returns the most recent audit entry, or nil when the log
// is empty.
func (q *Quotation) LatestAction() *Action {
	if len(q.Actions) == 0 {
		return nil
	}
	return &q.Actions[len(q.Actions)-1]
}

func (q *Quotation) appendAction(actionType ActionType, message, actor string) *Action {
	now := time.Now()
	action := Action{
		ID:        uuid.New(),
		Type:      actionType,
		Status:    q.Status,
		Message:   message,
		Actor:     actor,
		Timestamp: now,
	}
	q.Actions = append(q.Actions, action)
	q.UpdatedAt = now
	return &q.Actions[len(q.Actions)-1]
}
