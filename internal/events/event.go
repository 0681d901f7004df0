// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"studio_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quotation Domain Events
// =============================================================================

// QuotationRejected is published when an approver rejects a quotation.
// The notification module reacts by creating a revision task for the
// sales owner and sending a best-effort alert.
type QuotationRejected struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	ClientName      string    `json:"clientName"`
	Amount          int64     `json:"amount"`
	Remarks         string    `json:"remarks"`
	RejectedBy      string    `json:"rejectedBy"`
	SalesOwnerID    uuid.UUID `json:"salesOwnerId"`
}

func (e QuotationRejected) EventName() string { return "quotations.quotation.rejected" }

// QuotationApproved is published when an approver approves a quotation.
type QuotationApproved struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	ClientName      string    `json:"clientName"`
	Amount          int64     `json:"amount"`
	Comments        string    `json:"comments"`
	ApprovedBy      string    `json:"approvedBy"`
	SalesOwnerID    uuid.UUID `json:"salesOwnerId"`
}

func (e QuotationApproved) EventName() string { return "quotations.quotation.approved" }

// QuotationRevised is published when a rejected quotation is resubmitted
// with a new amount. The notification module closes the open revision task.
type QuotationRevised struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	NewAmount       int64     `json:"newAmount"`
	Notes           string    `json:"notes"`
	RevisedBy       string    `json:"revisedBy"`
}

func (e QuotationRevised) EventName() string { return "quotations.quotation.revised" }

// QuotationSent is published after a quotation was successfully delivered
// to the client.
type QuotationSent struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	ClientName      string    `json:"clientName"`
	MessageID       string    `json:"messageId"`
}

func (e QuotationSent) EventName() string { return "quotations.quotation.sent" }

// QuotationClientResponded is published when a client accepts or declines
// a quotation that was sent to them.
type QuotationClientResponded struct {
	BaseEvent
	QuotationID     uuid.UUID `json:"quotationId"`
	QuotationNumber string    `json:"quotationNumber"`
	ClientName      string    `json:"clientName"`
	Accepted        bool      `json:"accepted"`
	SalesOwnerID    uuid.UUID `json:"salesOwnerId"`
}

func (e QuotationClientResponded) EventName() string { return "quotations.quotation.client_responded" }

// =============================================================================
// Task Domain Events
// =============================================================================

// TaskCreated is published whenever a work item is created, whether by an
// employee or by the rejection fan-out. The notification module emails the
// assignee.
type TaskCreated struct {
	BaseEvent
	TaskID      uuid.UUID `json:"taskId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TaskType    string    `json:"taskType"`
	Priority    string    `json:"priority"`
	AssignedTo  uuid.UUID `json:"assignedTo"`
}

func (e TaskCreated) EventName() string { return "tasks.task.created" }
