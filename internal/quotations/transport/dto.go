package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateQuotationRequest is the request body for creating a quotation.
type CreateQuotationRequest struct {
	ClientName        string `json:"clientName" validate:"required,min=1,max=200"`
	ClientPhone       string `json:"clientPhone" validate:"required,min=5,max=20"`
	EventType         string `json:"eventType" validate:"required,min=1,max=100"`
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	SubmitForApproval bool   `json:"submitForApproval"`
}

// ApproveRequest is the request body for approving a quotation. Comments
// are optional; a standard message is recorded when absent.
type ApproveRequest struct {
	Comments string `json:"comments" validate:"omitempty,max=1000"`
}

// RejectRequest is the request body for rejecting a quotation.
type RejectRequest struct {
	Remarks string `json:"remarks" validate:"required,max=1000"`
}

// ReviseRequest is the request body for resubmitting a rejected quotation.
type ReviseRequest struct {
	NewAmount int64  `json:"newAmount" validate:"required,gt=0"`
	Notes     string `json:"notes" validate:"required,max=1000"`
}

// ClientResponseRequest is the request body for recording the client's
// decision on a sent quotation.
type ClientResponseRequest struct {
	Response string `json:"response" validate:"required,oneof=accepted declined"`
}

// ListQuotationsRequest defines the query parameters for listing quotations.
type ListQuotationsRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=draft pending_approval approved rejected sent_to_client client_accepted client_declined closed"`
	Search   string `form:"search" validate:"omitempty,max=200"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// ActionResponse is one audit log entry.
type ActionResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Actor     string    `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
}

// QuotationResponse is the full quotation representation.
type QuotationResponse struct {
	ID               uuid.UUID        `json:"id"`
	QuotationNumber  string           `json:"quotationNumber"`
	ClientName       string           `json:"clientName"`
	ClientPhone      string           `json:"clientPhone"`
	EventType        string           `json:"eventType"`
	SalesOwnerID     uuid.UUID        `json:"salesOwnerId"`
	Amount           int64            `json:"amount"`
	Status           string           `json:"status"`
	RevisionCount    int              `json:"revisionCount"`
	RejectionRemarks string           `json:"rejectionRemarks,omitempty"`
	Actions          []ActionResponse `json:"actions"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// QuotationListResponse is the paginated list representation.
type QuotationListResponse struct {
	Items      []QuotationResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// SendResponse reports the delivery confirmation for a sent quotation.
type SendResponse struct {
	Quotation QuotationResponse `json:"quotation"`
	MessageID string            `json:"messageId"`
}
