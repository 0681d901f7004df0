// Package callmonitoring records client call logs and aggregates them
// into daily activity analytics for the studio dashboard.
package callmonitoring

import (
	"time"

	"github.com/google/uuid"
)

// Call types.
const (
	CallIncoming = "incoming"
	CallOutgoing = "outgoing"
	CallMissed   = "missed"
)

// CallLog is one recorded client call.
type CallLog struct {
	ID              uuid.UUID
	ClientName      string
	ClientPhone     string
	EmployeeID      uuid.UUID
	CallType        string
	DurationSeconds int
	Notes           string
	CreatedAt       time.Time
}

// ── Requests ──────────────────────────────────────────────────────────────────

// LogCallRequest is the request body for recording a call.
type LogCallRequest struct {
	ClientName      string `json:"clientName" validate:"required,min=1,max=200"`
	ClientPhone     string `json:"clientPhone" validate:"required,min=5,max=20"`
	CallType        string `json:"callType" validate:"required,oneof=incoming outgoing missed"`
	DurationSeconds int    `json:"durationSeconds" validate:"min=0"`
	Notes           string `json:"notes" validate:"omitempty,max=2000"`
}

// ListCallsRequest defines the query parameters for listing call logs.
type ListCallsRequest struct {
	CallType string `form:"callType" validate:"omitempty,oneof=incoming outgoing missed"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// CallResponse is the API representation of a call log.
type CallResponse struct {
	ID              uuid.UUID `json:"id"`
	ClientName      string    `json:"clientName"`
	ClientPhone     string    `json:"clientPhone"`
	EmployeeID      uuid.UUID `json:"employeeId"`
	CallType        string    `json:"callType"`
	DurationSeconds int       `json:"durationSeconds"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CallListResponse is the paginated list representation.
type CallListResponse struct {
	Items      []CallResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// BucketStats aggregates calls over one reporting window.
type BucketStats struct {
	TotalCalls         int `json:"totalCalls"`
	Incoming           int `json:"incoming"`
	Outgoing           int `json:"outgoing"`
	Missed             int `json:"missed"`
	TotalDurationSecs  int `json:"totalDurationSeconds"`
	AvgDurationSeconds int `json:"avgDurationSeconds"`
	UniqueClients      int `json:"uniqueClients"`
}

// AnalyticsResponse groups call activity into the dashboard's three windows.
type AnalyticsResponse struct {
	Today       BucketStats `json:"today"`
	Yesterday   BucketStats `json:"yesterday"`
	LastWeek    BucketStats `json:"lastWeek"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

func toCallResponse(c *CallLog) CallResponse {
	return CallResponse{
		ID:              c.ID,
		ClientName:      c.ClientName,
		ClientPhone:     c.ClientPhone,
		EmployeeID:      c.EmployeeID,
		CallType:        c.CallType,
		DurationSeconds: c.DurationSeconds,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
	}
}
