// Package domain provides core business rules for the quotations bounded context.
package domain

// Status is the lifecycle stage of a quotation.
type Status string

const (
	StatusDraft           Status = "draft"
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusRejected        Status = "rejected"
	StatusSentToClient    Status = "sent_to_client"
	StatusClientAccepted  Status = "client_accepted"
	StatusClientDeclined  Status = "client_declined"
	StatusClosed          Status = "closed"
)

// ActionType classifies an audit log entry.
type ActionType string

const (
	ActionApproval       ActionType = "approval"
	ActionRejection      ActionType = "rejection"
	ActionRevision       ActionType = "revision"
	ActionClientResponse ActionType = "client_response"
)

var validStatuses = map[Status]bool{
	StatusDraft:           true,
	StatusPendingApproval: true,
	StatusApproved:        true,
	StatusRejected:        true,
	StatusSentToClient:    true,
	StatusClientAccepted:  true,
	StatusClientDeclined:  true,
	StatusClosed:          true,
}

// terminalStatuses are statuses with no outgoing transitions. Any further
// handling (invoicing, archival) happens outside the workflow.
var terminalStatuses = map[Status]bool{
	StatusClientAccepted: true,
	StatusClientDeclined: true,
	StatusClosed:         true,
}

// IsValidStatus reports whether the string names a known status.
func IsValidStatus(value string) bool {
	return validStatuses[Status(value)]
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}
