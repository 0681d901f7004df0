// Package scheduler runs delayed background jobs over asynq. The API
// process enqueues jobs; a separate worker process executes them.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// TaskQuotationFollowUp reminds a client about a quotation that was sent
// but has received no accept or decline response yet.
const TaskQuotationFollowUp = "quotations.followup"

// QuotationFollowUpPayload identifies the quotation to follow up on. The
// worker reloads the quotation, so the payload stays minimal and stale
// snapshots cannot leak into the reminder.
type QuotationFollowUpPayload struct {
	QuotationID     string `json:"quotationId"`
	QuotationNumber string `json:"quotationNumber"`
}

// NewQuotationFollowUpTask builds the asynq task for a follow-up reminder.
func NewQuotationFollowUpTask(payload QuotationFollowUpPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskQuotationFollowUp, data), nil
}

// ParseQuotationFollowUpPayload decodes a follow-up task payload.
func ParseQuotationFollowUpPayload(task *asynq.Task) (QuotationFollowUpPayload, error) {
	var payload QuotationFollowUpPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return QuotationFollowUpPayload{}, err
	}
	return payload, nil
}
