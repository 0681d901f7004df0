// Package email delivers transactional mail to employees.
package email

import (
	"context"

	"studio_backend/platform/config"
)

// Sender is the outbound email port used by the notification module.
type Sender interface {
	SendQuotationRejectedEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName, remarks string, amount int64) error
	SendQuotationOutcomeEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName string, accepted bool) error
	SendTaskAssignedEmail(ctx context.Context, toEmail, assigneeName, taskTitle, taskDescription string) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

// NoopSender discards all mail. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendQuotationRejectedEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName, remarks string, amount int64) error {
	return nil
}

func (NoopSender) SendQuotationOutcomeEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName string, accepted bool) error {
	return nil
}

func (NoopSender) SendTaskAssignedEmail(ctx context.Context, toEmail, assigneeName, taskTitle, taskDescription string) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// NewSender picks the sender implementation based on configuration.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
