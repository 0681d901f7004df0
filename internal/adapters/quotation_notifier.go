// Package adapters contains glue types that connect domain modules
// without introducing direct dependencies between them.
package adapters

import (
	"context"
	"fmt"

	"studio_backend/internal/quotations/service"
)

// WhatsAppSender is the narrow interface the notifier needs from the
// WhatsApp client.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phoneNumber string, message string) (string, error)
}

// QuotationNotifier delivers quotations to clients over WhatsApp. It
// implements the quotation service's Notifier port.
type QuotationNotifier struct {
	sender WhatsAppSender
}

// NewQuotationNotifier creates a notifier backed by the WhatsApp client.
func NewQuotationNotifier(sender WhatsAppSender) *QuotationNotifier {
	return &QuotationNotifier{sender: sender}
}

// Notify sends the quotation summary to the client and returns the
// gateway's delivery confirmation.
func (n *QuotationNotifier) Notify(ctx context.Context, channel, recipient string, payload service.NotifyPayload) (*service.DeliveryReceipt, error) {
	if channel != "whatsapp" {
		return nil, fmt.Errorf("unsupported notification channel %q", channel)
	}

	message := fmt.Sprintf(
		"Dear %s, your quotation %s for your %s is ready. Total amount: ₹%d. Please reply to this message to confirm or discuss changes.",
		payload.ClientName, payload.QuotationNumber, payload.EventType, payload.Amount,
	)

	messageID, err := n.sender.SendMessage(ctx, recipient, message)
	if err != nil {
		return nil, err
	}

	return &service.DeliveryReceipt{MessageID: messageID}, nil
}
