// Package notification subscribes to quotation workflow events and sends
// the resulting emails and internal WhatsApp alerts. Domain modules publish
// events without knowing about mail providers or message templates.
package notification

import (
	"context"
	"fmt"
	"html"

	"studio_backend/internal/email"
	"studio_backend/internal/events"

	"github.com/google/uuid"
)

// EmployeeContact is the subset of an employee record needed to reach them.
type EmployeeContact struct {
	Name  string
	Email string
	Phone string
}

// EmployeeDirectory resolves employee contact details for notifications.
type EmployeeDirectory interface {
	GetEmployeeContact(ctx context.Context, id uuid.UUID) (*EmployeeContact, error)
}

// WhatsAppSender sends an internal WhatsApp alert and returns the gateway
// message id.
type WhatsAppSender interface {
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

// Logger is the logging surface the module needs.
type Logger interface {
	Info(msg string, args ...any)
	NotifyFailure(channel, recipient string, err error)
}

// Module reacts to workflow events with best-effort notifications. Handler
// errors are logged by the event bus and never block the workflow.
type Module struct {
	mail      email.Sender
	directory EmployeeDirectory
	whatsapp  WhatsAppSender
	log       Logger
}

// New creates the notification module. The WhatsApp sender is optional.
func New(mail email.Sender, directory EmployeeDirectory, whatsapp WhatsAppSender, log Logger) *Module {
	return &Module{
		mail:      mail,
		directory: directory,
		whatsapp:  whatsapp,
		log:       log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the workflow events it reacts to.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.QuotationRejected{}.EventName(), m)
	bus.Subscribe(events.QuotationApproved{}.EventName(), m)
	bus.Subscribe(events.QuotationClientResponded{}.EventName(), m)
	bus.Subscribe(events.TaskCreated{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.QuotationRejected:
		return m.handleQuotationRejected(ctx, e)
	case events.QuotationApproved:
		return m.handleQuotationApproved(ctx, e)
	case events.QuotationClientResponded:
		return m.handleQuotationClientResponded(ctx, e)
	case events.TaskCreated:
		return m.handleTaskCreated(ctx, e)
	default:
		return nil
	}
}

// handleQuotationRejected alerts the sales owner that their quotation was
// rejected and needs revision. Email and WhatsApp are independent; a failure
// of one does not stop the other.
func (m *Module) handleQuotationRejected(ctx context.Context, e events.QuotationRejected) error {
	contact, err := m.directory.GetEmployeeContact(ctx, e.SalesOwnerID)
	if err != nil {
		return fmt.Errorf("resolve sales owner %s: %w", e.SalesOwnerID, err)
	}

	if contact.Email != "" {
		if err := m.mail.SendQuotationRejectedEmail(ctx, contact.Email, contact.Name, e.QuotationNumber, e.ClientName, e.Remarks, e.Amount); err != nil {
			m.log.NotifyFailure("email", contact.Email, err)
		}
	}

	if m.whatsapp != nil && contact.Phone != "" {
		message := fmt.Sprintf(
			"Quotation %s for %s was rejected by %s. Remarks: %s",
			e.QuotationNumber, e.ClientName, e.RejectedBy, e.Remarks,
		)
		if _, err := m.whatsapp.SendMessage(ctx, contact.Phone, message); err != nil {
			m.log.NotifyFailure("whatsapp", contact.Phone, err)
		}
	}

	return nil
}

// handleQuotationApproved tells the sales owner their quotation cleared
// approval and can be sent to the client.
func (m *Module) handleQuotationApproved(ctx context.Context, e events.QuotationApproved) error {
	contact, err := m.directory.GetEmployeeContact(ctx, e.SalesOwnerID)
	if err != nil {
		return fmt.Errorf("resolve sales owner %s: %w", e.SalesOwnerID, err)
	}
	if contact.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Quotation %s approved", e.QuotationNumber)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Quotation <strong>%s</strong> for %s was approved by %s and is ready to send to the client.</p>",
		html.EscapeString(contact.Name), html.EscapeString(e.QuotationNumber),
		html.EscapeString(e.ClientName), html.EscapeString(e.ApprovedBy),
	)
	if err := m.mail.SendCustomEmail(ctx, contact.Email, subject, body); err != nil {
		m.log.NotifyFailure("email", contact.Email, err)
	}
	return nil
}

// handleQuotationClientResponded tells the sales owner whether the client
// accepted or declined the quotation.
func (m *Module) handleQuotationClientResponded(ctx context.Context, e events.QuotationClientResponded) error {
	contact, err := m.directory.GetEmployeeContact(ctx, e.SalesOwnerID)
	if err != nil {
		return fmt.Errorf("resolve sales owner %s: %w", e.SalesOwnerID, err)
	}

	if contact.Email != "" {
		if err := m.mail.SendQuotationOutcomeEmail(ctx, contact.Email, contact.Name, e.QuotationNumber, e.ClientName, e.Accepted); err != nil {
			m.log.NotifyFailure("email", contact.Email, err)
		}
	}

	return nil
}

// handleTaskCreated emails the assignee about their new work item.
func (m *Module) handleTaskCreated(ctx context.Context, e events.TaskCreated) error {
	contact, err := m.directory.GetEmployeeContact(ctx, e.AssignedTo)
	if err != nil {
		return fmt.Errorf("resolve assignee %s: %w", e.AssignedTo, err)
	}
	if contact.Email == "" {
		return nil
	}

	if err := m.mail.SendTaskAssignedEmail(ctx, contact.Email, contact.Name, e.Title, e.Description); err != nil {
		m.log.NotifyFailure("email", contact.Email, err)
	}
	return nil
}

var _ events.Handler = (*Module)(nil)
