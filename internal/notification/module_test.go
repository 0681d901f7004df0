package notification

import (
	"context"
	"errors"
	"testing"

	"studio_backend/internal/events"
	"studio_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	rejectedCalls int
	outcomeCalls  int
	taskCalls     int
	lastAccepted  bool
	lastEmail     string
	lastTaskTitle string
	err           error
}

func (s *testSender) SendQuotationRejectedEmail(_ context.Context, toEmail, _, _, _, _ string, _ int64) error {
	s.rejectedCalls++
	s.lastEmail = toEmail
	return s.err
}

func (s *testSender) SendQuotationOutcomeEmail(_ context.Context, toEmail, _, _, _ string, accepted bool) error {
	s.outcomeCalls++
	s.lastEmail = toEmail
	s.lastAccepted = accepted
	return s.err
}

func (s *testSender) SendTaskAssignedEmail(_ context.Context, toEmail, _, taskTitle, _ string) error {
	s.taskCalls++
	s.lastEmail = toEmail
	s.lastTaskTitle = taskTitle
	return s.err
}

func (s *testSender) SendCustomEmail(context.Context, string, string, string) error { return nil }

type testDirectory struct {
	contact *EmployeeContact
	err     error
}

func (d testDirectory) GetEmployeeContact(context.Context, uuid.UUID) (*EmployeeContact, error) {
	return d.contact, d.err
}

type testWhatsApp struct {
	calls     int
	lastPhone string
	lastMsg   string
	err       error
}

func (w *testWhatsApp) SendMessage(_ context.Context, phone, message string) (string, error) {
	w.calls++
	w.lastPhone = phone
	w.lastMsg = message
	if w.err != nil {
		return "", w.err
	}
	return "wamid.test", nil
}

func rejectedEvent() events.QuotationRejected {
	return events.QuotationRejected{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     uuid.New(),
		QuotationNumber: "QT-2026-0042",
		ClientName:      "Rohan Mehta",
		Amount:          45000,
		Remarks:         "Please lower photography package price",
		RejectedBy:      "Priya Sharma",
		SalesOwnerID:    uuid.New(),
	}
}

func TestRejectedEventNotifiesOwnerOnBothChannels(t *testing.T) {
	sender := &testSender{}
	wa := &testWhatsApp{}
	dir := testDirectory{contact: &EmployeeContact{
		Name:  "Vikram Singh",
		Email: "vikram@studio.example",
		Phone: "+919812345678",
	}}
	m := New(sender, dir, wa, logger.New("development"))

	if err := m.Handle(context.Background(), rejectedEvent()); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if sender.rejectedCalls != 1 {
		t.Fatalf("rejectedCalls = %d, want 1", sender.rejectedCalls)
	}
	if sender.lastEmail != "vikram@studio.example" {
		t.Fatalf("email sent to %q", sender.lastEmail)
	}
	if wa.calls != 1 || wa.lastPhone != "+919812345678" {
		t.Fatalf("whatsapp calls = %d phone = %q", wa.calls, wa.lastPhone)
	}
}

func TestRejectedEventEmailFailureStillSendsWhatsApp(t *testing.T) {
	sender := &testSender{err: errors.New("smtp down")}
	wa := &testWhatsApp{}
	dir := testDirectory{contact: &EmployeeContact{
		Name:  "Vikram Singh",
		Email: "vikram@studio.example",
		Phone: "+919812345678",
	}}
	m := New(sender, dir, wa, logger.New("development"))

	if err := m.Handle(context.Background(), rejectedEvent()); err != nil {
		t.Fatalf("Handle should swallow channel failures, got %v", err)
	}
	if wa.calls != 1 {
		t.Fatalf("whatsapp calls = %d, want 1", wa.calls)
	}
}

func TestRejectedEventUnknownOwnerReturnsError(t *testing.T) {
	sender := &testSender{}
	dir := testDirectory{err: errors.New("employee not found")}
	m := New(sender, dir, nil, logger.New("development"))

	if err := m.Handle(context.Background(), rejectedEvent()); err == nil {
		t.Fatal("expected error when owner lookup fails")
	}
	if sender.rejectedCalls != 0 {
		t.Fatalf("rejectedCalls = %d, want 0", sender.rejectedCalls)
	}
}

func TestClientRespondedSendsOutcomeEmail(t *testing.T) {
	sender := &testSender{}
	dir := testDirectory{contact: &EmployeeContact{
		Name:  "Vikram Singh",
		Email: "vikram@studio.example",
	}}
	m := New(sender, dir, nil, logger.New("development"))

	err := m.Handle(context.Background(), events.QuotationClientResponded{
		BaseEvent:       events.NewBaseEvent(),
		QuotationID:     uuid.New(),
		QuotationNumber: "QT-2026-0042",
		ClientName:      "Rohan Mehta",
		Accepted:        true,
		SalesOwnerID:    uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.outcomeCalls != 1 || !sender.lastAccepted {
		t.Fatalf("outcomeCalls = %d accepted = %v", sender.outcomeCalls, sender.lastAccepted)
	}
}

func TestTaskCreatedEmailsAssignee(t *testing.T) {
	sender := &testSender{}
	dir := testDirectory{contact: &EmployeeContact{
		Name:  "Vikram Singh",
		Email: "vikram@studio.example",
	}}
	m := New(sender, dir, nil, logger.New("development"))

	err := m.Handle(context.Background(), events.TaskCreated{
		BaseEvent:   events.NewBaseEvent(),
		TaskID:      uuid.New(),
		Title:       "Revise quotation QT-2026-0042 for Rohan Mehta",
		Description: "Rejected by Priya Sharma: lower the package price",
		TaskType:    "quotation_revision",
		Priority:    "high",
		AssignedTo:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if sender.taskCalls != 1 {
		t.Fatalf("taskCalls = %d, want 1", sender.taskCalls)
	}
	if sender.lastEmail != "vikram@studio.example" || sender.lastTaskTitle != "Revise quotation QT-2026-0042 for Rohan Mehta" {
		t.Fatalf("email %q title %q", sender.lastEmail, sender.lastTaskTitle)
	}
}
