package email

import (
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendQuotationRejectedEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName, remarks string, amount int64) error {
	content, err := renderEmailTemplate("quotation_rejected.html", quotationRejectedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Quotation rejected",
			Heading: fmt.Sprintf("Quotation %s needs a revision", quotationNumber),
		},
		OwnerName:       ownerName,
		QuotationNumber: quotationNumber,
		ClientName:      clientName,
		Remarks:         remarks,
		AmountFormatted: formatCurrencyINR(amount),
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectQuotationRejectedFmt, quotationNumber), content)
}

func (s *SMTPSender) SendQuotationOutcomeEmail(ctx context.Context, toEmail, ownerName, quotationNumber, clientName string, accepted bool) error {
	outcome := "declined"
	subject := fmt.Sprintf(subjectQuotationDeclinedFmt, quotationNumber)
	if accepted {
		outcome = "accepted"
		subject = fmt.Sprintf(subjectQuotationAcceptedFmt, quotationNumber)
	}

	content, err := renderEmailTemplate("quotation_outcome.html", quotationOutcomeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Client response received",
			Heading: fmt.Sprintf("Quotation %s was %s", quotationNumber, outcome),
		},
		OwnerName:       ownerName,
		QuotationNumber: quotationNumber,
		ClientName:      clientName,
		Outcome:         outcome,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendTaskAssignedEmail(ctx context.Context, toEmail, assigneeName, taskTitle, taskDescription string) error {
	content, err := renderEmailTemplate("task_assigned.html", taskAssignedEmailData{
		baseEmailData: baseEmailData{
			Title:   "New task assigned",
			Heading: "A new task was assigned to you",
		},
		AssigneeName:    assigneeName,
		TaskTitle:       taskTitle,
		TaskDescription: taskDescription,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectTaskAssignedFmt, taskTitle), content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
