package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type quotationRejectedEmailData struct {
	baseEmailData
	OwnerName       string
	QuotationNumber string
	ClientName      string
	Remarks         string
	AmountFormatted string
}

type quotationOutcomeEmailData struct {
	baseEmailData
	OwnerName       string
	QuotationNumber string
	ClientName      string
	Outcome         string
}

type taskAssignedEmailData struct {
	baseEmailData
	AssigneeName    string
	TaskTitle       string
	TaskDescription string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrencyINR(amount int64) string {
	return fmt.Sprintf("₹%d", amount)
}
