package domain

import (
	"strings"
	"testing"

	"studio_backend/platform/apperr"

	"github.com/google/uuid"
)

func newQuotation(status Status) *Quotation {
	return &Quotation{
		ID:              uuid.New(),
		QuotationNumber: "QT-2026-0042",
		ClientName:      "Priya Sharma",
		ClientPhone:     "+919876543210",
		SalesOwnerID:    uuid.New(),
		Amount:          33000,
		Status:          status,
	}
}

func TestApproveRequiresPendingApproval(t *testing.T) {
	for _, status := range []Status{
		StatusDraft, StatusApproved, StatusRejected,
		StatusSentToClient, StatusClientAccepted, StatusClientDeclined, StatusClosed,
	} {
		q := newQuotation(status)
		if _, err := q.Approve("fine", "Rajesh"); !apperr.Is(err, apperr.KindInvalidTransition) {
			t.Fatalf("Approve from %s: expected invalid transition, got %v", status, err)
		}
		if q.Status != status {
			t.Fatalf("Approve from %s mutated status to %s", status, q.Status)
		}
	}
}

func TestApproveDefaultsMessage(t *testing.T) {
	q := newQuotation(StatusPendingApproval)

	action, err := q.Approve("   ", "Rajesh")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}

	if q.Status != StatusApproved {
		t.Fatalf("expected status approved, got %s", q.Status)
	}
	if action.Message != "Quote approved" {
		t.Fatalf("expected default approval message, got %q", action.Message)
	}
	if action.Type != ActionApproval {
		t.Fatalf("expected approval action, got %s", action.Type)
	}
	if action.Status != StatusApproved {
		t.Fatalf("action snapshot should be approved, got %s", action.Status)
	}
}

func TestRejectRequiresRemarks(t *testing.T) {
	for _, remarks := range []string{"", "   "} {
		q := newQuotation(StatusPendingApproval)
		q.RejectionRemarks = ""

		_, err := q.Reject(remarks, "Rajesh")
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("Reject(%q): expected validation error, got %v", remarks, err)
		}
		if q.Status != StatusPendingApproval {
			t.Fatalf("Reject(%q) mutated status to %s", remarks, q.Status)
		}
		if q.RejectionRemarks != "" {
			t.Fatalf("Reject(%q) mutated remarks to %q", remarks, q.RejectionRemarks)
		}
		if len(q.Actions) != 0 {
			t.Fatalf("Reject(%q) appended an action", remarks)
		}
	}
}

func TestRejectRequiresPendingApproval(t *testing.T) {
	q := newQuotation(StatusApproved)
	if _, err := q.Reject("too expensive", "Rajesh"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestSubmitRevisionGuards(t *testing.T) {
	q := newQuotation(StatusPendingApproval)
	if _, err := q.SubmitRevision(20000, "notes", "Anita"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("revision outside rejected: expected invalid transition, got %v", err)
	}

	rejected := newQuotation(StatusRejected)
	if _, err := rejected.SubmitRevision(0, "notes", "Anita"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("zero amount: expected validation error, got %v", err)
	}
	if _, err := rejected.SubmitRevision(-5, "notes", "Anita"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("negative amount: expected validation error, got %v", err)
	}
	if _, err := rejected.SubmitRevision(20000, "  ", "Anita"); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("blank notes: expected validation error, got %v", err)
	}
	if rejected.RevisionCount != 0 || rejected.Amount != 33000 {
		t.Fatalf("failed revisions mutated the quotation: %+v", rejected)
	}
}

func TestSubmitRevisionUpdatesQuotation(t *testing.T) {
	q := newQuotation(StatusRejected)
	q.RejectionRemarks = "Package too expensive"

	action, err := q.SubmitRevision(50000, "reduced photographer hours", "Anita")
	if err != nil {
		t.Fatalf("SubmitRevision: %v", err)
	}

	if q.Status != StatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", q.Status)
	}
	if q.Amount != 50000 {
		t.Fatalf("expected amount 50000, got %d", q.Amount)
	}
	if q.RevisionCount != 1 {
		t.Fatalf("expected revision count 1, got %d", q.RevisionCount)
	}
	if q.RejectionRemarks != "" {
		t.Fatalf("expected remarks cleared, got %q", q.RejectionRemarks)
	}
	if len(q.Actions) != 1 || action.Type != ActionRevision {
		t.Fatalf("expected exactly one revision action, got %+v", q.Actions)
	}
	if !strings.Contains(action.Message, "50000") || !strings.Contains(action.Message, "reduced photographer hours") {
		t.Fatalf("revision message missing amount or notes: %q", action.Message)
	}
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	q := newQuotation(StatusDraft)
	if err := q.Submit(); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if q.Status != StatusPendingApproval {
		t.Fatalf("expected pending_approval, got %s", q.Status)
	}

	if err := q.Submit(); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("resubmit: expected invalid transition, got %v", err)
	}
}

func TestMarkSentRequiresApproved(t *testing.T) {
	q := newQuotation(StatusPendingApproval)
	if _, err := q.MarkSent("wamid.123"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}

func TestRecordClientResponse(t *testing.T) {
	q := newQuotation(StatusSentToClient)
	action, err := q.RecordClientResponse(true, "Priya Sharma")
	if err != nil {
		t.Fatalf("RecordClientResponse: %v", err)
	}
	if q.Status != StatusClientAccepted || action.Type != ActionClientResponse {
		t.Fatalf("unexpected result: status=%s action=%+v", q.Status, action)
	}

	declined := newQuotation(StatusSentToClient)
	if _, err := declined.RecordClientResponse(false, "Priya Sharma"); err != nil {
		t.Fatalf("RecordClientResponse decline: %v", err)
	}
	if declined.Status != StatusClientDeclined {
		t.Fatalf("expected client_declined, got %s", declined.Status)
	}

	// Both outcomes are terminal.
	if _, err := q.RecordClientResponse(false, "Priya Sharma"); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("expected invalid transition from terminal state, got %v", err)
	}
}

func TestWorkflowScenario(t *testing.T) {
	q := newQuotation(StatusPendingApproval)

	if _, err := q.Reject("Please lower photography package price", "Rajesh"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if q.Status != StatusRejected {
		t.Fatalf("expected rejected, got %s", q.Status)
	}
	if q.RejectionRemarks != "Please lower photography package price" {
		t.Fatalf("unexpected remarks %q", q.RejectionRemarks)
	}
	if len(q.Actions) != 1 || q.Actions[0].Type != ActionRejection {
		t.Fatalf("expected one rejection action, got %+v", q.Actions)
	}

	if _, err := q.SubmitRevision(28000, "Switched to basic package", "Anita"); err != nil {
		t.Fatalf("SubmitRevision: %v", err)
	}
	if q.Status != StatusPendingApproval || q.Amount != 28000 || q.RevisionCount != 1 || q.RejectionRemarks != "" {
		t.Fatalf("unexpected state after revision: %+v", q)
	}
	if last := q.LatestAction(); last.Type != ActionRevision || !strings.Contains(last.Message, "28000") {
		t.Fatalf("unexpected revision action: %+v", last)
	}

	if _, err := q.Approve("Looks good", "Rajesh"); err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if last := q.LatestAction(); last.Type != ActionApproval || last.Message != "Looks good" {
		t.Fatalf("unexpected approval action: %+v", last)
	}

	if _, err := q.MarkSent("wamid.HBgMOTE5ODc2"); err != nil {
		t.Fatalf("MarkSent: %v", err)
	}
	if q.Status != StatusSentToClient {
		t.Fatalf("expected sent_to_client, got %s", q.Status)
	}
	if last := q.LatestAction(); !strings.Contains(last.Message, "wamid.HBgMOTE5ODc2") || last.Actor != "System" {
		t.Fatalf("unexpected send action: %+v", last)
	}

	// One action per successful transition except the status-only submit.
	if len(q.Actions) != 4 {
		t.Fatalf("expected 4 actions, got %d", len(q.Actions))
	}
	for i := 1; i < len(q.Actions); i++ {
		if q.Actions[i].Timestamp.Before(q.Actions[i-1].Timestamp) {
			t.Fatalf("actions out of order at %d", i)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	q := newQuotation(StatusPendingApproval)
	clone := q.Clone()

	if _, err := clone.Reject("too high", "Rajesh"); err != nil {
		t.Fatalf("Reject on clone: %v", err)
	}

	if q.Status != StatusPendingApproval || len(q.Actions) != 0 {
		t.Fatalf("mutating clone leaked into original: %+v", q)
	}
}
