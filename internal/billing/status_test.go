package billing

import (
	"testing"
	"time"

	"garage_crm_backend/platform/apperr"
)

func TestTransitionQuote(t *testing.T) {
	allowed := []struct{ from, to string }{
		{QuotePending, QuoteAccepted},
		{QuotePending, QuoteRejected},
		{QuotePending, QuoteExpired},
		{QuotePending, QuoteConverted},
		{QuoteAccepted, QuoteConverted},
	}
	for _, tc := range allowed {
		got, err := TransitionQuote(tc.from, tc.to)
		if err != nil {
			t.Fatalf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
		}
		if got != tc.to {
			t.Fatalf("expected %s, got %s", tc.to, got)
		}
	}

	denied := []struct{ from, to string }{
		{QuoteConverted, QuotePending},
		{QuoteRejected, QuoteConverted},
		{QuoteExpired, QuoteAccepted},
		{QuoteAccepted, QuoteRejected},
	}
	for _, tc := range denied {
		got, err := TransitionQuote(tc.from, tc.to)
		if !apperr.Is(err, apperr.KindInvalidTransition) {
			t.Fatalf("%s -> %s should be rejected, got err %v", tc.from, tc.to, err)
		}
		if got != tc.from {
			t.Fatalf("rejected transition must not change status, got %s", got)
		}
	}
}

func TestTransitionInvoice(t *testing.T) {
	if _, err := TransitionInvoice(InvoiceUnpaid, InvoicePaid); err != nil {
		t.Fatalf("unpaid -> paid should be allowed: %v", err)
	}
	if _, err := TransitionInvoice(InvoicePartial, InvoicePaid); err != nil {
		t.Fatalf("partial -> paid should be allowed: %v", err)
	}
	if _, err := TransitionInvoice(InvoicePaid, InvoiceUnpaid); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("paid is terminal, got err %v", err)
	}
	if _, err := TransitionInvoice(InvoiceCancelled, InvoicePaid); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("cancelled is terminal, got err %v", err)
	}
}

func TestTransitionJob(t *testing.T) {
	if _, err := TransitionJob(JobPending, JobQuoted); err != nil {
		t.Fatalf("pending -> quoted should be allowed: %v", err)
	}
	if _, err := TransitionJob(JobQuoted, JobInProgress); err != nil {
		t.Fatalf("quoted -> in-progress should be allowed: %v", err)
	}
	if _, err := TransitionJob(JobInProgress, JobCompleted); err != nil {
		t.Fatalf("in-progress -> completed should be allowed: %v", err)
	}
	if _, err := TransitionJob(JobCompleted, JobCancelled); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("completed is terminal, got err %v", err)
	}
	if _, err := TransitionJob(JobPending, JobCompleted); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("pending cannot skip to completed, got err %v", err)
	}
}

func TestTransitionEnquiry(t *testing.T) {
	if _, err := TransitionEnquiry(EnquiryNew, EnquiryContacted); err != nil {
		t.Fatalf("new -> contacted should be allowed: %v", err)
	}
	if _, err := TransitionEnquiry(EnquiryContacted, EnquiryConverted); err != nil {
		t.Fatalf("contacted -> converted should be allowed: %v", err)
	}
	if _, err := TransitionEnquiry(EnquiryConverted, EnquiryClosed); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("converted is terminal, got err %v", err)
	}
	if _, err := TransitionEnquiry(EnquiryClosed, EnquiryNew); !apperr.Is(err, apperr.KindInvalidTransition) {
		t.Fatalf("closed is terminal, got err %v", err)
	}
}

func TestInvoiceOverdue(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -1)
	future := now.AddDate(0, 0, 1)

	if !InvoiceOverdue(InvoiceUnpaid, past, now) {
		t.Fatal("unpaid past due should be overdue")
	}
	if !InvoiceOverdue(InvoicePartial, past, now) {
		t.Fatal("partial past due should be overdue")
	}
	if InvoiceOverdue(InvoiceUnpaid, future, now) {
		t.Fatal("not yet due should not be overdue")
	}
	if InvoiceOverdue(InvoicePaid, past, now) {
		t.Fatal("paid invoices are never overdue")
	}
	if InvoiceOverdue(InvoiceCancelled, past, now) {
		t.Fatal("cancelled invoices are never overdue")
	}
}
