package billing

import (
	"time"

	"garage_crm_backend/platform/apperr"
)

// Quote statuses.
const (
	QuotePending   = "pending"
	QuoteAccepted  = "accepted"
	QuoteRejected  = "rejected"
	QuoteExpired   = "expired"
	QuoteConverted = "converted"
)

// Invoice statuses. Overdue is never stored; it is derived at read time
// with InvoiceOverdue.
const (
	InvoiceUnpaid    = "unpaid"
	InvoicePaid      = "paid"
	InvoicePartial   = "partial"
	InvoiceCancelled = "cancelled"
)

// Job statuses.
const (
	JobPending    = "pending"
	JobQuoted     = "quoted"
	JobInProgress = "in-progress"
	JobCompleted  = "completed"
	JobCancelled  = "cancelled"
)

// Enquiry statuses.
const (
	EnquiryNew       = "new"
	EnquiryContacted = "contacted"
	EnquiryConverted = "converted"
	EnquiryClosed    = "closed"
)

// transitions maps current status to the set of statuses reachable from it.
// Anything not listed is rejected; a failed transition never mutates.
var (
	quoteTransitions = map[string][]string{
		QuotePending:  {QuoteAccepted, QuoteRejected, QuoteExpired, QuoteConverted},
		QuoteAccepted: {QuoteConverted},
	}
	invoiceTransitions = map[string][]string{
		InvoiceUnpaid:  {InvoicePaid, InvoicePartial, InvoiceCancelled},
		InvoicePartial: {InvoicePaid, InvoiceCancelled},
	}
	jobTransitions = map[string][]string{
		JobPending:    {JobQuoted, JobInProgress, JobCancelled},
		JobQuoted:     {JobInProgress, JobCancelled},
		JobInProgress: {JobCompleted, JobCancelled},
	}
	enquiryTransitions = map[string][]string{
		EnquiryNew:       {EnquiryContacted, EnquiryConverted, EnquiryClosed},
		EnquiryContacted: {EnquiryConverted, EnquiryClosed},
	}
)

func canTransition(table map[string][]string, from, to string) bool {
	for _, allowed := range table[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func transition(table map[string][]string, docType, from, to string) (string, error) {
	if !canTransition(table, from, to) {
		return from, apperr.InvalidTransition(docType + " cannot move from " + from + " to " + to)
	}
	return to, nil
}

// CanTransitionQuote reports whether a quote may move from one status to another.
func CanTransitionQuote(from, to string) bool { return canTransition(quoteTransitions, from, to) }

// CanTransitionInvoice reports whether an invoice may move from one status to another.
func CanTransitionInvoice(from, to string) bool { return canTransition(invoiceTransitions, from, to) }

// CanTransitionJob reports whether a job may move from one status to another.
func CanTransitionJob(from, to string) bool { return canTransition(jobTransitions, from, to) }

// CanTransitionEnquiry reports whether an enquiry may move from one status to another.
func CanTransitionEnquiry(from, to string) bool { return canTransition(enquiryTransitions, from, to) }

// TransitionQuote returns the new status, or the unchanged status with an
// InvalidTransition error when the change is not in the table.
func TransitionQuote(from, to string) (string, error) {
	return transition(quoteTransitions, "quote", from, to)
}

// TransitionInvoice validates an invoice status change.
func TransitionInvoice(from, to string) (string, error) {
	return transition(invoiceTransitions, "invoice", from, to)
}

// TransitionJob validates a job status change.
func TransitionJob(from, to string) (string, error) {
	return transition(jobTransitions, "job", from, to)
}

// TransitionEnquiry validates an enquiry status change.
func TransitionEnquiry(from, to string) (string, error) {
	return transition(enquiryTransitions, "enquiry", from, to)
}

// QuoteConvertibleStatuses are the statuses a quote may be converted from.
var QuoteConvertibleStatuses = []string{QuotePending, QuoteAccepted}

// EnquiryConvertibleStatuses are the statuses an enquiry may be converted from.
var EnquiryConvertibleStatuses = []string{EnquiryNew, EnquiryContacted}

// InvoiceOverdue reports whether an invoice should display as overdue:
// unpaid or partial, past its due date at the given instant.
func InvoiceOverdue(status string, dueDate time.Time, now time.Time) bool {
	if status == InvoicePaid || status == InvoiceCancelled {
		return false
	}
	return dueDate.Before(now)
}
