// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"garage_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event     = events.Event
	Bus       = events.Bus
	Handler   = events.Handler
	BaseEvent = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Enquiry Domain Events
// =============================================================================

// EnquiryReceived is published when a new workshop enquiry is submitted.
type EnquiryReceived struct {
	BaseEvent
	EnquiryID     uuid.UUID `json:"enquiryId"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Subject       string    `json:"subject"`
	Message       string    `json:"message"`
}

func (e EnquiryReceived) EventName() string { return "enquiries.enquiry.received" }

// EnquiryConverted is published when an enquiry is converted into a job.
type EnquiryConverted struct {
	BaseEvent
	EnquiryID uuid.UUID `json:"enquiryId"`
	JobID     uuid.UUID `json:"jobId"`
}

func (e EnquiryConverted) EventName() string { return "enquiries.enquiry.converted" }

// =============================================================================
// Quote Domain Events
// =============================================================================

// QuoteCreated is published when a quote is first drafted.
type QuoteCreated struct {
	BaseEvent
	QuoteID      uuid.UUID `json:"quoteId"`
	QuoteNumber  string    `json:"quoteNumber"`
	CustomerName string    `json:"customerName"`
	Total        float64   `json:"total"`
}

func (e QuoteCreated) EventName() string { return "quotes.quote.created" }

// QuoteConverted is published when an accepted quote becomes an invoice.
type QuoteConverted struct {
	BaseEvent
	QuoteID       uuid.UUID `json:"quoteId"`
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Total         float64   `json:"total"`
}

func (e QuoteConverted) EventName() string { return "quotes.quote.converted" }

// =============================================================================
// Invoice Domain Events
// =============================================================================

// InvoiceIssued is published when an invoice is created, whether directly
// or by converting a quote.
type InvoiceIssued struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	Total         float64   `json:"total"`
	DueDate       time.Time `json:"dueDate"`
}

func (e InvoiceIssued) EventName() string { return "invoices.invoice.issued" }

// InvoicePaid is published when an invoice is marked paid.
type InvoicePaid struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	Total         float64   `json:"total"`
}

func (e InvoicePaid) EventName() string { return "invoices.invoice.paid" }

// InvoiceReminderDue is published by the scheduler when an issued invoice
// reaches its due date without payment.
type InvoiceReminderDue struct {
	BaseEvent
	InvoiceID     uuid.UUID `json:"invoiceId"`
	InvoiceNumber string    `json:"invoiceNumber"`
	CustomerName  string    `json:"customerName"`
	CustomerEmail string    `json:"customerEmail"`
	DueDate       time.Time `json:"dueDate"`
}

func (e InvoiceReminderDue) EventName() string { return "invoices.invoice.reminder_due" }
