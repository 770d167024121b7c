// Package notification subscribes to domain events and sends the workshop's
// email: enquiry alerts to the garage inbox, invoice mail to customers.
// Domain modules publish events and never touch email directly.
package notification

import (
	"context"
	"fmt"

	"garage_crm_backend/internal/email"
	"garage_crm_backend/internal/events"
	"garage_crm_backend/platform/logger"
)

const dueDateFormat = "2 January 2006"

// Module routes domain events to the email sender.
type Module struct {
	sender        email.Sender
	workshopInbox string
	log           *logger.Logger
}

// NewModule creates the notification module.
func NewModule(sender email.Sender, workshopInbox string, log *logger.Logger) *Module {
	return &Module{sender: sender, workshopInbox: workshopInbox, log: log}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes the module to the events it emails about.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.EnquiryReceived{}.EventName(), m)
	bus.Subscribe(events.InvoiceIssued{}.EventName(), m)
	bus.Subscribe(events.InvoiceReminderDue{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.EnquiryReceived:
		return m.handleEnquiryReceived(ctx, e)
	case events.InvoiceIssued:
		return m.handleInvoiceIssued(ctx, e)
	case events.InvoiceReminderDue:
		return m.handleInvoiceReminderDue(ctx, e)
	default:
		return fmt.Errorf("notification: unhandled event %s", event.EventName())
	}
}

func (m *Module) handleEnquiryReceived(ctx context.Context, e events.EnquiryReceived) error {
	if m.workshopInbox == "" {
		return nil
	}
	if err := m.sender.SendEnquiryNotification(ctx, m.workshopInbox, e.CustomerName, e.Subject, e.Message); err != nil {
		m.log.Error("failed to send enquiry notification", "enquiryId", e.EnquiryID, "error", err)
	}
	return nil
}

func (m *Module) handleInvoiceIssued(ctx context.Context, e events.InvoiceIssued) error {
	if e.CustomerEmail == "" {
		return nil
	}
	err := m.sender.SendInvoiceIssuedEmail(ctx, e.CustomerEmail, e.CustomerName, e.InvoiceNumber, e.Total, e.DueDate.Format(dueDateFormat))
	if err != nil {
		m.log.Error("failed to send invoice email", "invoiceId", e.InvoiceID, "error", err)
	}
	return nil
}

func (m *Module) handleInvoiceReminderDue(ctx context.Context, e events.InvoiceReminderDue) error {
	if e.CustomerEmail == "" {
		return nil
	}
	err := m.sender.SendInvoiceReminderEmail(ctx, e.CustomerEmail, e.CustomerName, e.InvoiceNumber, e.DueDate.Format(dueDateFormat))
	if err != nil {
		m.log.Error("failed to send invoice reminder", "invoiceId", e.InvoiceID, "error", err)
	}
	return nil
}
