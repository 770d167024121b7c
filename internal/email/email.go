// Package email sends transactional email for the workshop: enquiry
// notifications to the garage inbox and invoice mail to customers.
package email

import (
	"context"

	"garage_crm_backend/platform/config"
)

// Sender delivers the workshop's transactional email.
type Sender interface {
	SendEnquiryNotification(ctx context.Context, toEmail, customerName, subject, message string) error
	SendInvoiceIssuedEmail(ctx context.Context, toEmail, customerName, invoiceNumber string, total float64, dueDate string) error
	SendInvoiceReminderEmail(ctx context.Context, toEmail, customerName, invoiceNumber, dueDate string) error
}

// NoopSender drops all mail. Used when email is disabled.
type NoopSender struct{}

func (NoopSender) SendEnquiryNotification(ctx context.Context, toEmail, customerName, subject, message string) error {
	return nil
}

func (NoopSender) SendInvoiceIssuedEmail(ctx context.Context, toEmail, customerName, invoiceNumber string, total float64, dueDate string) error {
	return nil
}

func (NoopSender) SendInvoiceReminderEmail(ctx context.Context, toEmail, customerName, invoiceNumber, dueDate string) error {
	return nil
}

// NewSender returns the configured sender: SMTP when email is enabled,
// otherwise a no-op.
func NewSender(cfg config.EmailConfig) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
}
