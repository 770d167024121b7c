package email

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
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
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendEnquiryNotification(ctx context.Context, toEmail, customerName, subject, message string) error {
	content, err := renderEmailTemplate("enquiry_received.html", enquiryEmailData{
		baseEmailData: baseEmailData{
			Title:   "New enquiry received",
			Heading: "New enquiry received",
		},
		CustomerName: customerName,
		Subject:      subject,
		Message:      message,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectEnquiryReceived, content)
}

func (s *SMTPSender) SendInvoiceIssuedEmail(ctx context.Context, toEmail, customerName, invoiceNumber string, total float64, dueDate string) error {
	content, err := renderEmailTemplate("invoice_issued.html", invoiceIssuedEmailData{
		baseEmailData: baseEmailData{
			Title:   "Your invoice",
			Heading: "Your invoice " + invoiceNumber,
		},
		CustomerName:   customerName,
		InvoiceNumber:  invoiceNumber,
		TotalFormatted: fmt.Sprintf("%.2f", total),
		DueDate:        dueDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoiceIssuedFmt, invoiceNumber), content)
}

func (s *SMTPSender) SendInvoiceReminderEmail(ctx context.Context, toEmail, customerName, invoiceNumber, dueDate string) error {
	content, err := renderEmailTemplate("invoice_reminder.html", invoiceReminderEmailData{
		baseEmailData: baseEmailData{
			Title:   "Payment reminder",
			Heading: "Payment reminder for " + invoiceNumber,
		},
		CustomerName:  customerName,
		InvoiceNumber: invoiceNumber,
		DueDate:       dueDate,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectInvoiceReminderFmt, invoiceNumber), content)
}
