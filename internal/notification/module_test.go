package notification

import (
	"context"
	"testing"
	"time"

	"garage_crm_backend/internal/events"
	"garage_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type testSender struct {
	enquiryCalls  int
	issuedCalls   int
	reminderCalls int
	lastTo        string
	lastDueDate   string
}

func (s *testSender) SendEnquiryNotification(_ context.Context, toEmail, _, _, _ string) error {
	s.enquiryCalls++
	s.lastTo = toEmail
	return nil
}

func (s *testSender) SendInvoiceIssuedEmail(_ context.Context, toEmail, _, _ string, _ float64, dueDate string) error {
	s.issuedCalls++
	s.lastTo = toEmail
	s.lastDueDate = dueDate
	return nil
}

func (s *testSender) SendInvoiceReminderEmail(_ context.Context, toEmail, _, _, dueDate string) error {
	s.reminderCalls++
	s.lastTo = toEmail
	s.lastDueDate = dueDate
	return nil
}

func TestHandleEnquiryReceivedSendsToWorkshopInbox(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, "workshop@example.com", logger.New("development"))

	err := m.Handle(context.Background(), events.EnquiryReceived{
		EnquiryID:    uuid.New(),
		CustomerName: "John Smith",
		Subject:      "AB12 CDE",
		Message:      "Brakes squealing on the motorway",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.enquiryCalls != 1 {
		t.Fatalf("expected 1 enquiry notification, got %d", sender.enquiryCalls)
	}
	if sender.lastTo != "workshop@example.com" {
		t.Fatalf("expected notification to workshop inbox, got %s", sender.lastTo)
	}
}

func TestHandleEnquiryReceivedSkipsWhenInboxUnset(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, "", logger.New("development"))

	err := m.Handle(context.Background(), events.EnquiryReceived{
		EnquiryID:    uuid.New(),
		CustomerName: "John Smith",
		Message:      "Brakes squealing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.enquiryCalls != 0 {
		t.Fatalf("expected no enquiry notification, got %d", sender.enquiryCalls)
	}
}

func TestHandleInvoiceIssuedFormatsDueDate(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, "workshop@example.com", logger.New("development"))

	dueDate := time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC)
	err := m.Handle(context.Background(), events.InvoiceIssued{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-00042",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		Total:         240,
		DueDate:       dueDate,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.issuedCalls != 1 {
		t.Fatalf("expected 1 invoice email, got %d", sender.issuedCalls)
	}
	if sender.lastTo != "jane@example.com" {
		t.Fatalf("expected invoice email to customer, got %s", sender.lastTo)
	}
	if sender.lastDueDate != "14 March 2025" {
		t.Fatalf("expected due date 14 March 2025, got %s", sender.lastDueDate)
	}
}

func TestHandleInvoiceEventsSkipWithoutCustomerEmail(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, "workshop@example.com", logger.New("development"))

	if err := m.Handle(context.Background(), events.InvoiceIssued{InvoiceID: uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := m.Handle(context.Background(), events.InvoiceReminderDue{InvoiceID: uuid.New()}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.issuedCalls != 0 || sender.reminderCalls != 0 {
		t.Fatalf("expected no emails without a customer address, got %d issued, %d reminders", sender.issuedCalls, sender.reminderCalls)
	}
}

func TestHandleReminderDueSendsReminder(t *testing.T) {
	sender := &testSender{}
	m := NewModule(sender, "workshop@example.com", logger.New("development"))

	err := m.Handle(context.Background(), events.InvoiceReminderDue{
		InvoiceID:     uuid.New(),
		InvoiceNumber: "INV-00007",
		CustomerName:  "Jane Doe",
		CustomerEmail: "jane@example.com",
		DueDate:       time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sender.reminderCalls != 1 {
		t.Fatalf("expected 1 reminder, got %d", sender.reminderCalls)
	}
	if sender.lastDueDate != "2 January 2025" {
		t.Fatalf("expected due date 2 January 2025, got %s", sender.lastDueDate)
	}
}
