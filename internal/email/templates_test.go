package email

import (
	"strings"
	"testing"
)

func TestRenderEnquiryTemplate(t *testing.T) {
	html, err := renderEmailTemplate("enquiry_received.html", enquiryEmailData{
		baseEmailData: baseEmailData{Title: "New Enquiry", Heading: "New workshop enquiry"},
		CustomerName:  "John Smith",
		Subject:       "AB12 CDE",
		Message:       "Brakes squealing on the motorway",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"John Smith", "AB12 CDE", "Brakes squealing on the motorway"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderInvoiceIssuedTemplate(t *testing.T) {
	html, err := renderEmailTemplate("invoice_issued.html", invoiceIssuedEmailData{
		baseEmailData:  baseEmailData{Title: "Invoice INV-00042", Heading: "Your invoice"},
		CustomerName:   "Jane Doe",
		InvoiceNumber:  "INV-00042",
		TotalFormatted: "£240.00",
		DueDate:        "14 March 2025",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Jane Doe", "INV-00042", "£240.00", "14 March 2025"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}

func TestRenderInvoiceReminderTemplate(t *testing.T) {
	html, err := renderEmailTemplate("invoice_reminder.html", invoiceReminderEmailData{
		baseEmailData: baseEmailData{Title: "Payment reminder", Heading: "Payment reminder"},
		CustomerName:  "Jane Doe",
		InvoiceNumber: "INV-00007",
		DueDate:       "2 January 2025",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Jane Doe", "INV-00007", "2 January 2025"} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected rendered email to contain %q", want)
		}
	}
}
