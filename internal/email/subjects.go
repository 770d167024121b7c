package email

const (
	subjectEnquiryReceived    = "New website enquiry"
	subjectInvoiceIssuedFmt   = "Invoice %s from your garage"
	subjectInvoiceReminderFmt = "Payment reminder: invoice %s"
)
