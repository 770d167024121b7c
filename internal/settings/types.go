package settings

import "time"

// WorkingHours is the opening schedule for a single weekday.
type WorkingHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// LabourRate is a named hourly rate preset.
type LabourRate struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// Settings is the singleton business configuration record. At most one row
// exists per deployment.
type Settings struct {
	BusinessName        string                  `json:"businessName"`
	Phone               string                  `json:"phone"`
	Email               string                  `json:"email"`
	Address             string                  `json:"address"`
	Website             string                  `json:"website"`
	VATNumber           string                  `json:"vatNumber"`
	CompanyNumber       string                  `json:"companyNumber"`
	DefaultVATRate      float64                 `json:"defaultVatRate"`
	DefaultPaymentTerms int                     `json:"defaultPaymentTerms"`
	InvoicePrefix       string                  `json:"invoicePrefix"`
	QuotePrefix         string                  `json:"quotePrefix"`
	InvoiceNotes        string                  `json:"invoiceNotes"`
	QuoteNotes          string                  `json:"quoteNotes"`
	BankName            string                  `json:"bankName"`
	AccountNumber       string                  `json:"accountNumber"`
	SortCode            string                  `json:"sortCode"`
	WorkingHours        map[string]WorkingHours `json:"workingHours,omitempty"`
	LabourRates         []LabourRate            `json:"labourRates,omitempty"`
	CreatedAt           time.Time               `json:"createdAt"`
	UpdatedAt           time.Time               `json:"updatedAt"`
}

// SaveSettingsRequest is the PUT /settings payload.
type SaveSettingsRequest struct {
	BusinessName        string                  `json:"businessName" validate:"required,max=200"`
	Phone               string                  `json:"phone" validate:"omitempty,max=50"`
	Email               string                  `json:"email" validate:"omitempty,email"`
	Address             string                  `json:"address" validate:"omitempty,max=500"`
	Website             string                  `json:"website" validate:"omitempty,max=200"`
	VATNumber           string                  `json:"vatNumber" validate:"omitempty,max=50"`
	CompanyNumber       string                  `json:"companyNumber" validate:"omitempty,max=50"`
	DefaultVATRate      float64                 `json:"defaultVatRate" validate:"gte=0,lte=100"`
	DefaultPaymentTerms int                     `json:"defaultPaymentTerms" validate:"gte=0,lte=365"`
	InvoicePrefix       string                  `json:"invoicePrefix" validate:"omitempty,max=10"`
	QuotePrefix         string                  `json:"quotePrefix" validate:"omitempty,max=10"`
	InvoiceNotes        string                  `json:"invoiceNotes" validate:"omitempty,max=2000"`
	QuoteNotes          string                  `json:"quoteNotes" validate:"omitempty,max=2000"`
	BankName            string                  `json:"bankName" validate:"omitempty,max=100"`
	AccountNumber       string                  `json:"accountNumber" validate:"omitempty,max=34"`
	SortCode            string                  `json:"sortCode" validate:"omitempty,max=11"`
	WorkingHours        map[string]WorkingHours `json:"workingHours"`
	LabourRates         []LabourRate            `json:"labourRates" validate:"dive"`
}

// Defaults are the document defaults other modules read from settings.
// Values fall back to sensible constants when no settings row exists.
type Defaults struct {
	VATRate          float64
	PaymentTermsDays int
	InvoicePrefix    string
	QuotePrefix      string
	InvoiceNotes     string
	QuoteNotes       string
	BankName         string
	AccountNumber    string
	SortCode         string
	BusinessName     string
}

// Fallbacks applied when the settings row is absent or a field is unset.
const (
	FallbackVATRate       = 20.0
	FallbackPaymentTerms  = 30
	FallbackInvoicePrefix = "INV-"
	FallbackQuotePrefix   = "QT-"
)
