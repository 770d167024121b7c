package billing

import (
	"math"

	"garage_crm_backend/platform/apperr"
)

// PricingInput is everything the calculator needs to price a document.
type PricingInput struct {
	Labour       []LabourItem
	Parts        []PartItem
	Discount     float64
	DiscountType string
	VATRate      float64
}

// Totals is the calculator output. Values keep full float precision;
// callers round with Round2 at the presentation boundary so repeated
// edits do not compound rounding error.
type Totals struct {
	LabourTotal    float64 `json:"labourTotal"`
	PartsTotal     float64 `json:"partsTotal"`
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	VATAmount      float64 `json:"vatAmount"`
	Total          float64 `json:"total"`
}

// Rounded returns a copy with every field rounded to 2 decimal places.
func (t Totals) Rounded() Totals {
	return Totals{
		LabourTotal:    Round2(t.LabourTotal),
		PartsTotal:     Round2(t.PartsTotal),
		Subtotal:       Round2(t.Subtotal),
		DiscountAmount: Round2(t.DiscountAmount),
		VATAmount:      Round2(t.VATAmount),
		Total:          Round2(t.Total),
	}
}

// Round2 rounds a currency value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate prices a document from its line items.
// The discount amount is capped at the subtotal so the taxable base never
// goes negative, and VAT is charged on the discounted base. Calculate is a
// pure function: identical inputs always produce identical outputs.
func Calculate(in PricingInput) (Totals, error) {
	if err := ValidateItems(in.Labour, in.Parts); err != nil {
		return Totals{}, err
	}
	if in.Discount < 0 {
		return Totals{}, apperr.Validation("discount must not be negative")
	}
	if in.VATRate < 0 {
		return Totals{}, apperr.Validation("vat rate must not be negative")
	}
	if in.DiscountType != "" && in.DiscountType != DiscountFixed && in.DiscountType != DiscountPercentage {
		return Totals{}, apperr.Validation("discount type must be fixed or percentage")
	}

	var labourTotal float64
	for _, item := range in.Labour {
		labourTotal += item.Hours * item.Rate
	}

	var partsTotal float64
	for _, item := range in.Parts {
		partsTotal += float64(item.Quantity) * item.UnitPrice
	}

	subtotal := labourTotal + partsTotal

	var discountAmount float64
	switch in.DiscountType {
	case DiscountPercentage:
		discountAmount = subtotal * (in.Discount / 100)
	default:
		// fixed is the default when unspecified
		discountAmount = in.Discount
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}

	taxableBase := subtotal - discountAmount
	if taxableBase < 0 {
		taxableBase = 0
	}
	vatAmount := taxableBase * (in.VATRate / 100)

	return Totals{
		LabourTotal:    labourTotal,
		PartsTotal:     partsTotal,
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		VATAmount:      vatAmount,
		Total:          subtotal - discountAmount + vatAmount,
	}, nil
}
