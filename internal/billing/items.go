// Package billing holds the pure document pricing core shared by jobs,
// quotes and invoices: line items, the totals calculator, sequence
// numbering and the per-document status machines. Nothing in this package
// touches storage or transport.
package billing

import "garage_crm_backend/platform/apperr"

// Discount types accepted by the calculator.
const (
	DiscountFixed      = "fixed"
	DiscountPercentage = "percentage"
)

// LabourItem is a single labour line on a document.
// Line total = Hours * Rate.
type LabourItem struct {
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
	Rate        float64 `json:"rate"`
}

// PartItem is a single parts line on a document.
// Line total = Quantity * UnitPrice.
type PartItem struct {
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	PartNumber string  `json:"partNumber,omitempty"`
}

// ValidateItems rejects negative numeric inputs before they reach the
// calculator. Negative hours or prices would otherwise flow through as
// negative totals.
func ValidateItems(labour []LabourItem, parts []PartItem) error {
	for i, item := range labour {
		if item.Hours < 0 {
			return apperr.Validation("labour hours must not be negative").WithDetails(map[string]int{"index": i})
		}
		if item.Rate < 0 {
			return apperr.Validation("labour rate must not be negative").WithDetails(map[string]int{"index": i})
		}
	}
	for i, item := range parts {
		if item.Quantity < 0 {
			return apperr.Validation("part quantity must not be negative").WithDetails(map[string]int{"index": i})
		}
		if item.UnitPrice < 0 {
			return apperr.Validation("part unit price must not be negative").WithDetails(map[string]int{"index": i})
		}
	}
	return nil
}
