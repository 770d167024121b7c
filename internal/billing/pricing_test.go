package billing

import (
	"math"
	"testing"

	"garage_crm_backend/platform/apperr"
)

func TestCalculate_PercentageDiscountWithVAT(t *testing.T) {
	in := PricingInput{
		Labour:       []LabourItem{{Description: "service", Hours: 2, Rate: 50}},
		Parts:        []PartItem{{Name: "oil filter", Quantity: 1, UnitPrice: 20}},
		Discount:     10,
		DiscountType: DiscountPercentage,
		VATRate:      20,
	}

	totals, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if totals.Subtotal != 120 {
		t.Fatalf("expected subtotal 120, got %v", totals.Subtotal)
	}
	if totals.DiscountAmount != 12 {
		t.Fatalf("expected discount 12, got %v", totals.DiscountAmount)
	}
	if totals.VATAmount != 21.6 {
		t.Fatalf("expected VAT 21.6, got %v", totals.VATAmount)
	}
	if totals.Total != 129.6 {
		t.Fatalf("expected total 129.6, got %v", totals.Total)
	}
}

func TestCalculate_FixedDiscountClampedToSubtotal(t *testing.T) {
	in := PricingInput{
		Labour:       []LabourItem{{Description: "mot", Hours: 2, Rate: 50}},
		Discount:     150,
		DiscountType: DiscountFixed,
		VATRate:      20,
	}

	totals, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if totals.DiscountAmount != 100 {
		t.Fatalf("expected discount clamped to 100, got %v", totals.DiscountAmount)
	}
	if totals.VATAmount != 0 {
		t.Fatalf("expected VAT 0 on zero base, got %v", totals.VATAmount)
	}
	if totals.Total != 0 {
		t.Fatalf("expected total 0, got %v", totals.Total)
	}
}

func TestCalculate_EmptyItemsYieldZeroTotals(t *testing.T) {
	totals, err := Calculate(PricingInput{VATRate: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals != (Totals{}) {
		t.Fatalf("expected all-zero totals, got %+v", totals)
	}
}

func TestCalculate_TotalIdentityHolds(t *testing.T) {
	in := PricingInput{
		Labour: []LabourItem{
			{Description: "diagnosis", Hours: 1.25, Rate: 62.5},
			{Description: "repair", Hours: 3.4, Rate: 48.75},
		},
		Parts: []PartItem{
			{Name: "brake pads", Quantity: 2, UnitPrice: 34.99},
			{Name: "discs", Quantity: 2, UnitPrice: 57.13},
		},
		Discount:     7.5,
		DiscountType: DiscountPercentage,
		VATRate:      20,
	}

	totals, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	identity := totals.Subtotal - totals.DiscountAmount + totals.VATAmount
	if math.Abs(identity-totals.Total) > 1e-9 {
		t.Fatalf("total identity violated: %v vs %v", identity, totals.Total)
	}
	if totals.Subtotal != totals.LabourTotal+totals.PartsTotal {
		t.Fatalf("subtotal should equal labour+parts, got %v", totals.Subtotal)
	}
}

func TestCalculate_IsPure(t *testing.T) {
	in := PricingInput{
		Labour:       []LabourItem{{Description: "service", Hours: 2, Rate: 45.5}},
		Parts:        []PartItem{{Name: "filter", Quantity: 3, UnitPrice: 12.99}},
		Discount:     5,
		DiscountType: DiscountFixed,
		VATRate:      20,
	}

	first, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Calculate(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("calculator is not pure: %+v vs %+v", first, second)
	}
}

func TestCalculate_RejectsNegativeInputs(t *testing.T) {
	cases := []struct {
		name string
		in   PricingInput
	}{
		{"negative hours", PricingInput{Labour: []LabourItem{{Hours: -1, Rate: 50}}}},
		{"negative rate", PricingInput{Labour: []LabourItem{{Hours: 1, Rate: -50}}}},
		{"negative quantity", PricingInput{Parts: []PartItem{{Quantity: -1, UnitPrice: 5}}}},
		{"negative unit price", PricingInput{Parts: []PartItem{{Quantity: 1, UnitPrice: -5}}}},
		{"negative discount", PricingInput{Discount: -1}},
		{"negative vat rate", PricingInput{VATRate: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Calculate(tc.in); !apperr.Is(err, apperr.KindValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(21.606); got != 21.61 {
		t.Fatalf("expected 21.61, got %v", got)
	}
	if got := Round2(129.6); got != 129.6 {
		t.Fatalf("expected 129.6, got %v", got)
	}
}
