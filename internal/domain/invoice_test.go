package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestComputeTotals_Basic(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Design", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
	}

	totals, err := ComputeTotals(items, decimal.NewFromInt(10), decimal.NewFromInt(10), decimal.NewFromInt(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected subtotal 100, got %s", totals.Subtotal)
	}
	// (100 − 10) × 1.10 + 5 = 104
	if !totals.TotalAmount.Equal(decimal.NewFromInt(104)) {
		t.Fatalf("expected total 104, got %s", totals.TotalAmount)
	}
	if !totals.Items[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected item amount 100, got %s", totals.Items[0].Amount)
	}
}

func TestComputeTotals_NoItems(t *testing.T) {
	totals, err := ComputeTotals(nil, decimal.Zero, decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.Subtotal.IsZero() || !totals.TotalAmount.IsZero() {
		t.Fatalf("expected zero totals, got subtotal=%s total=%s", totals.Subtotal, totals.TotalAmount)
	}
}

func TestComputeTotals_FractionalQuantities(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Hosting", Quantity: decimal.NewFromFloat(1.5), Rate: decimal.NewFromInt(40)},
		{Description: "Support", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromFloat(12.5)},
	}

	totals, err := ComputeTotals(items, decimal.Zero, decimal.NewFromInt(20), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 60 + 50 = 110; × 1.20 = 132
	if !totals.TotalAmount.Equal(decimal.NewFromInt(132)) {
		t.Fatalf("expected total 132, got %s", totals.TotalAmount)
	}
}

func TestComputeTotals_OversizedDiscountNotClamped(t *testing.T) {
	items := []InvoiceItem{
		{Description: "Design", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(50)},
	}

	totals, err := ComputeTotals(items, decimal.NewFromInt(100), decimal.Zero, decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !totals.TotalAmount.Equal(decimal.NewFromInt(-50)) {
		t.Fatalf("expected total -50, got %s", totals.TotalAmount)
	}
}

func TestComputeTotals_RejectsNegativeInputs(t *testing.T) {
	good := []InvoiceItem{
		{Description: "Design", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(50)},
	}

	cases := []struct {
		name     string
		items    []InvoiceItem
		discount decimal.Decimal
		taxRate  decimal.Decimal
		shipping decimal.Decimal
	}{
		{"negative discount", good, decimal.NewFromInt(-1), decimal.Zero, decimal.Zero},
		{"negative tax rate", good, decimal.Zero, decimal.NewFromInt(-1), decimal.Zero},
		{"negative shipping", good, decimal.Zero, decimal.Zero, decimal.NewFromInt(-1)},
		{
			"negative quantity",
			[]InvoiceItem{{Description: "X", Quantity: decimal.NewFromInt(-1), Rate: decimal.NewFromInt(50)}},
			decimal.Zero, decimal.Zero, decimal.Zero,
		},
		{
			"negative rate",
			[]InvoiceItem{{Description: "X", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(-50)}},
			decimal.Zero, decimal.Zero, decimal.Zero,
		},
		{
			"blank description",
			[]InvoiceItem{{Description: "  ", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(50)}},
			decimal.Zero, decimal.Zero, decimal.Zero,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeTotals(tc.items, tc.discount, tc.taxRate, tc.shipping)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestApplyTotals_OverwritesStoredFields(t *testing.T) {
	inv := &Invoice{
		Items: []InvoiceItem{
			{Description: "Design", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(100)},
		},
		Discount:    decimal.Zero,
		TaxRate:     decimal.Zero,
		Shipping:    decimal.Zero,
		Subtotal:    decimal.NewFromInt(1),
		TotalAmount: decimal.NewFromInt(1),
	}

	if err := inv.ApplyTotals(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.Subtotal.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected subtotal 300, got %s", inv.Subtotal)
	}
	if !inv.TotalAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total 300, got %s", inv.TotalAmount)
	}
}

func TestTrialPricing_Assess(t *testing.T) {
	pricing := DefaultTrialPricing()

	for prior := 0; prior < 3; prior++ {
		cost, extra := pricing.Assess(prior)
		if !cost.IsZero() || extra {
			t.Fatalf("prior=%d: expected free, got cost=%s extra=%v", prior, cost, extra)
		}
	}

	cost, extra := pricing.Assess(3)
	if !cost.Equal(decimal.NewFromInt(10)) || !extra {
		t.Fatalf("prior=3: expected 10/extra, got cost=%s extra=%v", cost, extra)
	}

	cost, extra = pricing.Assess(7)
	if !cost.Equal(decimal.NewFromInt(10)) || !extra {
		t.Fatalf("prior=7: expected 10/extra, got cost=%s extra=%v", cost, extra)
	}
}
