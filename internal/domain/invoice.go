package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "Pending"
	InvoiceStatusComplete InvoiceStatus = "Complete"
	InvoiceStatusNotPaid  InvoiceStatus = "Not Paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusComplete, InvoiceStatusNotPaid:
		return true
	}
	return false
}

// ContactDetails is the free-form name/address block printed on an invoice
// for either party.
type ContactDetails struct {
	Name    string
	Email   string
	Address string
	Phone   string
}

type InvoiceItem struct {
	Description string
	Quantity    decimal.Decimal
	Rate        decimal.Decimal
	Amount      decimal.Decimal // always Quantity × Rate, recomputed on every write
}

type Invoice struct {
	ID                string
	UserID            string
	ClientID          string
	InvoiceNumber     string
	Date              time.Time
	DueDate           time.Time
	FreelancerDetails ContactDetails
	ClientDetails     ContactDetails
	Items             []InvoiceItem
	Subtotal          decimal.Decimal
	Discount          decimal.Decimal // absolute currency
	TaxRate           decimal.Decimal // percent
	Shipping          decimal.Decimal // absolute currency
	TotalAmount       decimal.Decimal // derived, never accepted from the caller
	Status            InvoiceStatus
	ProjectID         string // optional
	Notes             string
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Related data (populated by repository)
	Client *Client
}

// Totals is the result of one deterministic totals computation.
type Totals struct {
	Items       []InvoiceItem // input items with Amount filled in
	Subtotal    decimal.Decimal
	TotalAmount decimal.Decimal
}

// ComputeTotals derives the canonical invoice totals from line items and
// adjustments:
//
//	amount   = quantity × rate            (per item)
//	subtotal = Σ amount
//	total    = (subtotal − discount) × (1 + taxRate/100) + shipping
//
// Negative quantities, rates, discount, tax rate, or shipping are rejected
// with a validation error; an over-large discount is allowed to drive the
// total negative (not clamped). The computation is pure: identical inputs
// always produce identical totals.
func ComputeTotals(items []InvoiceItem, discount, taxRate, shipping decimal.Decimal) (Totals, error) {
	if discount.IsNegative() {
		return Totals{}, fmt.Errorf("%w: discount cannot be negative", ErrValidation)
	}
	if taxRate.IsNegative() {
		return Totals{}, fmt.Errorf("%w: tax rate cannot be negative", ErrValidation)
	}
	if shipping.IsNegative() {
		return Totals{}, fmt.Errorf("%w: shipping cannot be negative", ErrValidation)
	}

	out := make([]InvoiceItem, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		if strings.TrimSpace(item.Description) == "" {
			return Totals{}, fmt.Errorf("%w: item %d is missing a description", ErrValidation, i+1)
		}
		if item.Quantity.IsNegative() {
			return Totals{}, fmt.Errorf("%w: item %d quantity cannot be negative", ErrValidation, i+1)
		}
		if item.Rate.IsNegative() {
			return Totals{}, fmt.Errorf("%w: item %d rate cannot be negative", ErrValidation, i+1)
		}

		item.Amount = item.Quantity.Mul(item.Rate)
		out[i] = item
		subtotal = subtotal.Add(item.Amount)
	}

	afterDiscount := subtotal.Sub(discount)
	tax := afterDiscount.Mul(taxRate).Div(decimal.NewFromInt(100))
	total := afterDiscount.Add(tax).Add(shipping)

	return Totals{Items: out, Subtotal: subtotal, TotalAmount: total}, nil
}

// ApplyTotals recomputes the invoice's derived fields from its items and
// adjustments, overwriting whatever was stored.
func (i *Invoice) ApplyTotals() error {
	totals, err := ComputeTotals(i.Items, i.Discount, i.TaxRate, i.Shipping)
	if err != nil {
		return err
	}
	i.Items = totals.Items
	i.Subtotal = totals.Subtotal
	i.TotalAmount = totals.TotalAmount
	return nil
}

// Validate returns an error if the invoice is invalid
func (i *Invoice) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if i.ClientID == "" {
		return fmt.Errorf("%w: client is required", ErrValidation)
	}
	if strings.TrimSpace(i.InvoiceNumber) == "" {
		return fmt.Errorf("%w: invoice number is required", ErrValidation)
	}
	if i.DueDate.IsZero() {
		return fmt.Errorf("%w: due date is required", ErrValidation)
	}
	if !i.Status.Valid() {
		return fmt.Errorf("%w: unknown invoice status %q", ErrValidation, i.Status)
	}
	return nil
}
