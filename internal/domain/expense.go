package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          string
	UserID      string
	Title       string
	Amount      decimal.Decimal
	Category    string // e.g. Software, Office, Travel
	Date        time.Time
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewExpense creates a new expense dated now.
func NewExpense(userID, title, category string, amount decimal.Decimal) *Expense {
	now := time.Now()
	return &Expense{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Amount:    amount,
		Category:  strings.TrimSpace(category),
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate returns an error if the expense is invalid
func (e *Expense) Validate() error {
	if e.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("%w: expense title is required", ErrValidation)
	}
	if strings.TrimSpace(e.Category) == "" {
		return fmt.Errorf("%w: expense category is required", ErrValidation)
	}
	if e.Amount.IsNegative() {
		return fmt.Errorf("%w: expense amount cannot be negative", ErrValidation)
	}
	return nil
}
