package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Trial is an immutable record of one trial session billed against a
// project. Cost and IsExtra are fixed at creation time by the tiering
// policy and never change afterwards; trials are removed only when their
// project is deleted.
type Trial struct {
	ID        string
	UserID    string
	ProjectID string
	Date      time.Time
	Notes     string
	Cost      decimal.Decimal
	IsExtra   bool
	CreatedAt time.Time

	// Related data (populated by repository)
	ProjectName string
}

// TrialPricing is the tiering policy for trial sessions: a flat free quota
// per project, then a flat price per extra session. No decay, no reset.
type TrialPricing struct {
	FreeSessions int
	ExtraCost    decimal.Decimal
}

// DefaultTrialPricing matches the historical policy: 3 free sessions per
// project, 10.00 per session after that.
func DefaultTrialPricing() TrialPricing {
	return TrialPricing{
		FreeSessions: 3,
		ExtraCost:    decimal.NewFromInt(10),
	}
}

// Assess returns the cost of the next trial session given how many the
// project has already recorded.
func (p TrialPricing) Assess(priorCount int) (cost decimal.Decimal, isExtra bool) {
	if priorCount >= p.FreeSessions {
		return p.ExtraCost, true
	}
	return decimal.Zero, false
}

// Validate returns an error if the trial is invalid
func (t *Trial) Validate() error {
	if t.UserID == "" {
		return fmt.Errorf("%w: owning user is required", ErrValidation)
	}
	if t.ProjectID == "" {
		return fmt.Errorf("%w: project is required", ErrValidation)
	}
	if t.Cost.IsNegative() {
		return fmt.Errorf("%w: trial cost cannot be negative", ErrValidation)
	}
	return nil
}
