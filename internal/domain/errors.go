package domain

import "errors"

var (
	// ErrNotFound covers both "record does not exist" and "record is owned
	// by another user". The two are deliberately indistinguishable so the
	// API never reveals that another user's record exists.
	ErrNotFound = errors.New("record not found")

	// ErrValidation marks bad caller input. Wrap it with detail:
	// fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateInvoiceNumber is returned when an invoice number is
	// already in use for the calling user.
	ErrDuplicateInvoiceNumber = errors.New("invoice number already in use")
)
