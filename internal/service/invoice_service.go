package service

import (
	"context"
	"time"

	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
)

// InvoiceService manages invoices. Totals are always derived server-side:
// every create and update recomputes item amounts, subtotal, and total from
// the line items and adjustments, discarding whatever the caller sent for
// those fields.
type InvoiceService interface {
	// Create derives totals, validates, and persists a new invoice.
	Create(ctx context.Context, invoice *domain.Invoice) error

	// Get retrieves one invoice with its line items.
	Get(ctx context.Context, userID, id string) (*domain.Invoice, error)

	// List returns the user's invoices, newest first.
	List(ctx context.Context, userID string) ([]*domain.Invoice, error)

	// Update re-derives totals and replaces the stored invoice, line items
	// included.
	Update(ctx context.Context, invoice *domain.Invoice) error

	// Delete removes an invoice and its line items.
	Delete(ctx context.Context, userID, id string) error
}

type invoiceService struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		now:         time.Now,
	}
}

func (s *invoiceService) Create(ctx context.Context, invoice *domain.Invoice) error {
	// Client must exist and belong to the caller
	if _, err := s.clientRepo.GetByID(ctx, invoice.UserID, invoice.ClientID); err != nil {
		return err
	}

	if err := invoice.ApplyTotals(); err != nil {
		return err
	}

	now := s.now()
	if invoice.Date.IsZero() {
		invoice.Date = now
	}
	if invoice.Status == "" {
		invoice.Status = domain.InvoiceStatusPending
	}
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	return s.invoiceRepo.Create(ctx, invoice)
}

func (s *invoiceService) Get(ctx context.Context, userID, id string) (*domain.Invoice, error) {
	return s.invoiceRepo.GetByID(ctx, userID, id)
}

func (s *invoiceService) List(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	return s.invoiceRepo.List(ctx, userID)
}

func (s *invoiceService) Update(ctx context.Context, invoice *domain.Invoice) error {
	if invoice.ClientID != "" {
		if _, err := s.clientRepo.GetByID(ctx, invoice.UserID, invoice.ClientID); err != nil {
			return err
		}
	}

	if err := invoice.ApplyTotals(); err != nil {
		return err
	}

	invoice.UpdatedAt = s.now()
	return s.invoiceRepo.Update(ctx, invoice)
}

func (s *invoiceService) Delete(ctx context.Context, userID, id string) error {
	return s.invoiceRepo.Delete(ctx, userID, id)
}
