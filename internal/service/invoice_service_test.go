package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

type fakeInvoiceRepo struct {
	invoices map[string]*domain.Invoice
	created  *domain.Invoice
	updated  *domain.Invoice
}

func newFakeInvoiceRepo(invoices ...*domain.Invoice) *fakeInvoiceRepo {
	repo := &fakeInvoiceRepo{invoices: make(map[string]*domain.Invoice)}
	for _, inv := range invoices {
		repo.invoices[inv.ID] = inv
	}
	return repo
}

func (f *fakeInvoiceRepo) Create(ctx context.Context, invoice *domain.Invoice) error {
	f.created = invoice
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) GetByID(ctx context.Context, userID, id string) (*domain.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (f *fakeInvoiceRepo) List(ctx context.Context, userID string) ([]*domain.Invoice, error) {
	out := make([]*domain.Invoice, 0)
	for _, inv := range f.invoices {
		if inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoiceRepo) ListRecent(ctx context.Context, userID string, limit int) ([]*domain.Invoice, error) {
	invoices, _ := f.List(ctx, userID)
	if len(invoices) > limit {
		invoices = invoices[:limit]
	}
	return invoices, nil
}

func (f *fakeInvoiceRepo) Update(ctx context.Context, invoice *domain.Invoice) error {
	if _, err := f.GetByID(ctx, invoice.UserID, invoice.ID); err != nil {
		return err
	}
	f.updated = invoice
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) Delete(ctx context.Context, userID, id string) error {
	if _, err := f.GetByID(ctx, userID, id); err != nil {
		return err
	}
	delete(f.invoices, id)
	return nil
}

func (f *fakeInvoiceRepo) CountByStatus(ctx context.Context, userID string, status domain.InvoiceStatus) (int, error) {
	count := 0
	for _, inv := range f.invoices {
		if inv.UserID == userID && inv.Status == status {
			count++
		}
	}
	return count, nil
}

type fakeClientRepo struct {
	clients map[string]*domain.Client
}

func newFakeClientRepo(clients ...*domain.Client) *fakeClientRepo {
	repo := &fakeClientRepo{clients: make(map[string]*domain.Client)}
	for _, c := range clients {
		repo.clients[c.ID] = c
	}
	return repo
}

func (f *fakeClientRepo) Create(ctx context.Context, client *domain.Client) error {
	f.clients[client.ID] = client
	return nil
}

func (f *fakeClientRepo) GetByID(ctx context.Context, userID, id string) (*domain.Client, error) {
	c, ok := f.clients[id]
	if !ok || c.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) List(ctx context.Context, userID string) ([]*domain.Client, error) {
	out := make([]*domain.Client, 0)
	for _, c := range f.clients {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeClientRepo) Update(ctx context.Context, client *domain.Client) error { return nil }
func (f *fakeClientRepo) Delete(ctx context.Context, userID, id string) error     { return nil }

func (f *fakeClientRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	clients, _ := f.List(ctx, userID)
	return len(clients), nil
}

func testClient(id, userID string) *domain.Client {
	return &domain.Client{
		ID:     id,
		UserID: userID,
		Name:   "ACME",
		Email:  "billing@acme.test",
		Status: domain.ClientStatusActive,
	}
}

func testInvoice(userID, clientID string) *domain.Invoice {
	return &domain.Invoice{
		UserID:        userID,
		ClientID:      clientID,
		InvoiceNumber: "INV-001",
		DueDate:       time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusPending,
		Items: []domain.InvoiceItem{
			{Description: "Design work", Quantity: decimal.NewFromInt(2), Rate: decimal.NewFromInt(50)},
		},
		Discount: decimal.NewFromInt(10),
		TaxRate:  decimal.NewFromInt(10),
		Shipping: decimal.NewFromInt(5),
	}
}

func newTestInvoiceService(invoices *fakeInvoiceRepo, clients *fakeClientRepo) *invoiceService {
	return &invoiceService{
		invoiceRepo: invoices,
		clientRepo:  clients,
		now:         time.Now,
	}
}

func TestInvoiceCreate_DerivesTotals(t *testing.T) {
	ctx := context.Background()
	invoices := newFakeInvoiceRepo()
	clients := newFakeClientRepo(testClient("c1", "u1"))
	svc := newTestInvoiceService(invoices, clients)

	inv := testInvoice("u1", "c1")
	if err := svc.Create(ctx, inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2 × 50 = 100; (100 − 10) × 1.10 = 99; + 5 shipping = 104
	if !inv.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected subtotal 100, got %s", inv.Subtotal)
	}
	if !inv.TotalAmount.Equal(decimal.NewFromInt(104)) {
		t.Fatalf("expected total 104, got %s", inv.TotalAmount)
	}
	if !inv.Items[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected item amount 100, got %s", inv.Items[0].Amount)
	}
	if invoices.created == nil {
		t.Fatal("expected invoice to be persisted")
	}
}

func TestInvoiceCreate_IgnoresCallerSuppliedTotal(t *testing.T) {
	ctx := context.Background()
	invoices := newFakeInvoiceRepo()
	clients := newFakeClientRepo(testClient("c1", "u1"))
	svc := newTestInvoiceService(invoices, clients)

	inv := testInvoice("u1", "c1")
	inv.Subtotal = decimal.NewFromInt(9999)
	inv.TotalAmount = decimal.NewFromInt(9999)

	if err := svc.Create(ctx, inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inv.TotalAmount.Equal(decimal.NewFromInt(104)) {
		t.Fatalf("caller-supplied total must be overwritten, got %s", inv.TotalAmount)
	}
}

func TestInvoiceCreate_UnknownClient(t *testing.T) {
	ctx := context.Background()
	svc := newTestInvoiceService(newFakeInvoiceRepo(), newFakeClientRepo())

	if err := svc.Create(ctx, testInvoice("u1", "missing")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvoiceCreate_ForeignClient(t *testing.T) {
	ctx := context.Background()
	clients := newFakeClientRepo(testClient("c1", "u2"))
	svc := newTestInvoiceService(newFakeInvoiceRepo(), clients)

	if err := svc.Create(ctx, testInvoice("u1", "c1")); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign client, got %v", err)
	}
}

func TestInvoiceCreate_RejectsNegativeQuantity(t *testing.T) {
	ctx := context.Background()
	clients := newFakeClientRepo(testClient("c1", "u1"))
	svc := newTestInvoiceService(newFakeInvoiceRepo(), clients)

	inv := testInvoice("u1", "c1")
	inv.Items[0].Quantity = decimal.NewFromInt(-1)

	if err := svc.Create(ctx, inv); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInvoiceCreate_DefaultsStatusAndDate(t *testing.T) {
	ctx := context.Background()
	clients := newFakeClientRepo(testClient("c1", "u1"))
	svc := newTestInvoiceService(newFakeInvoiceRepo(), clients)
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	inv := testInvoice("u1", "c1")
	inv.Status = ""
	inv.Date = time.Time{}

	if err := svc.Create(ctx, inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != domain.InvoiceStatusPending {
		t.Fatalf("expected default status Pending, got %q", inv.Status)
	}
	if !inv.Date.Equal(fixed) {
		t.Fatalf("expected date defaulted to %v, got %v", fixed, inv.Date)
	}
}

func TestInvoiceUpdate_RederivesTotals(t *testing.T) {
	ctx := context.Background()
	clients := newFakeClientRepo(testClient("c1", "u1"))

	existing := testInvoice("u1", "c1")
	existing.ID = "inv-1"
	invoices := newFakeInvoiceRepo(existing)
	svc := newTestInvoiceService(invoices, clients)

	updated := testInvoice("u1", "c1")
	updated.ID = "inv-1"
	updated.Items = []domain.InvoiceItem{
		{Description: "Design work", Quantity: decimal.NewFromInt(3), Rate: decimal.NewFromInt(100)},
	}
	updated.Discount = decimal.Zero
	updated.TaxRate = decimal.Zero
	updated.Shipping = decimal.Zero

	if err := svc.Update(ctx, updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.TotalAmount.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("expected total 300, got %s", updated.TotalAmount)
	}
	if invoices.updated == nil {
		t.Fatal("expected invoice update to be persisted")
	}
}

func TestInvoiceUpdate_StampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	clients := newFakeClientRepo(testClient("c1", "u1"))

	existing := testInvoice("u1", "c1")
	existing.ID = "inv-1"
	invoices := newFakeInvoiceRepo(existing)
	svc := newTestInvoiceService(invoices, clients)
	fixed := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	// Handlers rebuild the invoice from the request, so it arrives here
	// with a zero UpdatedAt
	updated := testInvoice("u1", "c1")
	updated.ID = "inv-1"

	if err := svc.Update(ctx, updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.UpdatedAt.Equal(fixed) {
		t.Fatalf("expected UpdatedAt stamped to %v, got %v", fixed, updated.UpdatedAt)
	}
	if invoices.updated == nil || invoices.updated.UpdatedAt.IsZero() {
		t.Fatal("expected a non-zero UpdatedAt to be persisted")
	}
}

func TestInvoiceTotals_Deterministic(t *testing.T) {
	items := []domain.InvoiceItem{
		{Description: "Hosting", Quantity: decimal.NewFromFloat(1.5), Rate: decimal.NewFromInt(40)},
		{Description: "Support", Quantity: decimal.NewFromInt(4), Rate: decimal.NewFromFloat(12.5)},
	}

	first, err := domain.ComputeTotals(items, decimal.Zero, decimal.NewFromInt(20), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := domain.ComputeTotals(items, decimal.Zero, decimal.NewFromInt(20), decimal.Zero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.TotalAmount.Equal(second.TotalAmount) {
		t.Fatalf("identical inputs produced %s and %s", first.TotalAmount, second.TotalAmount)
	}
	// (60 + 50) × 1.20 = 132
	if !first.TotalAmount.Equal(decimal.NewFromInt(132)) {
		t.Fatalf("expected total 132, got %s", first.TotalAmount)
	}
}
