package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

func TestDashboardStats_Aggregates(t *testing.T) {
	ctx := context.Background()

	clients := newFakeClientRepo(testClient("c1", "u1"), testClient("c2", "u1"), testClient("c3", "u2"))

	active := testProject("p1", "u1")
	done := testProject("p2", "u1")
	done.Status = domain.ProjectStatusCompleted
	projects := newFakeProjectRepo(active, done)

	pending := testInvoice("u1", "c1")
	pending.ID = "inv-1"
	pending.TotalAmount = decimal.NewFromInt(100)

	notPaid := testInvoice("u1", "c1")
	notPaid.ID = "inv-2"
	notPaid.Status = domain.InvoiceStatusNotPaid
	notPaid.TotalAmount = decimal.NewFromInt(50)

	complete := testInvoice("u1", "c1")
	complete.ID = "inv-3"
	complete.Status = domain.InvoiceStatusComplete
	complete.TotalAmount = decimal.NewFromInt(250)

	invoices := newFakeInvoiceRepo(pending, notPaid, complete)

	svc := &dashboardService{
		clientRepo:  clients,
		projectRepo: projects,
		invoiceRepo: invoices,
		now:         time.Now,
	}

	stats, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalClients != 2 {
		t.Fatalf("expected 2 clients, got %d", stats.TotalClients)
	}
	if stats.ActiveProjects != 1 {
		t.Fatalf("expected 1 active project, got %d", stats.ActiveProjects)
	}
	if stats.PendingInvoices != 1 {
		t.Fatalf("expected 1 pending invoice, got %d", stats.PendingInvoices)
	}
	// outstanding: Pending 100 + Not Paid 50; earned: Complete 250
	if !stats.OutstandingAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected outstanding 150, got %s", stats.OutstandingAmount)
	}
	if !stats.EarnedAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("expected earned 250, got %s", stats.EarnedAmount)
	}
	if stats.ActiveTimer != nil {
		t.Fatal("expected no active timer")
	}
}

func TestDashboardStats_LiveTimerElapsed(t *testing.T) {
	ctx := context.Background()

	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	running := testProject("p1", "u1")
	running.BeginSession(t0)

	svc := &dashboardService{
		clientRepo:  newFakeClientRepo(),
		projectRepo: newFakeProjectRepo(running),
		invoiceRepo: newFakeInvoiceRepo(),
		now:         func() time.Time { return t0.Add(25 * time.Minute) },
	}

	stats, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ActiveTimer == nil {
		t.Fatal("expected active timer")
	}
	if stats.ActiveTimer.Project.ID != "p1" {
		t.Fatalf("expected running project p1, got %s", stats.ActiveTimer.Project.ID)
	}
	if stats.ActiveTimer.Elapsed != 25*time.Minute {
		t.Fatalf("expected live elapsed 25m, got %v", stats.ActiveTimer.Elapsed)
	}
}

func TestDashboardStats_EmptyWorkspace(t *testing.T) {
	ctx := context.Background()

	svc := &dashboardService{
		clientRepo:  newFakeClientRepo(),
		projectRepo: newFakeProjectRepo(),
		invoiceRepo: newFakeInvoiceRepo(),
		now:         time.Now,
	}

	stats, err := svc.Stats(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalClients != 0 || stats.ActiveProjects != 0 || stats.PendingInvoices != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	if !stats.OutstandingAmount.IsZero() || !stats.EarnedAmount.IsZero() {
		t.Fatalf("expected zero sums, got outstanding=%s earned=%s", stats.OutstandingAmount, stats.EarnedAmount)
	}
}
