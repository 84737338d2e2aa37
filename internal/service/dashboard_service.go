package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
)

const recentLimit = 5

// RunningTimer is the dashboard's view of the active session: the project
// it runs on plus the live elapsed time at the moment of the read.
type RunningTimer struct {
	Project *domain.Project
	Elapsed time.Duration
}

// DashboardStats is the one-shot summary read for a user's workspace.
// OutstandingAmount sums totals of invoices not yet Complete; EarnedAmount
// sums totals of Complete invoices.
type DashboardStats struct {
	TotalClients      int
	ActiveProjects    int
	PendingInvoices   int
	OutstandingAmount decimal.Decimal
	EarnedAmount      decimal.Decimal
	RecentProjects    []*domain.Project
	RecentInvoices    []*domain.Invoice
	ActiveTimer       *RunningTimer // nil when no session is running
}

// DashboardService aggregates workspace stats
type DashboardService interface {
	Stats(ctx context.Context, userID string) (*DashboardStats, error)
}

type dashboardService struct {
	clientRepo  repository.ClientRepository
	projectRepo repository.ProjectRepository
	invoiceRepo repository.InvoiceRepository
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	clientRepo repository.ClientRepository,
	projectRepo repository.ProjectRepository,
	invoiceRepo repository.InvoiceRepository,
) DashboardService {
	return &dashboardService{
		clientRepo:  clientRepo,
		projectRepo: projectRepo,
		invoiceRepo: invoiceRepo,
		now:         time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context, userID string) (*DashboardStats, error) {
	stats := &DashboardStats{
		OutstandingAmount: decimal.Zero,
		EarnedAmount:      decimal.Zero,
	}

	var err error
	if stats.TotalClients, err = s.clientRepo.CountByUser(ctx, userID); err != nil {
		return nil, err
	}
	if stats.ActiveProjects, err = s.projectRepo.CountByStatus(ctx, userID, domain.ProjectStatusInProgress); err != nil {
		return nil, err
	}
	if stats.PendingInvoices, err = s.invoiceRepo.CountByStatus(ctx, userID, domain.InvoiceStatusPending); err != nil {
		return nil, err
	}

	// Sums are computed here rather than in SQL so decimal arithmetic stays
	// exact end to end.
	invoices, err := s.invoiceRepo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		if inv.Status == domain.InvoiceStatusComplete {
			stats.EarnedAmount = stats.EarnedAmount.Add(inv.TotalAmount)
		} else {
			stats.OutstandingAmount = stats.OutstandingAmount.Add(inv.TotalAmount)
		}
	}

	if stats.RecentProjects, err = s.projectRepo.ListRecent(ctx, userID, recentLimit); err != nil {
		return nil, err
	}
	if stats.RecentInvoices, err = s.invoiceRepo.ListRecent(ctx, userID, recentLimit); err != nil {
		return nil, err
	}

	running, err := s.projectRepo.FindRunning(ctx, userID)
	if err != nil {
		return nil, err
	}
	if running != nil {
		stats.ActiveTimer = &RunningTimer{
			Project: running,
			Elapsed: running.CurrentElapsed(s.now()),
		}
	}

	return stats, nil
}
