package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/service"
)

type activeTimerResponse struct {
	Project   projectResponse `json:"project"`
	ElapsedMs int64           `json:"elapsedMs"`
}

type dashboardResponse struct {
	TotalClients      int                  `json:"totalClients"`
	ActiveProjects    int                  `json:"activeProjects"`
	PendingInvoices   int                  `json:"pendingInvoices"`
	OutstandingAmount decimal.Decimal      `json:"outstandingAmount"`
	EarnedAmount      decimal.Decimal      `json:"earnedAmount"`
	RecentProjects    []projectResponse    `json:"recentProjects"`
	RecentInvoices    []invoiceResponse    `json:"recentInvoices"`
	ActiveTimer       *activeTimerResponse `json:"activeTimer"`
}

func toDashboardResponse(stats *service.DashboardStats) dashboardResponse {
	out := dashboardResponse{
		TotalClients:      stats.TotalClients,
		ActiveProjects:    stats.ActiveProjects,
		PendingInvoices:   stats.PendingInvoices,
		OutstandingAmount: stats.OutstandingAmount,
		EarnedAmount:      stats.EarnedAmount,
		RecentProjects:    make([]projectResponse, 0, len(stats.RecentProjects)),
		RecentInvoices:    make([]invoiceResponse, 0, len(stats.RecentInvoices)),
	}
	for _, p := range stats.RecentProjects {
		out.RecentProjects = append(out.RecentProjects, toProjectResponse(p))
	}
	for _, inv := range stats.RecentInvoices {
		out.RecentInvoices = append(out.RecentInvoices, toInvoiceResponse(inv))
	}
	if stats.ActiveTimer != nil {
		out.ActiveTimer = &activeTimerResponse{
			Project:   toProjectResponse(stats.ActiveTimer.Project),
			ElapsedMs: stats.ActiveTimer.Elapsed.Milliseconds(),
		}
	}
	return out
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.dashboard.Stats(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(stats))
}
