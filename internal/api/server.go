// Package api exposes the JSON REST surface. Every /api route runs behind
// bearer-token authentication; handlers read the resolved user id from the
// request context and never trust ids in the payload.
package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andy/freelancedesk/internal/domain"
	"github.com/andy/freelancedesk/internal/repository"
	"github.com/andy/freelancedesk/internal/service"
)

// Server is the freelancedesk HTTP API server.
type Server struct {
	users    repository.UserRepository
	clients  repository.ClientRepository
	projects repository.ProjectRepository
	tasks    repository.TaskRepository
	expenses repository.ExpenseRepository
	timeLogs repository.TimeLogRepository

	timers    service.TimerService
	trials    service.TrialService
	invoices  service.InvoiceService
	dashboard service.DashboardService

	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(
	users repository.UserRepository,
	clients repository.ClientRepository,
	projects repository.ProjectRepository,
	tasks repository.TaskRepository,
	expenses repository.ExpenseRepository,
	timeLogs repository.TimeLogRepository,
	timers service.TimerService,
	trials service.TrialService,
	invoices service.InvoiceService,
	dashboard service.DashboardService,
) *Server {
	return &Server{
		users:     users,
		clients:   clients,
		projects:  projects,
		tasks:     tasks,
		expenses:  expenses,
		timeLogs:  timeLogs,
		timers:    timers,
		trials:    trials,
		invoices:  invoices,
		dashboard: dashboard,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", s.handleListClients)
			r.Post("/", s.handleCreateClient)
			r.Get("/{id}", s.handleGetClient)
			r.Put("/{id}", s.handleUpdateClient)
			r.Delete("/{id}", s.handleDeleteClient)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.handleListProjects)
			r.Post("/", s.handleCreateProject)
			r.Get("/timer/active", s.handleActiveTimer)
			r.Post("/timer/stop-active", s.handleStopActiveTimer)
			r.Get("/{id}", s.handleGetProject)
			r.Put("/{id}", s.handleUpdateProject)
			r.Delete("/{id}", s.handleDeleteProject)
			r.Post("/{id}/timer/start", s.handleStartTimer)
			r.Post("/{id}/timer/stop", s.handleStopTimer)
			r.Get("/{id}/trials", s.handleListProjectTrials)
			r.Post("/{id}/trials", s.handleRecordTrial)
		})

		r.Get("/trials", s.handleListTrials)

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", s.handleListInvoices)
			r.Post("/", s.handleCreateInvoice)
			r.Get("/{id}", s.handleGetInvoice)
			r.Put("/{id}", s.handleUpdateInvoice)
			r.Delete("/{id}", s.handleDeleteInvoice)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.handleListTasks)
			r.Post("/", s.handleCreateTask)
			r.Get("/{id}", s.handleGetTask)
			r.Put("/{id}", s.handleUpdateTask)
			r.Delete("/{id}", s.handleDeleteTask)
		})

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", s.handleListExpenses)
			r.Post("/", s.handleCreateExpense)
			r.Get("/{id}", s.handleGetExpense)
			r.Put("/{id}", s.handleUpdateExpense)
			r.Delete("/{id}", s.handleDeleteExpense)
		})

		r.Route("/time-logs", func(r chi.Router) {
			r.Get("/", s.handleListTimeLogs)
			r.Post("/", s.handleCreateTimeLog)
		})

		r.Get("/dashboard/stats", s.handleDashboardStats)
	})

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// respondError maps domain errors to HTTP statuses. Unexpected errors are
// logged server-side and returned as an opaque 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateInvoiceNumber):
		writeError(w, http.StatusConflict, err.Error())
	default:
		log.Printf("request %s %s failed: %v", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a request body. Unknown fields are ignored, so
// server-derived fields like invoice totals can appear in a payload without
// being accepted as input.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
