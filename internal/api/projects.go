package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

type projectPayload struct {
	ClientID    string          `json:"clientId"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"startDate"`
	DueDate     *time.Time      `json:"dueDate"`
	Budget      decimal.Decimal `json:"budget"`
	Progress    int             `json:"progress"`
}

type projectResponse struct {
	ID          string          `json:"id"`
	ClientID    string          `json:"clientId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status"`
	StartDate   *time.Time      `json:"startDate,omitempty"`
	DueDate     *time.Time      `json:"dueDate,omitempty"`
	Budget      decimal.Decimal `json:"budget"`
	Progress    int             `json:"progress"`

	// Time accounting: closed sessions only, in milliseconds. A non-null
	// timerStartTime means a session is running right now.
	TotalTimeSpentMs int64      `json:"totalTimeSpent"`
	TimerStartTime   *time.Time `json:"timerStartTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toProjectResponse(p *domain.Project) projectResponse {
	return projectResponse{
		ID:               p.ID,
		ClientID:         p.ClientID,
		Name:             p.Name,
		Description:      p.Description,
		Status:           string(p.Status),
		StartDate:        p.StartDate,
		DueDate:          p.DueDate,
		Budget:           p.Budget,
		Progress:         p.Progress,
		TotalTimeSpentMs: p.TotalTimeSpent.Milliseconds(),
		TimerStartTime:   p.TimerStartTime,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectResponse(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var payload projectPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The client ref must resolve for this user before anything is written
	if _, err := s.clients.GetByID(r.Context(), userID, payload.ClientID); err != nil {
		respondError(w, r, err)
		return
	}

	project := domain.NewProject(userID, payload.ClientID, payload.Name)
	project.Description = payload.Description
	project.StartDate = payload.StartDate
	project.DueDate = payload.DueDate
	project.Budget = payload.Budget
	project.Progress = payload.Progress
	if payload.Status != "" {
		project.Status = domain.ProjectStatus(payload.Status)
	}

	if err := s.projects.Create(r.Context(), project); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(project))
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.projects.GetByID(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	project, err := s.projects.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload projectPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Timer fields are owned by the timer endpoints and cannot be edited here
	project.ClientID = payload.ClientID
	project.Name = payload.Name
	project.Description = payload.Description
	project.StartDate = payload.StartDate
	project.DueDate = payload.DueDate
	project.Budget = payload.Budget
	project.Progress = payload.Progress
	if payload.Status != "" {
		project.Status = domain.ProjectStatus(payload.Status)
	}

	if err := s.projects.Update(r.Context(), project); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
