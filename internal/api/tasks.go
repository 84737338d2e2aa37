package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andy/freelancedesk/internal/domain"
)

type taskPayload struct {
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
}

type taskResponse struct {
	ID          string     `json:"id"`
	ProjectID   string     `json:"projectId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var projectID *string
	if v := r.URL.Query().Get("projectId"); v != "" {
		projectID = &v
	}

	tasks, err := s.tasks.List(r.Context(), requestUserID(r), projectID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var payload taskPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.projects.GetByID(r.Context(), userID, payload.ProjectID); err != nil {
		respondError(w, r, err)
		return
	}

	task := domain.NewTask(userID, payload.ProjectID, payload.Title)
	task.Description = payload.Description
	task.DueDate = payload.DueDate
	if payload.Status != "" {
		task.Status = domain.TaskStatus(payload.Status)
	}

	if err := s.tasks.Create(r.Context(), task); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.GetByID(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	task, err := s.tasks.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload taskPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.ProjectID != "" && payload.ProjectID != task.ProjectID {
		if _, err := s.projects.GetByID(r.Context(), userID, payload.ProjectID); err != nil {
			respondError(w, r, err)
			return
		}
		task.ProjectID = payload.ProjectID
	}
	task.Title = payload.Title
	task.Description = payload.Description
	task.DueDate = payload.DueDate
	if payload.Status != "" {
		task.Status = domain.TaskStatus(payload.Status)
	}

	if err := s.tasks.Update(r.Context(), task); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
