package api

import (
	"net/http"
	"time"

	"github.com/andy/freelancedesk/internal/domain"
)

type timeLogPayload struct {
	ProjectID   string     `json:"projectId"`
	TaskID      string     `json:"taskId"`
	Description string     `json:"description"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

type timeLogResponse struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"projectId"`
	ProjectName     string     `json:"projectName,omitempty"`
	TaskID          string     `json:"taskId,omitempty"`
	TaskTitle       string     `json:"taskTitle,omitempty"`
	Description     string     `json:"description,omitempty"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationMinutes float64    `json:"durationMinutes"`
	CreatedAt       time.Time  `json:"createdAt"`
}

func toTimeLogResponse(l *domain.TimeLog) timeLogResponse {
	return timeLogResponse{
		ID:              l.ID,
		ProjectID:       l.ProjectID,
		ProjectName:     l.ProjectName,
		TaskID:          l.TaskID,
		TaskTitle:       l.TaskTitle,
		Description:     l.Description,
		StartTime:       l.StartTime,
		EndTime:         l.EndTime,
		DurationMinutes: l.DurationMinutes,
		CreatedAt:       l.CreatedAt,
	}
}

func (s *Server) handleListTimeLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.timeLogs.List(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]timeLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, toTimeLogResponse(l))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTimeLog(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	var payload timeLogPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if _, err := s.projects.GetByID(r.Context(), userID, payload.ProjectID); err != nil {
		respondError(w, r, err)
		return
	}
	if payload.TaskID != "" {
		if _, err := s.tasks.GetByID(r.Context(), userID, payload.TaskID); err != nil {
			respondError(w, r, err)
			return
		}
	}

	log := domain.NewTimeLog(userID, payload.ProjectID, payload.StartTime, payload.EndTime, time.Now())
	log.TaskID = payload.TaskID
	log.Description = payload.Description

	if err := s.timeLogs.Create(r.Context(), log); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeLogResponse(log))
}
