package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type stopTimerPayload struct {
	// ElapsedMs optionally commits a caller-measured duration instead of
	// the server-side wall-clock elapsed, so the amount shown in the UI is
	// exactly the amount saved.
	ElapsedMs *int64 `json:"elapsedMs"`
}

type timerResponse struct {
	Project projectResponse `json:"project"`
	Stopped bool            `json:"stopped"`
}

func (s *Server) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	project, err := s.timers.Start(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(project))
}

func (s *Server) handleStopTimer(w http.ResponseWriter, r *http.Request) {
	var payload stopTimerPayload
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var committed *time.Duration
	if payload.ElapsedMs != nil {
		d := time.Duration(*payload.ElapsedMs) * time.Millisecond
		committed = &d
	}

	project, stopped, err := s.timers.Stop(r.Context(), requestUserID(r), chi.URLParam(r, "id"), committed)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, timerResponse{Project: toProjectResponse(project), Stopped: stopped})
}

func (s *Server) handleStopActiveTimer(w http.ResponseWriter, r *http.Request) {
	project, stopped, err := s.timers.StopActive(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if project == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"stopped": false})
		return
	}
	writeJSON(w, http.StatusOK, timerResponse{Project: toProjectResponse(project), Stopped: stopped})
}

func (s *Server) handleActiveTimer(w http.ResponseWriter, r *http.Request) {
	project, err := s.timers.Active(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if project == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"running": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":   true,
		"project":   toProjectResponse(project),
		"elapsedMs": project.CurrentElapsed(time.Now()).Milliseconds(),
	})
}
