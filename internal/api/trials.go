package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

type trialPayload struct {
	Date  *time.Time `json:"date"`
	Notes string     `json:"notes"`
}

type trialResponse struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	ProjectName string          `json:"projectName,omitempty"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	Cost        decimal.Decimal `json:"cost"`
	IsExtra     bool            `json:"isExtra"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toTrialResponse(t *domain.Trial) trialResponse {
	return trialResponse{
		ID:          t.ID,
		ProjectID:   t.ProjectID,
		ProjectName: t.ProjectName,
		Date:        t.Date,
		Notes:       t.Notes,
		Cost:        t.Cost,
		IsExtra:     t.IsExtra,
		CreatedAt:   t.CreatedAt,
	}
}

func (s *Server) handleRecordTrial(w http.ResponseWriter, r *http.Request) {
	var payload trialPayload
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	var date time.Time
	if payload.Date != nil {
		date = *payload.Date
	}

	trial, err := s.trials.Record(r.Context(), requestUserID(r), chi.URLParam(r, "id"), date, payload.Notes)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTrialResponse(trial))
}

func (s *Server) handleListProjectTrials(w http.ResponseWriter, r *http.Request) {
	trials, err := s.trials.ListByProject(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]trialResponse, 0, len(trials))
	for _, t := range trials {
		out = append(out, toTrialResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListTrials(w http.ResponseWriter, r *http.Request) {
	trials, err := s.trials.List(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]trialResponse, 0, len(trials))
	for _, t := range trials {
		out = append(out, toTrialResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}
