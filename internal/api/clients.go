package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/andy/freelancedesk/internal/domain"
)

type clientPayload struct {
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	CompanyName    string     `json:"companyName"`
	Address        string     `json:"address"`
	Status         string     `json:"status"`
	TrialStartDate *time.Time `json:"trialStartDate"`
	TrialEndDate   *time.Time `json:"trialEndDate"`
}

type clientResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	CompanyName    string     `json:"companyName,omitempty"`
	Address        string     `json:"address,omitempty"`
	Status         string     `json:"status"`
	TrialStartDate *time.Time `json:"trialStartDate,omitempty"`
	TrialEndDate   *time.Time `json:"trialEndDate,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func toClientResponse(c *domain.Client) clientResponse {
	return clientResponse{
		ID:             c.ID,
		Name:           c.Name,
		Email:          c.Email,
		Phone:          c.Phone,
		CompanyName:    c.CompanyName,
		Address:        c.Address,
		Status:         string(c.Status),
		TrialStartDate: c.TrialStartDate,
		TrialEndDate:   c.TrialEndDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.clients.List(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]clientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var payload clientPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client := domain.NewClient(requestUserID(r), payload.Name, payload.Email)
	client.Phone = payload.Phone
	client.CompanyName = payload.CompanyName
	client.Address = payload.Address
	client.TrialStartDate = payload.TrialStartDate
	client.TrialEndDate = payload.TrialEndDate
	if payload.Status != "" {
		client.Status = domain.ClientStatus(payload.Status)
	}

	if err := s.clients.Create(r.Context(), client); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toClientResponse(client))
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	client, err := s.clients.GetByID(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	client, err := s.clients.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload clientPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	client.Name = payload.Name
	client.Email = payload.Email
	client.Phone = payload.Phone
	client.CompanyName = payload.CompanyName
	client.Address = payload.Address
	client.TrialStartDate = payload.TrialStartDate
	client.TrialEndDate = payload.TrialEndDate
	if payload.Status != "" {
		client.Status = domain.ClientStatus(payload.Status)
	}

	if err := s.clients.Update(r.Context(), client); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toClientResponse(client))
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	if err := s.clients.Delete(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
