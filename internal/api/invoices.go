package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/andy/freelancedesk/internal/domain"
)

type contactPayload struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type invoiceItemPayload struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
}

type invoicePayload struct {
	ClientID          string               `json:"clientId"`
	InvoiceNumber     string               `json:"invoiceNumber"`
	Date              *time.Time           `json:"date"`
	DueDate           time.Time            `json:"dueDate"`
	FreelancerDetails contactPayload       `json:"freelancerDetails"`
	ClientDetails     contactPayload       `json:"clientDetails"`
	Items             []invoiceItemPayload `json:"items"`
	Discount          decimal.Decimal      `json:"discount"`
	TaxRate           decimal.Decimal      `json:"taxRate"`
	Shipping          decimal.Decimal      `json:"shipping"`
	Status            string               `json:"status"`
	ProjectID         string               `json:"projectId"`
	Notes             string               `json:"notes"`
}

type invoiceItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

type invoiceResponse struct {
	ID                string                `json:"id"`
	ClientID          string                `json:"clientId"`
	InvoiceNumber     string                `json:"invoiceNumber"`
	Date              time.Time             `json:"date"`
	DueDate           time.Time             `json:"dueDate"`
	FreelancerDetails contactPayload        `json:"freelancerDetails"`
	ClientDetails     contactPayload        `json:"clientDetails"`
	Items             []invoiceItemResponse `json:"items"`
	Subtotal          decimal.Decimal       `json:"subtotal"`
	Discount          decimal.Decimal       `json:"discount"`
	TaxRate           decimal.Decimal       `json:"taxRate"`
	Shipping          decimal.Decimal       `json:"shipping"`
	TotalAmount       decimal.Decimal       `json:"totalAmount"`
	Status            string                `json:"status"`
	ProjectID         string                `json:"projectId,omitempty"`
	Notes             string                `json:"notes,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
}

func toInvoiceResponse(inv *domain.Invoice) invoiceResponse {
	items := make([]invoiceItemResponse, 0, len(inv.Items))
	for _, item := range inv.Items {
		items = append(items, invoiceItemResponse{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		})
	}
	return invoiceResponse{
		ID:                inv.ID,
		ClientID:          inv.ClientID,
		InvoiceNumber:     inv.InvoiceNumber,
		Date:              inv.Date,
		DueDate:           inv.DueDate,
		FreelancerDetails: contactPayload(inv.FreelancerDetails),
		ClientDetails:     contactPayload(inv.ClientDetails),
		Items:             items,
		Subtotal:          inv.Subtotal,
		Discount:          inv.Discount,
		TaxRate:           inv.TaxRate,
		Shipping:          inv.Shipping,
		TotalAmount:       inv.TotalAmount,
		Status:            string(inv.Status),
		ProjectID:         inv.ProjectID,
		Notes:             inv.Notes,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

// payloadToInvoice builds a domain invoice from the request. Subtotal and
// total are not part of the payload at all; the service derives them.
func payloadToInvoice(userID string, payload invoicePayload) *domain.Invoice {
	items := make([]domain.InvoiceItem, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, domain.InvoiceItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
		})
	}

	inv := &domain.Invoice{
		UserID:            userID,
		ClientID:          payload.ClientID,
		InvoiceNumber:     payload.InvoiceNumber,
		DueDate:           payload.DueDate,
		FreelancerDetails: domain.ContactDetails(payload.FreelancerDetails),
		ClientDetails:     domain.ContactDetails(payload.ClientDetails),
		Items:             items,
		Discount:          payload.Discount,
		TaxRate:           payload.TaxRate,
		Shipping:          payload.Shipping,
		Status:            domain.InvoiceStatus(payload.Status),
		ProjectID:         payload.ProjectID,
		Notes:             payload.Notes,
	}
	if payload.Date != nil {
		inv.Date = *payload.Date
	}
	return inv
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.invoices.List(r.Context(), requestUserID(r))
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var payload invoicePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := payloadToInvoice(requestUserID(r), payload)
	if err := s.invoices.Create(r.Context(), inv); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.invoices.Get(r.Context(), requestUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	id := chi.URLParam(r, "id")

	existing, err := s.invoices.Get(r.Context(), userID, id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var payload invoicePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv := payloadToInvoice(userID, payload)
	inv.ID = existing.ID
	inv.CreatedAt = existing.CreatedAt
	if inv.Date.IsZero() {
		inv.Date = existing.Date
	}

	if err := s.invoices.Update(r.Context(), inv); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleDeleteInvoice(w http.ResponseWriter, r *http.Request) {
	if err := s.invoices.Delete(r.Context(), requestUserID(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
