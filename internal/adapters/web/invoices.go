package web

import (
	"net/http"
)

func (h *Handler) issueInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.IssueInvoice(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Invoice)
}

func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetInvoice(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}

func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListInvoices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Invoices)
}

func (h *Handler) updateInvoicePayment(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req struct {
		PaymentStatus string `json:"payment_status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateInvoicePayment(r.Context(), id, req.PaymentStatus)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Invoice)
}
