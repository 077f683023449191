package web

import (
	"net/http"

	"mechshop/internal/app"

	"github.com/shopspring/decimal"
)

type quotationPartPayload struct {
	PartID    int64            `json:"part_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type quotationServicePayload struct {
	RepairServiceID int64            `json:"repair_service_id"`
	ServiceCost     *decimal.Decimal `json:"service_cost,omitempty"`
}

func quotationPartLines(in []quotationPartPayload) []app.QuotationPartLine {
	if in == nil {
		return nil
	}
	out := make([]app.QuotationPartLine, len(in))
	for i, p := range in {
		out[i] = app.QuotationPartLine{PartID: p.PartID, Quantity: p.Quantity, UnitPrice: p.UnitPrice}
	}
	return out
}

func quotationServiceLines(in []quotationServicePayload) []app.QuotationServiceLine {
	if in == nil {
		return nil
	}
	out := make([]app.QuotationServiceLine, len(in))
	for i, s := range in {
		out[i] = app.QuotationServiceLine{RepairServiceID: s.RepairServiceID, ServiceCost: s.ServiceCost}
	}
	return out
}

func (h *Handler) createQuotation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID    int64                     `json:"vehicle_id"`
		Description  string                    `json:"description"`
		PartItems    []quotationPartPayload    `json:"part_items"`
		ServiceItems []quotationServicePayload `json:"service_items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateQuotation(r.Context(), app.CreateQuotationRequest{
		VehicleID:    req.VehicleID,
		Description:  req.Description,
		PartItems:    quotationPartLines(req.PartItems),
		ServiceItems: quotationServiceLines(req.ServiceItems),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Quotation)
}

func (h *Handler) getQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetQuotation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Quotation)
}

func (h *Handler) listQuotations(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListQuotations(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Quotations)
}

func (h *Handler) listVehicleQuotations(w http.ResponseWriter, r *http.Request) {
	vehicleID, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.ListVehicleQuotations(r.Context(), vehicleID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Quotations)
}

func (h *Handler) updateQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req struct {
		Description  *string                   `json:"description"`
		Status       *string                   `json:"status"`
		PartItems    []quotationPartPayload    `json:"part_items"`
		ServiceItems []quotationServicePayload `json:"service_items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateQuotation(r.Context(), id, app.UpdateQuotationRequest{
		Description:  req.Description,
		Status:       req.Status,
		PartItems:    quotationPartLines(req.PartItems),
		ServiceItems: quotationServiceLines(req.ServiceItems),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Quotation)
}

func (h *Handler) deleteQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteQuotation(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) convertQuotation(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.ConvertQuotation(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Order)
}
