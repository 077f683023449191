package web

import (
	"net/http"
	"time"

	"mechshop/internal/app"

	"github.com/shopspring/decimal"
)

type orderPartPayload struct {
	PartID    int64            `json:"part_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

type orderServicePayload struct {
	RepairServiceID int64            `json:"repair_service_id"`
	Quantity        int              `json:"quantity"`
	ServiceCost     *decimal.Decimal `json:"service_cost,omitempty"`
	EmployeeID      *int64           `json:"employee_id,omitempty"`
}

func orderPartLines(in []orderPartPayload) []app.OrderPartLine {
	if in == nil {
		return nil
	}
	out := make([]app.OrderPartLine, len(in))
	for i, p := range in {
		out[i] = app.OrderPartLine{PartID: p.PartID, Quantity: p.Quantity, UnitPrice: p.UnitPrice}
	}
	return out
}

func orderServiceLines(in []orderServicePayload) []app.OrderServiceLine {
	if in == nil {
		return nil
	}
	out := make([]app.OrderServiceLine, len(in))
	for i, s := range in {
		out[i] = app.OrderServiceLine{
			RepairServiceID: s.RepairServiceID,
			Quantity:        s.Quantity,
			ServiceCost:     s.ServiceCost,
			EmployeeID:      s.EmployeeID,
		}
	}
	return out
}

func (h *Handler) createServiceOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID      int64                 `json:"vehicle_id"`
		Description    string                `json:"description"`
		EntryDate      *time.Time            `json:"entry_date"`
		InitialMileage *int                  `json:"initial_mileage"`
		PartItems      []orderPartPayload    `json:"part_items"`
		ServiceItems   []orderServicePayload `json:"service_items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateServiceOrder(r.Context(), app.CreateServiceOrderRequest{
		VehicleID:      req.VehicleID,
		Description:    req.Description,
		EntryDate:      req.EntryDate,
		InitialMileage: req.InitialMileage,
		PartItems:      orderPartLines(req.PartItems),
		ServiceItems:   orderServiceLines(req.ServiceItems),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Order)
}

func (h *Handler) getServiceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetServiceOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

func (h *Handler) listServiceOrders(w http.ResponseWriter, r *http.Request) {
	var status *string
	if s := r.URL.Query().Get("status"); s != "" {
		status = &s
	}
	result, err := h.svc.ListServiceOrders(r.Context(), status)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Orders)
}

func (h *Handler) updateServiceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	var req struct {
		Status         *string               `json:"status"`
		Description    *string               `json:"description"`
		InitialMileage *int                  `json:"initial_mileage"`
		PartItems      []orderPartPayload    `json:"part_items"`
		ServiceItems   []orderServicePayload `json:"service_items"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.UpdateServiceOrder(r.Context(), id, app.UpdateServiceOrderRequest{
		Status:         req.Status,
		Description:    req.Description,
		InitialMileage: req.InitialMileage,
		PartItems:      orderPartLines(req.PartItems),
		ServiceItems:   orderServiceLines(req.ServiceItems),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Order)
}

func (h *Handler) deleteServiceOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.DeleteServiceOrder(r.Context(), id); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
