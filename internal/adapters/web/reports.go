package web

import (
	"net/http"
)

// commissionReport handles GET /api/reports/commissions?start_date=...&end_date=...
// Dates are YYYY-MM-DD; both bounds are inclusive calendar days.
func (h *Handler) commissionReport(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start_date")
	end := r.URL.Query().Get("end_date")
	if start == "" || end == "" {
		writeError(w, r, "start_date and end_date are required", "BAD_REQUEST", http.StatusBadRequest)
		return
	}

	result, err := h.svc.CommissionReport(r.Context(), start, end)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Report)
}
