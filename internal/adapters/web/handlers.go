package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"mechshop/internal/app"

	"github.com/go-chi/chi/v5"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	router    chi.Router
	jwtSecret string
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Group(func(r chi.Router) {
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/logout", h.logout)
	})

	// ── Protected API (401 JSON if unauthenticated) ───────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		// Catalog
		r.Get("/api/clients", h.listClients)
		r.Post("/api/clients", h.createClient)
		r.Get("/api/clients/{id}", h.getClient)
		r.Get("/api/vehicles", h.listVehicles)
		r.Post("/api/vehicles", h.createVehicle)
		r.Get("/api/vehicles/{id}", h.getVehicle)
		r.Get("/api/vehicles/{id}/quotations", h.listVehicleQuotations)
		r.Get("/api/parts", h.listParts)
		r.Post("/api/parts", h.createPart)
		r.Get("/api/repair-services", h.listRepairServices)
		r.Post("/api/repair-services", h.createRepairService)
		r.Get("/api/roles", h.listRoles)
		r.Post("/api/roles", h.createRole)
		r.Get("/api/employees", h.listEmployees)
		r.Post("/api/employees", h.createEmployee)
		r.Get("/api/employees/{id}", h.getEmployee)

		// Quotations
		r.Get("/api/quotations", h.listQuotations)
		r.Post("/api/quotations", h.createQuotation)
		r.Get("/api/quotations/{id}", h.getQuotation)
		r.Patch("/api/quotations/{id}", h.updateQuotation)
		r.Delete("/api/quotations/{id}", h.deleteQuotation)
		r.Post("/api/quotations/{id}/convert", h.convertQuotation)

		// Service orders
		r.Get("/api/service-orders", h.listServiceOrders)
		r.Post("/api/service-orders", h.createServiceOrder)
		r.Get("/api/service-orders/{id}", h.getServiceOrder)
		r.Patch("/api/service-orders/{id}", h.updateServiceOrder)
		r.Delete("/api/service-orders/{id}", h.deleteServiceOrder)
		r.Post("/api/service-orders/{id}/invoice", h.issueInvoice)

		// Invoices
		r.Get("/api/invoices", h.listInvoices)
		r.Get("/api/invoices/{id}", h.getInvoice)
		r.Patch("/api/invoices/{id}/payment", h.updateInvoicePayment)

		// Reports
		r.Get("/api/reports/commissions", h.commissionReport)
	})

	h.router = r
	return r
}

// health returns service status.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status string `json:"status"`
	}
	writeJSON(w, response{Status: "ok"})
}

// idParam extracts the {id} URL parameter as an int64.
func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// decodeJSON decodes the request body into v and returns false + writes an
// appropriate error response on failure. Returns HTTP 413 when the body
// exceeds the middleware size limit; HTTP 400 for all other decode errors.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
