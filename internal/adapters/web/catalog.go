package web

import (
	"net/http"

	"mechshop/internal/app"

	"github.com/shopspring/decimal"
)

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		CPF   string `json:"cpf"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateClient(r.Context(), app.CreateClientRequest{
		Name: req.Name, CPF: req.CPF, Email: req.Email, Phone: req.Phone,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Client)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetClient(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Client)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Clients)
}

func (h *Handler) createVehicle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID int64  `json:"client_id"`
		Plate    string `json:"plate"`
		Brand    string `json:"brand"`
		Model    string `json:"model"`
		Year     int    `json:"year"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateVehicle(r.Context(), app.CreateVehicleRequest{
		ClientID: req.ClientID, Plate: req.Plate, Brand: req.Brand, Model: req.Model, Year: req.Year,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Vehicle)
}

func (h *Handler) getVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetVehicle(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Vehicle)
}

func (h *Handler) listVehicles(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListVehicles(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Vehicles)
}

func (h *Handler) createPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string          `json:"name"`
		SKU   string          `json:"sku"`
		Price decimal.Decimal `json:"price"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreatePart(r.Context(), app.CreatePartRequest{
		Name: req.Name, SKU: req.SKU, Price: req.Price,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Part)
}

func (h *Handler) listParts(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListParts(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Parts)
}

func (h *Handler) createRepairService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string          `json:"name"`
		Cost decimal.Decimal `json:"cost"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateRepairService(r.Context(), app.CreateRepairServiceRequest{
		Name: req.Name, Cost: req.Cost,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.RepairService)
}

func (h *Handler) listRepairServices(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListRepairServices(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.RepairServices)
}

func (h *Handler) createRole(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateRole(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Role)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListRoles(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Roles)
}

func (h *Handler) createEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 string          `json:"name"`
		RoleID               *int64          `json:"role_id"`
		CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := h.svc.CreateEmployee(r.Context(), app.CreateEmployeeRequest{
		Name: req.Name, RoleID: req.RoleID, CommissionPercentage: req.CommissionPercentage,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeCreated(w, result.Employee)
}

func (h *Handler) getEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, "invalid id", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	result, err := h.svc.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Employee)
}

func (h *Handler) listEmployees(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListEmployees(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result.Employees)
}
