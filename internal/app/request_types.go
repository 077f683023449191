package app

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterTenantRequest bootstraps a workshop with its first user account.
type RegisterTenantRequest struct {
	Name     string
	CNPJ     string
	Username string
	Email    string
	Password string
}

type CreateClientRequest struct {
	Name  string
	CPF   string
	Email string
	Phone string
}

type CreateVehicleRequest struct {
	ClientID int64
	Plate    string
	Brand    string
	Model    string
	Year     int
}

type CreatePartRequest struct {
	Name  string
	SKU   string
	Price decimal.Decimal
}

type CreateRepairServiceRequest struct {
	Name string
	Cost decimal.Decimal
}

type CreateEmployeeRequest struct {
	Name                 string
	RoleID               *int64
	CommissionPercentage decimal.Decimal
}

// QuotationPartLine references a catalog part; a nil UnitPrice means "snapshot
// the current catalog price".
type QuotationPartLine struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
}

type QuotationServiceLine struct {
	RepairServiceID int64
	ServiceCost     *decimal.Decimal
}

type CreateQuotationRequest struct {
	VehicleID    int64
	Description  string
	PartItems    []QuotationPartLine
	ServiceItems []QuotationServiceLine
}

// UpdateQuotationRequest is a partial update; nil slices keep the existing
// items.
type UpdateQuotationRequest struct {
	Description  *string
	Status       *string
	PartItems    []QuotationPartLine
	ServiceItems []QuotationServiceLine
}

type OrderPartLine struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
}

type OrderServiceLine struct {
	RepairServiceID int64
	Quantity        int
	ServiceCost     *decimal.Decimal
	EmployeeID      *int64
}

type CreateServiceOrderRequest struct {
	VehicleID      int64
	Description    string
	EntryDate      *time.Time
	InitialMileage *int
	PartItems      []OrderPartLine
	ServiceItems   []OrderServiceLine
}

type UpdateServiceOrderRequest struct {
	Status         *string
	Description    *string
	InitialMileage *int
	PartItems      []OrderPartLine
	ServiceItems   []OrderServiceLine
}
