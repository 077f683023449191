package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ServiceOrder is the executable unit of work. It is created directly or
// derived from a converted quotation, and progresses PENDING → IN_PROGRESS →
// COMPLETED (or CANCELED from either open state).
type ServiceOrder struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id"`
	ClientID       int64           `json:"client_id"`
	VehicleID      int64           `json:"vehicle_id"`
	QuotationID    *int64          `json:"quotation_id,omitempty"`
	Description    string          `json:"description"`
	Status         OrderStatus     `json:"status"`
	EntryDate      time.Time       `json:"entry_date"`
	ExitDate       *time.Time      `json:"exit_date,omitempty"`
	InitialMileage *int            `json:"initial_mileage,omitempty"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	PartItems      []OrderPartItem    `json:"part_items"`
	ServiceItems   []OrderServiceItem `json:"service_items"`
}

type OrderPartItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	PartID    int64           `json:"part_id"`
	PartName  string          `json:"part_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderServiceItem is a service line; EmployeeID links the employee who
// performed it for commission purposes. Assignment is mandatory only when the
// order is being completed.
type OrderServiceItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"order_id"`
	RepairServiceID int64           `json:"repair_service_id"`
	ServiceName     string          `json:"service_name"`
	EmployeeID      *int64          `json:"employee_id,omitempty"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	Quantity        int             `json:"quantity"`
	ServiceCost     decimal.Decimal `json:"service_cost"`
}

type OrderPartItemInput struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
}

type OrderServiceItemInput struct {
	RepairServiceID int64
	Quantity        int
	ServiceCost     *decimal.Decimal
	EmployeeID      *int64
}

// ServiceOrderCreate holds the fields for a direct (non-quotation) creation.
type ServiceOrderCreate struct {
	VehicleID      int64
	Description    string
	EntryDate      *time.Time
	InitialMileage *int
	PartItems      []OrderPartItemInput
	ServiceItems   []OrderServiceItemInput
}

// ServiceOrderUpdate is a partial update; nil item slices keep the current
// collections, non-nil slices replace them wholesale.
type ServiceOrderUpdate struct {
	Status         *string
	Description    *string
	InitialMileage *int
	PartItems      []OrderPartItemInput
	ServiceItems   []OrderServiceItemInput
}

// ServiceOrderService manages the service-order lifecycle.
type ServiceOrderService interface {
	// CreateDirect creates a PENDING order for a vehicle; tenant and client are
	// inherited from the vehicle, catalog prices are snapshotted per item.
	CreateDirect(ctx context.Context, in ServiceOrderCreate) (*ServiceOrder, error)

	// CreateFromQuotation converts an AWAITING_CONVERSION quotation: items are
	// copied by value, the quotation total is reused, and the quotation flips to
	// CONVERTED_TO_ORDER in the same transaction.
	CreateFromQuotation(ctx context.Context, quotationID int64) (*ServiceOrder, error)

	// Get returns an order with its items, enforcing the tenant boundary.
	Get(ctx context.Context, id int64) (*ServiceOrder, error)

	// List returns orders visible to the active tenant, newest first,
	// optionally filtered by status.
	List(ctx context.Context, status *OrderStatus) ([]ServiceOrder, error)

	// Update applies the transition table, replaces item collections when
	// supplied, recomputes the total, and enforces the odometer, non-empty
	// completion, and employee-assignment rules.
	Update(ctx context.Context, id int64, patch ServiceOrderUpdate) (*ServiceOrder, error)

	// Delete removes an order. Invoiced orders are protected by the invoice
	// foreign key.
	Delete(ctx context.Context, id int64) error
}
