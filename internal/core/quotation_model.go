package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Quotation is a pre-work estimate. Its line items snapshot catalog prices at
// creation time; TotalCost is always the sum over the current items.
type Quotation struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id"`
	ClientID       int64           `json:"client_id"`
	VehicleID      int64           `json:"vehicle_id"`
	ServiceOrderID *int64          `json:"service_order_id,omitempty"`
	Description    string          `json:"description"`
	Status         QuotationStatus `json:"status"`
	TotalCost      decimal.Decimal `json:"total_cost"`
	EntryTime      time.Time       `json:"entry_time"`
	PartItems      []QuotationPartItem    `json:"part_items"`
	ServiceItems   []QuotationServiceItem `json:"service_items"`
}

type QuotationPartItem struct {
	ID          int64           `json:"id"`
	QuotationID int64           `json:"quotation_id"`
	PartID      int64           `json:"part_id"`
	PartName    string          `json:"part_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type QuotationServiceItem struct {
	ID              int64           `json:"id"`
	QuotationID     int64           `json:"quotation_id"`
	RepairServiceID int64           `json:"repair_service_id"`
	ServiceName     string          `json:"service_name"`
	ServiceCost     decimal.Decimal `json:"service_cost"`
}

// QuotationPartItemInput references a catalog part. UnitPrice overrides the
// catalog price when set; otherwise the current catalog price is snapshotted.
type QuotationPartItemInput struct {
	PartID    int64
	Quantity  int
	UnitPrice *decimal.Decimal
}

// QuotationServiceItemInput references a catalog repair service; ServiceCost
// overrides the catalog cost when set.
type QuotationServiceItemInput struct {
	RepairServiceID int64
	ServiceCost     *decimal.Decimal
}

// QuotationUpdate is a partial update. Nil item slices mean "keep the current
// items"; non-nil slices replace the collection wholesale.
type QuotationUpdate struct {
	Description  *string
	Status       *string
	PartItems    []QuotationPartItemInput
	ServiceItems []QuotationServiceItemInput
}

// QuotationService manages the quotation lifecycle. Conversion into a service
// order is owned by ServiceOrderService.CreateFromQuotation.
type QuotationService interface {
	// Create builds a quotation for a vehicle. The tenant and client are
	// inherited from the vehicle; at least one part or service item is required.
	Create(ctx context.Context, vehicleID int64, description string,
		parts []QuotationPartItemInput, services []QuotationServiceItemInput) (*Quotation, error)

	// Get returns a quotation with its items, enforcing the tenant boundary.
	Get(ctx context.Context, id int64) (*Quotation, error)

	// List returns quotations visible to the active tenant, newest first.
	List(ctx context.Context) ([]Quotation, error)

	// ListByVehicle returns the vehicle's quotations, newest first.
	ListByVehicle(ctx context.Context, vehicleID int64) ([]Quotation, error)

	// Update validates the requested status transition, replaces item
	// collections when supplied, and recomputes the total.
	Update(ctx context.Context, id int64, patch QuotationUpdate) (*Quotation, error)

	// Delete removes an unconverted quotation. Converted quotations are
	// protected by the service-order foreign key.
	Delete(ctx context.Context, id int64) error
}
