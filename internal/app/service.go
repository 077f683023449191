package app

import (
	"context"
)

// ApplicationService is the single interface the web adapter calls. It
// decouples presentation from business logic. Implementations must contain no
// display logic of any kind; every tenant decision happens below it, driven by
// the tenant carried in the context.
type ApplicationService interface {
	// RegisterTenant creates a new workshop together with its first user.
	RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*TenantResult, error)

	// Authenticate verifies credentials and returns the matching user.
	Authenticate(ctx context.Context, username, password string) (*UserResult, error)

	// GetUser returns a user by id, tenant boundary enforced.
	GetUser(ctx context.Context, id int64) (*UserResult, error)

	// CreateClient registers a client under the active tenant.
	CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResult, error)
	GetClient(ctx context.Context, id int64) (*ClientResult, error)
	ListClients(ctx context.Context) (*ClientListResult, error)

	// CreateVehicle registers a vehicle; its tenant comes from the owning client.
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleResult, error)
	GetVehicle(ctx context.Context, id int64) (*VehicleResult, error)
	ListVehicles(ctx context.Context) (*VehicleListResult, error)

	CreatePart(ctx context.Context, req CreatePartRequest) (*PartResult, error)
	ListParts(ctx context.Context) (*PartListResult, error)

	CreateRepairService(ctx context.Context, req CreateRepairServiceRequest) (*RepairServiceResult, error)
	ListRepairServices(ctx context.Context) (*RepairServiceListResult, error)

	CreateRole(ctx context.Context, name string) (*RoleResult, error)
	ListRoles(ctx context.Context) (*RoleListResult, error)

	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResult, error)
	GetEmployee(ctx context.Context, id int64) (*EmployeeResult, error)
	ListEmployees(ctx context.Context) (*EmployeeListResult, error)

	// CreateQuotation builds a quotation for a vehicle, snapshotting catalog
	// prices into the line items.
	CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*QuotationResult, error)
	GetQuotation(ctx context.Context, id int64) (*QuotationResult, error)
	ListQuotations(ctx context.Context) (*QuotationListResult, error)
	ListVehicleQuotations(ctx context.Context, vehicleID int64) (*QuotationListResult, error)
	UpdateQuotation(ctx context.Context, id int64, req UpdateQuotationRequest) (*QuotationResult, error)
	DeleteQuotation(ctx context.Context, id int64) error

	// CreateServiceOrder opens a PENDING order directly, without a quotation.
	CreateServiceOrder(ctx context.Context, req CreateServiceOrderRequest) (*ServiceOrderResult, error)

	// ConvertQuotation turns an AWAITING_CONVERSION quotation into a service
	// order atomically.
	ConvertQuotation(ctx context.Context, quotationID int64) (*ServiceOrderResult, error)

	GetServiceOrder(ctx context.Context, id int64) (*ServiceOrderResult, error)
	ListServiceOrders(ctx context.Context, status *string) (*ServiceOrderListResult, error)
	UpdateServiceOrder(ctx context.Context, id int64, req UpdateServiceOrderRequest) (*ServiceOrderResult, error)
	DeleteServiceOrder(ctx context.Context, id int64) error

	// IssueInvoice creates the single invoice for a COMPLETED service order.
	IssueInvoice(ctx context.Context, serviceOrderID int64) (*InvoiceResult, error)
	GetInvoice(ctx context.Context, id int64) (*InvoiceResult, error)
	ListInvoices(ctx context.Context) (*InvoiceListResult, error)
	UpdateInvoicePayment(ctx context.Context, id int64, status string) (*InvoiceResult, error)

	// CommissionReport aggregates per-employee commissions for orders completed
	// between the two YYYY-MM-DD dates, inclusive.
	CommissionReport(ctx context.Context, startDate, endDate string) (*CommissionReportResult, error)
}
