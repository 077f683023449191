package app

import "mechshop/internal/core"

// TenantResult is returned by RegisterTenant, carrying the workshop and the
// bootstrap user that was created with it.
type TenantResult struct {
	Tenant *core.Tenant
	User   *core.User
}

type UserResult struct {
	User *core.User
}

type ClientResult struct {
	Client *core.Client
}

type ClientListResult struct {
	Clients []core.Client
}

type VehicleResult struct {
	Vehicle *core.Vehicle
}

type VehicleListResult struct {
	Vehicles []core.Vehicle
}

type PartResult struct {
	Part *core.Part
}

type PartListResult struct {
	Parts []core.Part
}

type RepairServiceResult struct {
	RepairService *core.RepairService
}

type RepairServiceListResult struct {
	RepairServices []core.RepairService
}

type RoleResult struct {
	Role *core.Role
}

type RoleListResult struct {
	Roles []core.Role
}

type EmployeeResult struct {
	Employee *core.Employee
}

type EmployeeListResult struct {
	Employees []core.Employee
}

type QuotationResult struct {
	Quotation *core.Quotation
}

type QuotationListResult struct {
	Quotations []core.Quotation
}

type ServiceOrderResult struct {
	Order *core.ServiceOrder
}

type ServiceOrderListResult struct {
	Orders []core.ServiceOrder
}

type InvoiceResult struct {
	Invoice *core.Invoice
}

type InvoiceListResult struct {
	Invoices []core.Invoice
}

type CommissionReportResult struct {
	Report *core.CommissionReport
}
