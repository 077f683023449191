package app

import (
	"context"
	"time"

	"mechshop/internal/core"
)

type appService struct {
	tenants    core.TenantService
	users      core.UserService
	catalog    core.CatalogService
	quotations core.QuotationService
	orders     core.ServiceOrderService
	invoices   core.InvoiceService
	reports    core.ReportService
}

// NewAppService constructs an appService that satisfies ApplicationService.
func NewAppService(
	tenants core.TenantService,
	users core.UserService,
	catalog core.CatalogService,
	quotations core.QuotationService,
	orders core.ServiceOrderService,
	invoices core.InvoiceService,
	reports core.ReportService,
) ApplicationService {
	return &appService{
		tenants:    tenants,
		users:      users,
		catalog:    catalog,
		quotations: quotations,
		orders:     orders,
		invoices:   invoices,
		reports:    reports,
	}
}

// RegisterTenant creates the workshop and its first user. The user creation
// runs with the fresh tenant installed in the context so the scoping rules in
// core see a consistent picture.
func (s *appService) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*TenantResult, error) {
	tenant, err := s.tenants.Register(ctx, req.Name, req.CNPJ)
	if err != nil {
		return nil, err
	}
	user, err := s.users.Create(core.WithTenant(ctx, tenant.ID), tenant.ID, req.Username, req.Email, req.Password, "ADMIN")
	if err != nil {
		return nil, err
	}
	return &TenantResult{Tenant: tenant, User: user}, nil
}

func (s *appService) Authenticate(ctx context.Context, username, password string) (*UserResult, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) GetUser(ctx context.Context, id int64) (*UserResult, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: user}, nil
}

func (s *appService) CreateClient(ctx context.Context, req CreateClientRequest) (*ClientResult, error) {
	client, err := s.catalog.CreateClient(ctx, req.Name, req.CPF, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: client}, nil
}

func (s *appService) GetClient(ctx context.Context, id int64) (*ClientResult, error) {
	client, err := s.catalog.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ClientResult{Client: client}, nil
}

func (s *appService) ListClients(ctx context.Context) (*ClientListResult, error) {
	clients, err := s.catalog.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	return &ClientListResult{Clients: clients}, nil
}

func (s *appService) CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*VehicleResult, error) {
	vehicle, err := s.catalog.CreateVehicle(ctx, req.ClientID, req.Plate, req.Brand, req.Model, req.Year)
	if err != nil {
		return nil, err
	}
	return &VehicleResult{Vehicle: vehicle}, nil
}

func (s *appService) GetVehicle(ctx context.Context, id int64) (*VehicleResult, error) {
	vehicle, err := s.catalog.GetVehicle(ctx, id)
	if err != nil {
		return nil, err
	}
	return &VehicleResult{Vehicle: vehicle}, nil
}

func (s *appService) ListVehicles(ctx context.Context) (*VehicleListResult, error) {
	vehicles, err := s.catalog.ListVehicles(ctx)
	if err != nil {
		return nil, err
	}
	return &VehicleListResult{Vehicles: vehicles}, nil
}

func (s *appService) CreatePart(ctx context.Context, req CreatePartRequest) (*PartResult, error) {
	part, err := s.catalog.CreatePart(ctx, req.Name, req.SKU, req.Price)
	if err != nil {
		return nil, err
	}
	return &PartResult{Part: part}, nil
}

func (s *appService) ListParts(ctx context.Context) (*PartListResult, error) {
	parts, err := s.catalog.ListParts(ctx)
	if err != nil {
		return nil, err
	}
	return &PartListResult{Parts: parts}, nil
}

func (s *appService) CreateRepairService(ctx context.Context, req CreateRepairServiceRequest) (*RepairServiceResult, error) {
	svc, err := s.catalog.CreateRepairService(ctx, req.Name, req.Cost)
	if err != nil {
		return nil, err
	}
	return &RepairServiceResult{RepairService: svc}, nil
}

func (s *appService) ListRepairServices(ctx context.Context) (*RepairServiceListResult, error) {
	services, err := s.catalog.ListRepairServices(ctx)
	if err != nil {
		return nil, err
	}
	return &RepairServiceListResult{RepairServices: services}, nil
}

func (s *appService) CreateRole(ctx context.Context, name string) (*RoleResult, error) {
	role, err := s.catalog.CreateRole(ctx, name)
	if err != nil {
		return nil, err
	}
	return &RoleResult{Role: role}, nil
}

func (s *appService) ListRoles(ctx context.Context) (*RoleListResult, error) {
	roles, err := s.catalog.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	return &RoleListResult{Roles: roles}, nil
}

func (s *appService) CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (*EmployeeResult, error) {
	employee, err := s.catalog.CreateEmployee(ctx, req.Name, req.RoleID, req.CommissionPercentage)
	if err != nil {
		return nil, err
	}
	return &EmployeeResult{Employee: employee}, nil
}

func (s *appService) GetEmployee(ctx context.Context, id int64) (*EmployeeResult, error) {
	employee, err := s.catalog.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return &EmployeeResult{Employee: employee}, nil
}

func (s *appService) ListEmployees(ctx context.Context) (*EmployeeListResult, error) {
	employees, err := s.catalog.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	return &EmployeeListResult{Employees: employees}, nil
}

func (s *appService) CreateQuotation(ctx context.Context, req CreateQuotationRequest) (*QuotationResult, error) {
	q, err := s.quotations.Create(ctx, req.VehicleID, req.Description,
		quotationPartInputs(req.PartItems), quotationServiceInputs(req.ServiceItems))
	if err != nil {
		return nil, err
	}
	return &QuotationResult{Quotation: q}, nil
}

func (s *appService) GetQuotation(ctx context.Context, id int64) (*QuotationResult, error) {
	q, err := s.quotations.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &QuotationResult{Quotation: q}, nil
}

func (s *appService) ListQuotations(ctx context.Context) (*QuotationListResult, error) {
	quotations, err := s.quotations.List(ctx)
	if err != nil {
		return nil, err
	}
	return &QuotationListResult{Quotations: quotations}, nil
}

func (s *appService) ListVehicleQuotations(ctx context.Context, vehicleID int64) (*QuotationListResult, error) {
	quotations, err := s.quotations.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	return &QuotationListResult{Quotations: quotations}, nil
}

func (s *appService) UpdateQuotation(ctx context.Context, id int64, req UpdateQuotationRequest) (*QuotationResult, error) {
	patch := core.QuotationUpdate{
		Description: req.Description,
		Status:      req.Status,
	}
	if req.PartItems != nil {
		patch.PartItems = quotationPartInputs(req.PartItems)
	}
	if req.ServiceItems != nil {
		patch.ServiceItems = quotationServiceInputs(req.ServiceItems)
	}
	q, err := s.quotations.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &QuotationResult{Quotation: q}, nil
}

func (s *appService) DeleteQuotation(ctx context.Context, id int64) error {
	return s.quotations.Delete(ctx, id)
}

func (s *appService) CreateServiceOrder(ctx context.Context, req CreateServiceOrderRequest) (*ServiceOrderResult, error) {
	order, err := s.orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID:      req.VehicleID,
		Description:    req.Description,
		EntryDate:      req.EntryDate,
		InitialMileage: req.InitialMileage,
		PartItems:      orderPartInputs(req.PartItems),
		ServiceItems:   orderServiceInputs(req.ServiceItems),
	})
	if err != nil {
		return nil, err
	}
	return &ServiceOrderResult{Order: order}, nil
}

func (s *appService) ConvertQuotation(ctx context.Context, quotationID int64) (*ServiceOrderResult, error) {
	order, err := s.orders.CreateFromQuotation(ctx, quotationID)
	if err != nil {
		return nil, err
	}
	return &ServiceOrderResult{Order: order}, nil
}

func (s *appService) GetServiceOrder(ctx context.Context, id int64) (*ServiceOrderResult, error) {
	order, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ServiceOrderResult{Order: order}, nil
}

func (s *appService) ListServiceOrders(ctx context.Context, status *string) (*ServiceOrderListResult, error) {
	var filter *core.OrderStatus
	if status != nil && *status != "" {
		parsed, err := core.ParseOrderStatus(*status)
		if err != nil {
			return nil, err
		}
		filter = &parsed
	}
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &ServiceOrderListResult{Orders: orders}, nil
}

func (s *appService) UpdateServiceOrder(ctx context.Context, id int64, req UpdateServiceOrderRequest) (*ServiceOrderResult, error) {
	patch := core.ServiceOrderUpdate{
		Status:         req.Status,
		Description:    req.Description,
		InitialMileage: req.InitialMileage,
	}
	if req.PartItems != nil {
		patch.PartItems = orderPartInputs(req.PartItems)
	}
	if req.ServiceItems != nil {
		patch.ServiceItems = orderServiceInputs(req.ServiceItems)
	}
	order, err := s.orders.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	return &ServiceOrderResult{Order: order}, nil
}

func (s *appService) DeleteServiceOrder(ctx context.Context, id int64) error {
	return s.orders.Delete(ctx, id)
}

func (s *appService) IssueInvoice(ctx context.Context, serviceOrderID int64) (*InvoiceResult, error) {
	invoice, err := s.invoices.IssueFromServiceOrder(ctx, serviceOrderID)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) GetInvoice(ctx context.Context, id int64) (*InvoiceResult, error) {
	invoice, err := s.invoices.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) ListInvoices(ctx context.Context) (*InvoiceListResult, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	return &InvoiceListResult{Invoices: invoices}, nil
}

func (s *appService) UpdateInvoicePayment(ctx context.Context, id int64, status string) (*InvoiceResult, error) {
	invoice, err := s.invoices.UpdatePaymentStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	return &InvoiceResult{Invoice: invoice}, nil
}

func (s *appService) CommissionReport(ctx context.Context, startDate, endDate string) (*CommissionReportResult, error) {
	start, err := parseReportDate(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseReportDate(endDate)
	if err != nil {
		return nil, err
	}
	report, err := s.reports.Commissions(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &CommissionReportResult{Report: report}, nil
}

func parseReportDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, core.BusinessRulef("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func quotationPartInputs(lines []QuotationPartLine) []core.QuotationPartItemInput {
	out := make([]core.QuotationPartItemInput, len(lines))
	for i, l := range lines {
		out[i] = core.QuotationPartItemInput{PartID: l.PartID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}

func quotationServiceInputs(lines []QuotationServiceLine) []core.QuotationServiceItemInput {
	out := make([]core.QuotationServiceItemInput, len(lines))
	for i, l := range lines {
		out[i] = core.QuotationServiceItemInput{RepairServiceID: l.RepairServiceID, ServiceCost: l.ServiceCost}
	}
	return out
}

func orderPartInputs(lines []OrderPartLine) []core.OrderPartItemInput {
	out := make([]core.OrderPartItemInput, len(lines))
	for i, l := range lines {
		out[i] = core.OrderPartItemInput{PartID: l.PartID, Quantity: l.Quantity, UnitPrice: l.UnitPrice}
	}
	return out
}

func orderServiceInputs(lines []OrderServiceLine) []core.OrderServiceItemInput {
	out := make([]core.OrderServiceItemInput, len(lines))
	for i, l := range lines {
		out[i] = core.OrderServiceItemInput{
			RepairServiceID: l.RepairServiceID,
			Quantity:        l.Quantity,
			ServiceCost:     l.ServiceCost,
			EmployeeID:      l.EmployeeID,
		}
	}
	return out
}
