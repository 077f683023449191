package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// lookup helpers inside and outside transactions.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// CatalogService provides the tenant-scoped master data the lifecycle
// components resolve references against: clients, vehicles, parts, repair
// services, employees, and roles. Reads snapshot prices; creation exists so a
// shop can be populated.
type CatalogService interface {
	CreateClient(ctx context.Context, name, cpf, email, phone string) (*Client, error)
	GetClient(ctx context.Context, id int64) (*Client, error)
	ListClients(ctx context.Context) ([]Client, error)

	// CreateVehicle inherits its tenant from the owning client.
	CreateVehicle(ctx context.Context, clientID int64, plate, brand, model string, year int) (*Vehicle, error)
	GetVehicle(ctx context.Context, id int64) (*Vehicle, error)
	ListVehicles(ctx context.Context) ([]Vehicle, error)

	CreatePart(ctx context.Context, name, sku string, price decimal.Decimal) (*Part, error)
	GetPart(ctx context.Context, id int64) (*Part, error)
	ListParts(ctx context.Context) ([]Part, error)

	CreateRepairService(ctx context.Context, name string, cost decimal.Decimal) (*RepairService, error)
	GetRepairService(ctx context.Context, id int64) (*RepairService, error)
	ListRepairServices(ctx context.Context) ([]RepairService, error)

	CreateRole(ctx context.Context, name string) (*Role, error)
	ListRoles(ctx context.Context) ([]Role, error)

	// CreateEmployee rejects commission percentages outside [0, 100].
	CreateEmployee(ctx context.Context, name string, roleID *int64, commissionPct decimal.Decimal) (*Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
}

type catalogService struct {
	pool *pgxpool.Pool
}

func NewCatalogService(pool *pgxpool.Pool) CatalogService {
	return &catalogService{pool: pool}
}

// ── Clients ──────────────────────────────────────────────────────────────────

func (s *catalogService) CreateClient(ctx context.Context, name, cpf, email, phone string) (*Client, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	var c Client
	err = s.pool.QueryRow(ctx, `
		INSERT INTO clients (tenant_id, name, cpf, email, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, tenant_id, name, cpf, email, phone, created_at
	`, tenantID, name, cpf, email, phone).Scan(
		&c.ID, &c.TenantID, &c.Name, &c.CPF, &c.Email, &c.Phone, &c.CreatedAt,
	)
	if err != nil {
		return nil, translateDBError("create client", err)
	}
	return &c, nil
}

func (s *catalogService) GetClient(ctx context.Context, id int64) (*Client, error) {
	return getClientQ(ctx, s.pool, id)
}

func getClientQ(ctx context.Context, q querier, id int64) (*Client, error) {
	var c Client
	err := q.QueryRow(ctx, `
		SELECT id, tenant_id, name, cpf, email, phone, created_at
		FROM clients WHERE id = $1
	`, id).Scan(&c.ID, &c.TenantID, &c.Name, &c.CPF, &c.Email, &c.Phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("client %d not found", id)
		}
		return nil, translateDBError("fetch client", err)
	}
	if err := CheckTenantAccess(ctx, c.TenantID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *catalogService) ListClients(ctx context.Context) ([]Client, error) {
	query := "SELECT id, tenant_id, name, cpf, email, phone, created_at FROM clients WHERE true"
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query clients", err)
	}
	defer rows.Close()

	var clients []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.TenantID, &c.Name, &c.CPF, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, translateDBError("scan client", err)
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// ── Vehicles ─────────────────────────────────────────────────────────────────

func (s *catalogService) CreateVehicle(ctx context.Context, clientID int64, plate, brand, model string, year int) (*Vehicle, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	var v Vehicle
	err = s.pool.QueryRow(ctx, `
		INSERT INTO vehicles (tenant_id, client_id, plate, brand, model, year)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, tenant_id, client_id, plate, brand, model, year, created_at
	`, client.TenantID, client.ID, plate, brand, model, year).Scan(
		&v.ID, &v.TenantID, &v.ClientID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.CreatedAt,
	)
	if err != nil {
		return nil, translateDBError("create vehicle", err)
	}
	return &v, nil
}

func (s *catalogService) GetVehicle(ctx context.Context, id int64) (*Vehicle, error) {
	return getVehicleQ(ctx, s.pool, id)
}

func getVehicleQ(ctx context.Context, q querier, id int64) (*Vehicle, error) {
	var v Vehicle
	err := q.QueryRow(ctx, `
		SELECT id, tenant_id, client_id, plate, brand, model, year, created_at
		FROM vehicles WHERE id = $1
	`, id).Scan(&v.ID, &v.TenantID, &v.ClientID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("vehicle %d not found", id)
		}
		return nil, translateDBError("fetch vehicle", err)
	}
	if err := CheckTenantAccess(ctx, v.TenantID); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *catalogService) ListVehicles(ctx context.Context) ([]Vehicle, error) {
	query := "SELECT id, tenant_id, client_id, plate, brand, model, year, created_at FROM vehicles WHERE true"
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY plate"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query vehicles", err)
	}
	defer rows.Close()

	var vehicles []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.TenantID, &v.ClientID, &v.Plate, &v.Brand, &v.Model, &v.Year, &v.CreatedAt); err != nil {
			return nil, translateDBError("scan vehicle", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// ── Parts ────────────────────────────────────────────────────────────────────

func (s *catalogService) CreatePart(ctx context.Context, name, sku string, price decimal.Decimal) (*Part, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, BusinessRulef("part price cannot be negative")
	}

	var p Part
	err = s.pool.QueryRow(ctx, `
		INSERT INTO parts (tenant_id, name, sku, price)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, name, sku, price, created_at
	`, tenantID, name, sku, price).Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt)
	if err != nil {
		return nil, translateDBError("create part", err)
	}
	return &p, nil
}

func (s *catalogService) GetPart(ctx context.Context, id int64) (*Part, error) {
	return getPartQ(ctx, s.pool, id)
}

func getPartQ(ctx context.Context, q querier, id int64) (*Part, error) {
	var p Part
	err := q.QueryRow(ctx, `
		SELECT id, tenant_id, name, sku, price, created_at
		FROM parts WHERE id = $1
	`, id).Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("part %d not found", id)
		}
		return nil, translateDBError("fetch part", err)
	}
	if err := CheckTenantAccess(ctx, p.TenantID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *catalogService) ListParts(ctx context.Context) ([]Part, error) {
	query := "SELECT id, tenant_id, name, sku, price, created_at FROM parts WHERE true"
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query parts", err)
	}
	defer rows.Close()

	var parts []Part
	for rows.Next() {
		var p Part
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.SKU, &p.Price, &p.CreatedAt); err != nil {
			return nil, translateDBError("scan part", err)
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ── Repair services ──────────────────────────────────────────────────────────

func (s *catalogService) CreateRepairService(ctx context.Context, name string, cost decimal.Decimal) (*RepairService, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if cost.IsNegative() {
		return nil, BusinessRulef("repair service cost cannot be negative")
	}

	var r RepairService
	err = s.pool.QueryRow(ctx, `
		INSERT INTO repair_services (tenant_id, name, cost)
		VALUES ($1, $2, $3)
		RETURNING id, tenant_id, name, cost, created_at
	`, tenantID, name, cost).Scan(&r.ID, &r.TenantID, &r.Name, &r.Cost, &r.CreatedAt)
	if err != nil {
		return nil, translateDBError("create repair service", err)
	}
	return &r, nil
}

func (s *catalogService) GetRepairService(ctx context.Context, id int64) (*RepairService, error) {
	return getRepairServiceQ(ctx, s.pool, id)
}

func getRepairServiceQ(ctx context.Context, q querier, id int64) (*RepairService, error) {
	var r RepairService
	err := q.QueryRow(ctx, `
		SELECT id, tenant_id, name, cost, created_at
		FROM repair_services WHERE id = $1
	`, id).Scan(&r.ID, &r.TenantID, &r.Name, &r.Cost, &r.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("repair service %d not found", id)
		}
		return nil, translateDBError("fetch repair service", err)
	}
	if err := CheckTenantAccess(ctx, r.TenantID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *catalogService) ListRepairServices(ctx context.Context) ([]RepairService, error) {
	query := "SELECT id, tenant_id, name, cost, created_at FROM repair_services WHERE true"
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query repair services", err)
	}
	defer rows.Close()

	var services []RepairService
	for rows.Next() {
		var r RepairService
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name, &r.Cost, &r.CreatedAt); err != nil {
			return nil, translateDBError("scan repair service", err)
		}
		services = append(services, r)
	}
	return services, rows.Err()
}

// ── Roles ────────────────────────────────────────────────────────────────────

func (s *catalogService) CreateRole(ctx context.Context, name string) (*Role, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}

	var r Role
	err = s.pool.QueryRow(ctx, `
		INSERT INTO roles (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, tenant_id, name
	`, tenantID, name).Scan(&r.ID, &r.TenantID, &r.Name)
	if err != nil {
		return nil, translateDBError("create role", err)
	}
	return &r, nil
}

func (s *catalogService) ListRoles(ctx context.Context) ([]Role, error) {
	query := "SELECT id, tenant_id, name FROM roles WHERE true"
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query roles", err)
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.TenantID, &r.Name); err != nil {
			return nil, translateDBError("scan role", err)
		}
		roles = append(roles, r)
	}
	return roles, rows.Err()
}

// ── Employees ────────────────────────────────────────────────────────────────

func (s *catalogService) CreateEmployee(ctx context.Context, name string, roleID *int64, commissionPct decimal.Decimal) (*Employee, error) {
	tenantID, err := requireTenant(ctx)
	if err != nil {
		return nil, err
	}
	if commissionPct.IsNegative() || commissionPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, BusinessRulef("commission percentage must be between 0 and 100")
	}

	var e Employee
	err = s.pool.QueryRow(ctx, `
		INSERT INTO employees (tenant_id, name, role_id, commission_percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, tenant_id, name, role_id, commission_percentage, created_at
	`, tenantID, name, roleID, commissionPct).Scan(
		&e.ID, &e.TenantID, &e.Name, &e.RoleID, &e.CommissionPercentage, &e.CreatedAt,
	)
	if err != nil {
		return nil, translateDBError("create employee", err)
	}
	return &e, nil
}

func (s *catalogService) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	return getEmployeeQ(ctx, s.pool, id)
}

func getEmployeeQ(ctx context.Context, q querier, id int64) (*Employee, error) {
	var e Employee
	err := q.QueryRow(ctx, `
		SELECT e.id, e.tenant_id, e.name, e.role_id, COALESCE(r.name, ''), e.commission_percentage, e.created_at
		FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE e.id = $1
	`, id).Scan(&e.ID, &e.TenantID, &e.Name, &e.RoleID, &e.RoleName, &e.CommissionPercentage, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("employee %d not found", id)
		}
		return nil, translateDBError("fetch employee", err)
	}
	if err := CheckTenantAccess(ctx, e.TenantID); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *catalogService) ListEmployees(ctx context.Context) ([]Employee, error) {
	query := `
		SELECT e.id, e.tenant_id, e.name, e.role_id, COALESCE(r.name, ''), e.commission_percentage, e.created_at
		FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE true`
	query, args := scopeFilter(ctx, query, "e.tenant_id", nil)
	query += " ORDER BY e.name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query employees", err)
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.RoleID, &e.RoleName, &e.CommissionPercentage, &e.CreatedAt); err != nil {
			return nil, translateDBError("scan employee", err)
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
