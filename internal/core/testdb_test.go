package core_test

import (
	"context"
	"os"
	"testing"
	"time"

	"mechshop/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// Fixture ids seeded by setupTestDB. Tenant 1 owns the full catalog; tenant 2
// exists to prove the isolation boundary.
const (
	tenantAlfa int64 = 1
	tenantBeta int64 = 2

	clientCarlos  int64 = 1
	clientDiana   int64 = 2
	vehicleAlfa   int64 = 1
	vehicleBeta   int64 = 2
	partOilFilter int64 = 1
	partBrakePad  int64 = 2
	svcOilChange  int64 = 1
	svcBrakeJob   int64 = 2
	empMarcos     int64 = 1
	empAna        int64 = 2
	empBruno      int64 = 3
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE invoices, service_order_service_items, service_order_part_items, service_orders,
			quotation_service_items, quotation_part_items, quotations,
			vehicles, clients, employees, roles, parts, repair_services, users, tenants
			RESTART IDENTITY CASCADE;

		INSERT INTO tenants (id, name, cnpj) VALUES
			(1, 'Oficina Alfa', '11222333000144'),
			(2, 'Oficina Beta', '55666777000188');

		INSERT INTO roles (id, tenant_id, name) VALUES (1, 1, 'Mechanic');

		INSERT INTO employees (id, tenant_id, name, role_id, commission_percentage) VALUES
			(1, 1, 'Marcos', 1, 10),
			(2, 1, 'Ana', NULL, 15),
			(3, 2, 'Bruno', NULL, 20);

		INSERT INTO clients (id, tenant_id, name, cpf, email, phone) VALUES
			(1, 1, 'Carlos Souza', '11111111111', 'carlos@example.com', '11 98888-0001'),
			(2, 2, 'Diana Lima', '22222222222', 'diana@example.com', '21 97777-0002');

		INSERT INTO vehicles (id, tenant_id, client_id, plate, brand, model, year) VALUES
			(1, 1, 1, 'ABC1D23', 'Fiat', 'Argo', 2021),
			(2, 2, 2, 'XYZ9K88', 'VW', 'Gol', 2018);

		INSERT INTO parts (id, tenant_id, name, sku, price) VALUES
			(1, 1, 'Oil filter', 'OF-100', 45.90),
			(2, 1, 'Brake pad set', 'BP-200', 120.00);

		INSERT INTO repair_services (id, tenant_id, name, cost) VALUES
			(1, 1, 'Oil change', 80.00),
			(2, 1, 'Brake service', 150.00);

		SELECT setval(pg_get_serial_sequence('tenants', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('roles', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('tenants', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('roles', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('employees', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('clients', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('vehicles', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('parts', 'id'), 100);
		SELECT setval(pg_get_serial_sequence('repair_services', 'id'), 100);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

// alfaCtx returns a context scoped to the primary test tenant.
func alfaCtx() context.Context {
	return core.WithTenant(context.Background(), tenantAlfa)
}

func betaCtx() context.Context {
	return core.WithTenant(context.Background(), tenantBeta)
}

// fixedClock pins service timestamps so assertions on stamped dates are exact.
func fixedClock(t time.Time) core.Clock {
	return func() time.Time { return t }
}
