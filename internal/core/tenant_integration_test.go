package core_test

import (
	"context"
	"errors"
	"testing"

	"mechshop/internal/core"

	"github.com/shopspring/decimal"
)

func TestTenant_RegisterAndIsolation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	tenants := core.NewTenantService(pool)

	// Registration runs without an active tenant.
	created, err := tenants.Register(context.Background(), "Oficina Gama", "99888777000166")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.ID == 0 || created.Name != "Oficina Gama" {
		t.Fatalf("unexpected tenant: %+v", created)
	}

	if _, err := tenants.Register(context.Background(), "  ", ""); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected empty name rejection, got %v", err)
	}

	// A scoped context can read its own tenant but not a foreign one.
	if _, err := tenants.Get(alfaCtx(), tenantAlfa); err != nil {
		t.Fatalf("get own tenant: %v", err)
	}
	if _, err := tenants.Get(alfaCtx(), created.ID); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}

func TestUser_CreateAndAuthenticate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := core.NewUserService(pool)
	ctx := alfaCtx()

	u, err := users.Create(ctx, tenantAlfa, "maria", "maria@alfa.com", "s3cret-pass", "")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Role != "OPERATOR" {
		t.Fatalf("default role missing: %+v", u)
	}

	if _, err := users.Create(ctx, tenantAlfa, "short", "s@alfa.com", "tiny", ""); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected short password rejection, got %v", err)
	}
	// A scoped caller cannot create users for another tenant.
	if _, err := users.Create(ctx, tenantBeta, "intruso", "x@beta.com", "s3cret-pass", ""); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	got, err := users.Authenticate(context.Background(), "maria", "s3cret-pass")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.TenantID != tenantAlfa {
		t.Fatalf("tenant mismatch: %+v", got)
	}

	byName, err := users.GetByUsername(ctx, "maria")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName.ID != u.ID {
		t.Fatalf("expected user %d, got %d", u.ID, byName.ID)
	}

	if _, err := users.Authenticate(context.Background(), "maria", "wrong"); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := users.Authenticate(context.Background(), "nobody", "whatever"); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected invalid credentials for unknown user, got %v", err)
	}
}

func TestCatalog_TenantScoping(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	catalog := core.NewCatalogService(pool)

	// Tenant 1 sees only its own catalog.
	parts, err := catalog.ListParts(alfaCtx())
	if err != nil {
		t.Fatalf("list parts: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	betaParts, err := catalog.ListParts(betaCtx())
	if err != nil {
		t.Fatalf("list parts: %v", err)
	}
	if len(betaParts) != 0 {
		t.Fatalf("foreign tenant sees %d parts", len(betaParts))
	}

	if _, err := catalog.GetPart(betaCtx(), partOilFilter); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	// Creation requires an active tenant.
	if _, err := catalog.CreatePart(context.Background(), "Air filter", "AF-1", decimal.NewFromInt(30)); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected missing tenant rejection, got %v", err)
	}

	// Commission percentage is bounded.
	if _, err := catalog.CreateEmployee(alfaCtx(), "Zed", nil, decimal.NewFromInt(101)); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected commission bound rejection, got %v", err)
	}

	// Vehicles inherit the tenant from their client, so a foreign client is out
	// of reach entirely.
	if _, err := catalog.CreateVehicle(alfaCtx(), clientDiana, "DEF4G56", "Ford", "Ka", 2019); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	// Plates are unique per tenant; the storage conflict surfaces as a typed
	// error.
	if _, err := catalog.CreateVehicle(alfaCtx(), clientCarlos, "ABC1D23", "Fiat", "Argo", 2021); !errors.Is(err, core.ErrUniqueConstraint) {
		t.Fatalf("expected unique constraint violation, got %v", err)
	}
}
