// seed is a one-shot tool that populates a fresh database with a demo
// workshop: one tenant, a login, a small catalog, and an example client with a
// vehicle. Run it after cmd/migrate on an empty database.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"log"
	"time"

	"mechshop/internal/app"
	"mechshop/internal/core"
	"mechshop/internal/db"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	svc := app.NewAppService(
		core.NewTenantService(pool),
		core.NewUserService(pool),
		core.NewCatalogService(pool),
		core.NewQuotationService(pool, time.Now),
		core.NewServiceOrderService(pool, time.Now),
		core.NewInvoiceService(pool, time.Now),
		core.NewReportService(pool),
	)

	log.Println("Registering demo workshop...")
	tenant, err := svc.RegisterTenant(ctx, app.RegisterTenantRequest{
		Name:     "Oficina Modelo",
		CNPJ:     "12345678000190",
		Username: "admin",
		Email:    "admin@oficinamodelo.test",
		Password: "change-me-now",
	})
	if err != nil {
		log.Fatalf("Failed to register tenant: %v", err)
	}
	ctx = core.WithTenant(ctx, tenant.Tenant.ID)

	log.Println("Seeding catalog...")
	role, err := svc.CreateRole(ctx, "Mechanic")
	if err != nil {
		log.Fatalf("Failed to create role: %v", err)
	}
	if _, err := svc.CreateEmployee(ctx, app.CreateEmployeeRequest{
		Name:                 "João Pereira",
		RoleID:               &role.Role.ID,
		CommissionPercentage: decimal.NewFromInt(10),
	}); err != nil {
		log.Fatalf("Failed to create employee: %v", err)
	}

	parts := []app.CreatePartRequest{
		{Name: "Oil filter", SKU: "OF-100", Price: decimal.RequireFromString("45.90")},
		{Name: "Brake pad set", SKU: "BP-200", Price: decimal.RequireFromString("189.00")},
		{Name: "Engine oil 5W30 (L)", SKU: "EO-530", Price: decimal.RequireFromString("52.50")},
	}
	for _, p := range parts {
		if _, err := svc.CreatePart(ctx, p); err != nil {
			log.Fatalf("Failed to create part %s: %v", p.SKU, err)
		}
	}

	services := []app.CreateRepairServiceRequest{
		{Name: "Oil change", Cost: decimal.RequireFromString("80.00")},
		{Name: "Brake service", Cost: decimal.RequireFromString("220.00")},
		{Name: "Full diagnosis", Cost: decimal.RequireFromString("150.00")},
	}
	for _, s := range services {
		if _, err := svc.CreateRepairService(ctx, s); err != nil {
			log.Fatalf("Failed to create repair service %s: %v", s.Name, err)
		}
	}

	log.Println("Seeding example client and vehicle...")
	client, err := svc.CreateClient(ctx, app.CreateClientRequest{
		Name:  "Carlos Souza",
		CPF:   "12345678901",
		Email: "carlos@example.com",
		Phone: "11 98888-0001",
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	if _, err := svc.CreateVehicle(ctx, app.CreateVehicleRequest{
		ClientID: client.Client.ID,
		Plate:    "ABC1D23",
		Brand:    "Fiat",
		Model:    "Argo",
		Year:     2021,
	}); err != nil {
		log.Fatalf("Failed to create vehicle: %v", err)
	}

	log.Printf("Done. Tenant %d seeded; log in as 'admin'.", tenant.Tenant.ID)
}
