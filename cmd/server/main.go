package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	webAdapter "mechshop/internal/adapters/web"
	"mechshop/internal/app"
	"mechshop/internal/core"
	"mechshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	tenantService := core.NewTenantService(pool)
	userService := core.NewUserService(pool)
	catalogService := core.NewCatalogService(pool)
	quotationService := core.NewQuotationService(pool, time.Now)
	orderService := core.NewServiceOrderService(pool, time.Now)
	invoiceService := core.NewInvoiceService(pool, time.Now)
	reportService := core.NewReportService(pool)

	svc := app.NewAppService(tenantService, userService, catalogService,
		quotationService, orderService, invoiceService, reportService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
