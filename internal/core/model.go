package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is an isolated shop/organization. Every scoped record belongs to
// exactly one; the tenant itself is the only unscoped entity in the model.
type Tenant struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CNPJ      string    `json:"cnpj"`
	CreatedAt time.Time `json:"created_at"`
}

type Role struct {
	ID       int64  `json:"id"`
	TenantID int64  `json:"tenant_id"`
	Name     string `json:"name"`
}

type User struct {
	ID           int64     `json:"id"`
	TenantID     int64     `json:"tenant_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Client struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	Name      string    `json:"name"`
	CPF       string    `json:"cpf"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type Vehicle struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenant_id"`
	ClientID  int64     `json:"client_id"`
	Plate     string    `json:"plate"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

type Part struct {
	ID        int64           `json:"id"`
	TenantID  int64           `json:"tenant_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

type RepairService struct {
	ID        int64           `json:"id"`
	TenantID  int64           `json:"tenant_id"`
	Name      string          `json:"name"`
	Cost      decimal.Decimal `json:"cost"`
	CreatedAt time.Time       `json:"created_at"`
}

// Employee performs repair services; CommissionPercentage (0–100) is the share
// of service revenue credited per assigned line item.
type Employee struct {
	ID                   int64           `json:"id"`
	TenantID             int64           `json:"tenant_id"`
	Name                 string          `json:"name"`
	RoleID               *int64          `json:"role_id,omitempty"`
	RoleName             string          `json:"role_name,omitempty"`
	CommissionPercentage decimal.Decimal `json:"commission_percentage"`
	CreatedAt            time.Time       `json:"created_at"`
}
