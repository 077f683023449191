package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantService manages workshops (tenants). Registration is the one
// deliberately unscoped write in the system: a tenant cannot exist before
// itself, so Register runs without an active tenant in the context.
type TenantService interface {
	Register(ctx context.Context, name, cnpj string) (*Tenant, error)
	Get(ctx context.Context, id int64) (*Tenant, error)
}

type tenantService struct {
	pool *pgxpool.Pool
}

func NewTenantService(pool *pgxpool.Pool) TenantService {
	return &tenantService{pool: pool}
}

func (s *tenantService) Register(ctx context.Context, name, cnpj string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BusinessRulef("tenant name cannot be empty")
	}

	var t Tenant
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tenants (name, cnpj)
		VALUES ($1, $2)
		RETURNING id, name, cnpj, created_at
	`, name, strings.TrimSpace(cnpj)).Scan(&t.ID, &t.Name, &t.CNPJ, &t.CreatedAt)
	if err != nil {
		return nil, translateDBError("register tenant", err)
	}
	return &t, nil
}

func (s *tenantService) Get(ctx context.Context, id int64) (*Tenant, error) {
	var t Tenant
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, cnpj, created_at FROM tenants WHERE id = $1
	`, id).Scan(&t.ID, &t.Name, &t.CNPJ, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("tenant %d not found", id)
		}
		return nil, translateDBError("fetch tenant", err)
	}
	if err := CheckTenantAccess(ctx, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}
