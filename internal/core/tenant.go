package core

import (
	"context"
	"fmt"
)

type tenantKey struct{}

// WithTenant returns a context carrying the active tenant id. The web adapter
// installs it once per inbound request after decoding the tenant claim, so the
// value lives exactly as long as the request and can never leak to another one.
func WithTenant(ctx context.Context, tenantID int64) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// TenantID returns the active tenant id, if any.
func TenantID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(tenantKey{}).(int64)
	return id, ok
}

// CheckTenantAccess is the single tenant boundary: every scoped lookup funnels
// the fetched entity's tenant id through it. With an active tenant that differs
// from the entity's owner it fails with AccessDenied. With no active tenant the
// access is NOT restricted — unauthenticated bootstrap paths (tenant
// registration, login) rely on this, so absence defaults to allow.
func CheckTenantAccess(ctx context.Context, entityTenantID int64) error {
	active, ok := TenantID(ctx)
	if !ok {
		return nil
	}
	if active != entityTenantID {
		return AccessDeniedf("access denied: resource belongs to another tenant")
	}
	return nil
}

// requireTenant returns the active tenant id or a BusinessRuleViolation.
// Scoped entities created from the context (rather than from an owning parent)
// must have a tenant at creation time; it is immutable afterwards.
func requireTenant(ctx context.Context) (int64, error) {
	id, ok := TenantID(ctx)
	if !ok {
		return 0, BusinessRulef("no active tenant in context")
	}
	return id, nil
}

// scopeFilter appends "AND <col> = $n" to a range query when a tenant is
// active, mirroring the per-row check in CheckTenantAccess for collection
// reads. With no active tenant the query is left unrestricted (same documented
// bypass as single-entity lookups).
func scopeFilter(ctx context.Context, query, col string, args []any) (string, []any) {
	if id, ok := TenantID(ctx); ok {
		args = append(args, id)
		query += fmt.Sprintf(" AND %s = $%d", col, len(args))
	}
	return query, args
}
