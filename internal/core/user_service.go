package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages the accounts operators log in with. Every user belongs
// to exactly one tenant; authenticating as a user is what establishes the
// active tenant for the session.
type UserService interface {
	Create(ctx context.Context, tenantID int64, username, email, password, role string) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type userService struct {
	pool *pgxpool.Pool
}

func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

func (s *userService) Create(ctx context.Context, tenantID int64, username, email, password, role string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, BusinessRulef("username cannot be empty")
	}
	if len(password) < 8 {
		return nil, BusinessRulef("password must be at least 8 characters")
	}
	if role == "" {
		role = "OPERATOR"
	}
	if err := CheckTenantAccess(ctx, tenantID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var u User
	err = s.pool.QueryRow(ctx, `
		INSERT INTO users (tenant_id, username, email, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, tenant_id, username, email, password_hash, role, is_active, created_at
	`, tenantID, username, strings.TrimSpace(email), string(hash), role).Scan(
		&u.ID, &u.TenantID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt,
	)
	if err != nil {
		return nil, translateDBError("create user", err)
	}
	return &u, nil
}

// Authenticate runs unscoped: the caller has no tenant until the credentials
// check out. A wrong username and a wrong password produce the same error so
// the login endpoint cannot be used to probe for accounts.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, username, email, password_hash, role, is_active, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, AccessDeniedf("invalid credentials")
		}
		return nil, translateDBError("fetch user", err)
	}
	if !u.IsActive {
		return nil, AccessDeniedf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, AccessDeniedf("invalid credentials")
	}
	return &u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, username, email, password_hash, role, is_active, created_at
		FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("user %q not found", username)
		}
		return nil, translateDBError("fetch user", err)
	}
	if err := CheckTenantAccess(ctx, u.TenantID); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, username, email, password_hash, role, is_active, created_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.TenantID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("user %d not found", id)
		}
		return nil, translateDBError("fetch user", err)
	}
	if err := CheckTenantAccess(ctx, u.TenantID); err != nil {
		return nil, err
	}
	return &u, nil
}
