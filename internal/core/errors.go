package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain error kinds. Callers match them with errors.Is; the web adapter maps
// each kind to an HTTP status. The message carried by the concrete error is the
// user-visible one and must survive to the presentation layer verbatim.
var (
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrBusinessRule     = errors.New("business rule violation")
	ErrUniqueConstraint = errors.New("unique constraint violation")
)

type domainError struct {
	kind error
	msg  string
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Is(target error) bool { return target == e.kind }

// NotFoundf builds a NotFound error with a formatted message.
func NotFoundf(format string, args ...any) error {
	return &domainError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

// AccessDeniedf builds an AccessDenied error with a formatted message.
func AccessDeniedf(format string, args ...any) error {
	return &domainError{kind: ErrAccessDenied, msg: fmt.Sprintf(format, args...)}
}

// BusinessRulef builds a BusinessRuleViolation error with a formatted message.
func BusinessRulef(format string, args ...any) error {
	return &domainError{kind: ErrBusinessRule, msg: fmt.Sprintf(format, args...)}
}

// UniqueConstraintf builds a UniqueConstraint error with a formatted message.
func UniqueConstraintf(format string, args ...any) error {
	return &domainError{kind: ErrUniqueConstraint, msg: fmt.Sprintf(format, args...)}
}

// translateDBError converts a driver-level unique violation (SQLSTATE 23505)
// into the UniqueConstraint kind so adjacent CRUD conflicts (license plate,
// CPF, invoice number) surface as a typed business condition. Everything else
// passes through wrapped.
func translateDBError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return UniqueConstraintf("%s: duplicate value violates %s", op, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", op, err)
}
