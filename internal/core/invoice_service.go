package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type invoiceService struct {
	pool *pgxpool.Pool
	now  Clock
}

func NewInvoiceService(pool *pgxpool.Pool, now Clock) InvoiceService {
	return &invoiceService{pool: pool, now: now}
}

// invoiceNumber derives the human-facing identifier from the source order and
// the issue date, e.g. OS-42-20260901.
func invoiceNumber(orderID int64, issued time.Time) string {
	return fmt.Sprintf("OS-%d-%s", orderID, issued.Format("20060102"))
}

func (s *invoiceService) IssueFromServiceOrder(ctx context.Context, orderID int64) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lockOrderQ(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != OrderCompleted {
		return nil, BusinessRulef("only a COMPLETED service order can be invoiced, order %d is %s", order.ID, order.Status)
	}

	var exists bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE service_order_id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return nil, translateDBError("check existing invoice", err)
	}
	if exists {
		return nil, BusinessRulef("service order %d already has an invoice", orderID)
	}

	total := order.TotalCost
	if total.IsZero() {
		// Orders persisted before totals were stamped fall back to a recompute
		// from their line items.
		parts, services, err := loadOrderItems(ctx, tx, orderID)
		if err != nil {
			return nil, err
		}
		total = RoundMoney(OrderTotal(parts, services))
	}

	issued := s.now()
	inv := Invoice{
		TenantID:       order.TenantID,
		ServiceOrderID: order.ID,
		InvoiceNumber:  invoiceNumber(order.ID, issued),
		IssueDate:      issued,
		TotalAmount:    total,
		PaymentStatus:  PaymentPending,
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (tenant_id, service_order_id, invoice_number, issue_date, total_amount, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, inv.TenantID, inv.ServiceOrderID, inv.InvoiceNumber, inv.IssueDate, inv.TotalAmount, inv.PaymentStatus).Scan(&inv.ID)
	if err != nil {
		return nil, translateDBError("insert invoice", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return &inv, nil
}

func (s *invoiceService) Get(ctx context.Context, id int64) (*Invoice, error) {
	return getInvoiceQ(ctx, s.pool, id, false)
}

func getInvoiceQ(ctx context.Context, qr querier, id int64, forUpdate bool) (*Invoice, error) {
	query := `
		SELECT id, tenant_id, service_order_id, invoice_number, issue_date, total_amount, payment_status, payment_date
		FROM invoices WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}

	var inv Invoice
	var status string
	err := qr.QueryRow(ctx, query, id).Scan(&inv.ID, &inv.TenantID, &inv.ServiceOrderID, &inv.InvoiceNumber,
		&inv.IssueDate, &inv.TotalAmount, &status, &inv.PaymentDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("invoice %d not found", id)
		}
		return nil, translateDBError("fetch invoice", err)
	}
	inv.PaymentStatus = PaymentStatus(status)
	if err := CheckTenantAccess(ctx, inv.TenantID); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *invoiceService) List(ctx context.Context) ([]Invoice, error) {
	query := `
		SELECT id, tenant_id, service_order_id, invoice_number, issue_date, total_amount, payment_status, payment_date
		FROM invoices WHERE true`
	query, args := scopeFilter(ctx, query, "tenant_id", nil)
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query invoices", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		var status string
		if err := rows.Scan(&inv.ID, &inv.TenantID, &inv.ServiceOrderID, &inv.InvoiceNumber,
			&inv.IssueDate, &inv.TotalAmount, &status, &inv.PaymentDate); err != nil {
			return nil, translateDBError("scan invoice", err)
		}
		inv.PaymentStatus = PaymentStatus(status)
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func (s *invoiceService) UpdatePaymentStatus(ctx context.Context, id int64, status string) (*Invoice, error) {
	next, err := ParsePaymentStatus(status)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	inv, err := getInvoiceQ(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	inv.PaymentStatus = next
	if next == PaymentPaid {
		if inv.PaymentDate == nil {
			t := s.now()
			inv.PaymentDate = &t
		}
	} else {
		// Leaving PAID always drops the stamp; an unpaid invoice has no
		// payment date, whatever it carried before.
		inv.PaymentDate = nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices SET payment_status = $1, payment_date = $2 WHERE id = $3
	`, inv.PaymentStatus, inv.PaymentDate, id)
	if err != nil {
		return nil, translateDBError("update invoice payment", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return inv, nil
}
