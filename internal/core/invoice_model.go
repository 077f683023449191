package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the billing record derived from exactly one COMPLETED service
// order. TotalAmount is copied from the order at issuance and never recomputed
// afterwards.
type Invoice struct {
	ID             int64           `json:"id"`
	TenantID       int64           `json:"tenant_id"`
	ServiceOrderID int64           `json:"service_order_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	IssueDate      time.Time       `json:"issue_date"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	PaymentDate    *time.Time      `json:"payment_date,omitempty"`
}

// InvoiceService issues invoices from completed service orders and tracks
// their payment status.
type InvoiceService interface {
	// IssueFromServiceOrder issues the invoice for a COMPLETED order. At most
	// one invoice may ever exist per order; uniqueness is enforced here, not
	// only by the storage constraint.
	IssueFromServiceOrder(ctx context.Context, orderID int64) (*Invoice, error)

	// Get returns an invoice, enforcing the tenant boundary.
	Get(ctx context.Context, id int64) (*Invoice, error)

	// List returns invoices visible to the active tenant, newest first.
	List(ctx context.Context) ([]Invoice, error)

	// UpdatePaymentStatus parses and applies a new payment status. Setting PAID
	// stamps the payment date when absent; any non-PAID status clears it.
	UpdatePaymentStatus(ctx context.Context, id int64, status string) (*Invoice, error)
}
