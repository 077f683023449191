package core_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"mechshop/internal/core"
)

// completeOrder drives a fresh order through the lifecycle so invoice tests
// start from a COMPLETED one.
func completeOrder(t *testing.T, orders core.ServiceOrderService) *core.ServiceOrder {
	t.Helper()
	ctx := alfaCtx()

	o, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID:      vehicleAlfa,
		Description:    "invoice fixture",
		InitialMileage: intPtr(55000),
		ServiceItems: []core.OrderServiceItemInput{
			{RepairServiceID: svcOilChange, Quantity: 1, EmployeeID: i64Ptr(empMarcos)},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("IN_PROGRESS")}); err != nil {
		t.Fatalf("start order: %v", err)
	}
	o, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("COMPLETED")})
	if err != nil {
		t.Fatalf("complete order: %v", err)
	}
	return o
}

func TestInvoice_IssueFromCompletedOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	issued := time.Date(2026, time.May, 2, 16, 45, 0, 0, time.UTC)
	orders := core.NewServiceOrderService(pool, time.Now)
	invoices := core.NewInvoiceService(pool, fixedClock(issued))
	ctx := alfaCtx()

	o := completeOrder(t, orders)

	inv, err := invoices.IssueFromServiceOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if want := fmt.Sprintf("OS-%d-20260502", o.ID); inv.InvoiceNumber != want {
		t.Fatalf("invoice number %q, want %q", inv.InvoiceNumber, want)
	}
	if inv.PaymentStatus != core.PaymentPending {
		t.Fatalf("expected PENDING, got %s", inv.PaymentStatus)
	}
	if !inv.TotalAmount.Equal(o.TotalCost) {
		t.Fatalf("amount %s, want order total %s", inv.TotalAmount, o.TotalCost)
	}
	if inv.PaymentDate != nil {
		t.Fatalf("payment date must start empty")
	}

	// One invoice per order, ever.
	if _, err := invoices.IssueFromServiceOrder(ctx, o.ID); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected duplicate invoice rejection, got %v", err)
	}

	// The invoiced order is now protected from deletion.
	if err := orders.Delete(ctx, o.ID); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected delete rejection, got %v", err)
	}
}

func TestInvoice_RequiresCompletedOrder(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewServiceOrderService(pool, time.Now)
	invoices := core.NewInvoiceService(pool, time.Now)
	ctx := alfaCtx()

	o, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID: vehicleAlfa, Description: "still pending",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := invoices.IssueFromServiceOrder(ctx, o.ID); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected business rule violation, got %v", err)
	}
}

func TestInvoice_PaymentStatusStampsAndClearsDate(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	paidAt := time.Date(2026, time.May, 10, 11, 0, 0, 0, time.UTC)
	orders := core.NewServiceOrderService(pool, time.Now)
	invoices := core.NewInvoiceService(pool, fixedClock(paidAt))
	ctx := alfaCtx()

	o := completeOrder(t, orders)
	inv, err := invoices.IssueFromServiceOrder(ctx, o.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	inv, err = invoices.UpdatePaymentStatus(ctx, inv.ID, "PAID")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if inv.PaymentDate == nil || !inv.PaymentDate.Equal(paidAt) {
		t.Fatalf("payment date not stamped: %v", inv.PaymentDate)
	}

	// Marking PAID again keeps the original stamp.
	inv, err = invoices.UpdatePaymentStatus(ctx, inv.ID, "PAID")
	if err != nil {
		t.Fatalf("re-mark paid: %v", err)
	}
	if inv.PaymentDate == nil || !inv.PaymentDate.Equal(paidAt) {
		t.Fatalf("payment date should be preserved: %v", inv.PaymentDate)
	}

	// Any move away from PAID drops the date.
	inv, err = invoices.UpdatePaymentStatus(ctx, inv.ID, "OVERDUE")
	if err != nil {
		t.Fatalf("mark overdue: %v", err)
	}
	if inv.PaymentDate != nil {
		t.Fatalf("payment date should be cleared: %v", inv.PaymentDate)
	}

	if _, err := invoices.UpdatePaymentStatus(ctx, inv.ID, "REFUNDED"); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected invalid status rejection, got %v", err)
	}
}

func TestInvoice_TenantBoundary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewServiceOrderService(pool, time.Now)
	invoices := core.NewInvoiceService(pool, time.Now)

	o := completeOrder(t, orders)
	inv, err := invoices.IssueFromServiceOrder(alfaCtx(), o.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := invoices.Get(betaCtx(), inv.ID); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
	list, err := invoices.List(betaCtx())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign tenant sees %d invoices", len(list))
	}
}
