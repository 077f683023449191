package core_test

import (
	"errors"
	"testing"
	"time"

	"mechshop/internal/core"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string  { return &s }
func intPtr(i int) *int        { return &i }
func i64Ptr(i int64) *int64    { return &i }

func TestServiceOrder_DirectLifecycle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	now := time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	orders := core.NewServiceOrderService(pool, fixedClock(now))
	ctx := alfaCtx()

	o, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID:   vehicleAlfa,
		Description: "full brake job",
		PartItems:   []core.OrderPartItemInput{{PartID: partBrakePad, Quantity: 2}},
		ServiceItems: []core.OrderServiceItemInput{
			{RepairServiceID: svcBrakeJob, Quantity: 1, EmployeeID: i64Ptr(empMarcos)},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.Status != core.OrderPending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}
	if o.TenantID != tenantAlfa || o.ClientID != clientCarlos {
		t.Fatalf("tenant/client not inherited: %+v", o)
	}
	// 2 × 120 + 150
	if want := decimal.RequireFromString("390"); !o.TotalCost.Equal(want) {
		t.Fatalf("total = %s, want %s", o.TotalCost, want)
	}

	// Starting work without an odometer reading is rejected.
	_, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("IN_PROGRESS")})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected mileage requirement, got %v", err)
	}

	o, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{
		Status:         strPtr("IN_PROGRESS"),
		InitialMileage: intPtr(48200),
	})
	if err != nil {
		t.Fatalf("start work: %v", err)
	}
	if o.Status != core.OrderInProgress || o.InitialMileage == nil || *o.InitialMileage != 48200 {
		t.Fatalf("unexpected state: %+v", o)
	}
	if o.ExitDate != nil {
		t.Fatalf("exit date must stay empty while in progress")
	}

	o, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("COMPLETED")})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if o.ExitDate == nil || !o.ExitDate.Equal(now) {
		t.Fatalf("exit date not stamped by the clock: %v", o.ExitDate)
	}

	// Completed orders are frozen.
	_, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Description: strPtr("late edit")})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected frozen order, got %v", err)
	}
	_, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("CANCELED")})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected terminal status, got %v", err)
	}
}

func TestServiceOrder_CompletionRules(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewServiceOrderService(pool, time.Now)
	ctx := alfaCtx()

	o, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID:      vehicleAlfa,
		Description:    "diagnosis only",
		InitialMileage: intPtr(10000),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if _, err := orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("IN_PROGRESS")}); err != nil {
		t.Fatalf("start work: %v", err)
	}

	// No items at all: cannot complete.
	_, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{Status: strPtr("COMPLETED")})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected empty-order rejection, got %v", err)
	}

	// A service item without an assigned employee blocks completion too.
	_, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{
		Status: strPtr("COMPLETED"),
		ServiceItems: []core.OrderServiceItemInput{
			{RepairServiceID: svcOilChange, Quantity: 1},
		},
	})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected unassigned-employee rejection, got %v", err)
	}

	o, err = orders.Update(ctx, o.ID, core.ServiceOrderUpdate{
		Status: strPtr("COMPLETED"),
		ServiceItems: []core.OrderServiceItemInput{
			{RepairServiceID: svcOilChange, Quantity: 1, EmployeeID: i64Ptr(empAna)},
		},
	})
	if err != nil {
		t.Fatalf("complete with assignment: %v", err)
	}
	if o.ServiceItems[0].EmployeeName != "Ana" {
		t.Fatalf("employee name not resolved: %+v", o.ServiceItems[0])
	}
}

func TestServiceOrder_CreateFromQuotation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	orders := core.NewServiceOrderService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "quoted brakes",
		[]core.QuotationPartItemInput{{PartID: partBrakePad, Quantity: 2}},
		[]core.QuotationServiceItemInput{{RepairServiceID: svcBrakeJob}},
	)
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	o, err := orders.CreateFromQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if o.QuotationID == nil || *o.QuotationID != q.ID {
		t.Fatalf("order not linked to quotation: %+v", o)
	}
	if o.Status != core.OrderPending {
		t.Fatalf("expected PENDING, got %s", o.Status)
	}
	if !o.TotalCost.Equal(q.TotalCost) {
		t.Fatalf("total not reused: order %s, quotation %s", o.TotalCost, q.TotalCost)
	}
	if len(o.PartItems) != 1 || len(o.ServiceItems) != 1 {
		t.Fatalf("items not copied: %+v", o)
	}
	if o.ServiceItems[0].Quantity != 1 || o.ServiceItems[0].EmployeeID != nil {
		t.Fatalf("copied service line should be a single unassigned unit: %+v", o.ServiceItems[0])
	}

	q2, err := quotations.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("refetch quotation: %v", err)
	}
	if q2.Status != core.QuotationConvertedToOrder {
		t.Fatalf("quotation not flipped, got %s", q2.Status)
	}
	if q2.ServiceOrderID == nil || *q2.ServiceOrderID != o.ID {
		t.Fatalf("quotation not pointing at order: %+v", q2)
	}

	// Second conversion of the same quotation fails.
	if _, err := orders.CreateFromQuotation(ctx, q.ID); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected double conversion rejection, got %v", err)
	}

	// Converted quotations cannot be deleted.
	if err := quotations.Delete(ctx, q.ID); !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected delete rejection, got %v", err)
	}

	// Price changes after conversion must not leak into the copied items.
	if _, err := pool.Exec(ctx, `UPDATE parts SET price = 999 WHERE id = $1`, partBrakePad); err != nil {
		t.Fatalf("raise price: %v", err)
	}
	o2, err := orders.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("refetch order: %v", err)
	}
	if !o2.PartItems[0].UnitPrice.Equal(decimal.RequireFromString("120")) {
		t.Fatalf("snapshot violated: %s", o2.PartItems[0].UnitPrice)
	}
}

func TestServiceOrder_DeleteReopensQuotation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	orders := core.NewServiceOrderService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "to reopen",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	o, err := orders.CreateFromQuotation(ctx, q.ID)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if err := orders.Delete(ctx, o.ID); err != nil {
		t.Fatalf("delete order: %v", err)
	}
	q2, err := quotations.Get(ctx, q.ID)
	if err != nil {
		t.Fatalf("refetch quotation: %v", err)
	}
	if q2.Status != core.QuotationAwaitingConversion {
		t.Fatalf("quotation should be convertible again, got %s", q2.Status)
	}
}

func TestServiceOrder_ListFilterAndIsolation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	orders := core.NewServiceOrderService(pool, time.Now)
	ctx := alfaCtx()

	o1, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID: vehicleAlfa, Description: "one", InitialMileage: intPtr(100),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := orders.CreateDirect(ctx, core.ServiceOrderCreate{
		VehicleID: vehicleAlfa, Description: "two",
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := orders.Update(ctx, o1.ID, core.ServiceOrderUpdate{Status: strPtr("IN_PROGRESS")}); err != nil {
		t.Fatalf("start: %v", err)
	}

	inProgress := core.OrderInProgress
	list, err := orders.List(ctx, &inProgress)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != o1.ID {
		t.Fatalf("status filter broken: %+v", list)
	}

	foreign, err := orders.List(betaCtx(), nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("foreign tenant sees %d orders", len(foreign))
	}

	if _, err := orders.Get(betaCtx(), o1.ID); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}
}
