package core_test

import (
	"errors"
	"testing"
	"time"

	"mechshop/internal/core"

	"github.com/shopspring/decimal"
)

func TestQuotation_CreateSnapshotsCatalogPrices(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "front brakes grinding",
		[]core.QuotationPartItemInput{{PartID: partBrakePad, Quantity: 2}},
		[]core.QuotationServiceItemInput{{RepairServiceID: svcBrakeJob}},
	)
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	if q.TenantID != tenantAlfa || q.ClientID != clientCarlos {
		t.Fatalf("tenant/client not inherited from vehicle: %+v", q)
	}
	if q.Status != core.QuotationAwaitingConversion {
		t.Fatalf("expected AWAITING_CONVERSION, got %s", q.Status)
	}
	if len(q.PartItems) != 1 || len(q.ServiceItems) != 1 {
		t.Fatalf("unexpected items: %+v", q)
	}
	if !q.PartItems[0].UnitPrice.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("catalog price not snapshotted: %s", q.PartItems[0].UnitPrice)
	}
	// 2 × 120 + 150
	if want := decimal.RequireFromString("390"); !q.TotalCost.Equal(want) {
		t.Fatalf("total = %s, want %s", q.TotalCost, want)
	}
}

func TestQuotation_CreateHonorsPriceOverrides(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	override := decimal.RequireFromString("99.90")
	q, err := quotations.Create(alfaCtx(), vehicleAlfa, "negotiated brakes",
		[]core.QuotationPartItemInput{{PartID: partBrakePad, Quantity: 1, UnitPrice: &override}},
		nil,
	)
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}
	if !q.PartItems[0].UnitPrice.Equal(override) {
		t.Fatalf("override ignored: %s", q.PartItems[0].UnitPrice)
	}
	if !q.TotalCost.Equal(override) {
		t.Fatalf("total = %s, want %s", q.TotalCost, override)
	}
}

func TestQuotation_CreateRejectsEmptyItems(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	_, err := quotations.Create(alfaCtx(), vehicleAlfa, "nothing to do", nil, nil)
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected business rule violation, got %v", err)
	}
}

func TestQuotation_TenantBoundary(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	q, err := quotations.Create(alfaCtx(), vehicleAlfa, "oil change",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	if _, err := quotations.Get(betaCtx(), q.ID); !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied from foreign tenant, got %v", err)
	}

	// Creating against another tenant's vehicle is denied at the vehicle fetch.
	_, err = quotations.Create(betaCtx(), vehicleAlfa, "sneaky",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if !errors.Is(err, core.ErrAccessDenied) {
		t.Fatalf("expected access denied, got %v", err)
	}

	list, err := quotations.List(betaCtx())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign tenant sees %d quotations", len(list))
	}
}

func TestQuotation_UpdateReplacesItemsAndRecomputes(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "initial",
		[]core.QuotationPartItemInput{{PartID: partOilFilter, Quantity: 1}},
		[]core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}},
	)
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	desc := "brakes instead"
	updated, err := quotations.Update(ctx, q.ID, core.QuotationUpdate{
		Description: &desc,
		PartItems:   []core.QuotationPartItemInput{{PartID: partBrakePad, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("update quotation: %v", err)
	}

	if updated.Description != desc {
		t.Fatalf("description not updated: %q", updated.Description)
	}
	if len(updated.PartItems) != 1 || updated.PartItems[0].PartID != partBrakePad {
		t.Fatalf("part items not replaced: %+v", updated.PartItems)
	}
	// Service items were untouched by the patch; 2 × 120 + 80.
	if len(updated.ServiceItems) != 1 {
		t.Fatalf("service items should be kept: %+v", updated.ServiceItems)
	}
	if want := decimal.RequireFromString("320"); !updated.TotalCost.Equal(want) {
		t.Fatalf("total = %s, want %s", updated.TotalCost, want)
	}
}

func TestQuotation_CanceledIsFrozen(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "to cancel",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	canceled := string(core.QuotationCanceled)
	if _, err := quotations.Update(ctx, q.ID, core.QuotationUpdate{Status: &canceled}); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	awaiting := string(core.QuotationAwaitingConversion)
	_, err = quotations.Update(ctx, q.ID, core.QuotationUpdate{Status: &awaiting})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected frozen quotation, got %v", err)
	}

	desc := "still editing"
	_, err = quotations.Update(ctx, q.ID, core.QuotationUpdate{Description: &desc})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected frozen quotation for structural edit, got %v", err)
	}
}

func TestQuotation_DirectConversionStatusRejected(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	ctx := alfaCtx()

	q, err := quotations.Create(ctx, vehicleAlfa, "try direct convert",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if err != nil {
		t.Fatalf("create quotation: %v", err)
	}

	converted := string(core.QuotationConvertedToOrder)
	_, err = quotations.Update(ctx, q.ID, core.QuotationUpdate{Status: &converted})
	if !errors.Is(err, core.ErrBusinessRule) {
		t.Fatalf("expected rejection of direct conversion, got %v", err)
	}
}

func TestQuotation_DeleteAndListByVehicle(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	quotations := core.NewQuotationService(pool, time.Now)
	ctx := alfaCtx()

	q1, err := quotations.Create(ctx, vehicleAlfa, "first",
		nil, []core.QuotationServiceItemInput{{RepairServiceID: svcOilChange}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	q2, err := quotations.Create(ctx, vehicleAlfa, "second",
		[]core.QuotationPartItemInput{{PartID: partOilFilter, Quantity: 1}}, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := quotations.ListByVehicle(ctx, vehicleAlfa)
	if err != nil {
		t.Fatalf("list by vehicle: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 quotations, got %d", len(list))
	}
	// Newest first.
	if list[0].ID != q2.ID {
		t.Fatalf("expected newest first, got %d", list[0].ID)
	}

	if err := quotations.Delete(ctx, q1.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := quotations.Get(ctx, q1.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
