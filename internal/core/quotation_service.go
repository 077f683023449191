package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type quotationService struct {
	pool *pgxpool.Pool
	now  Clock
}

func NewQuotationService(pool *pgxpool.Pool, now Clock) QuotationService {
	return &quotationService{pool: pool, now: now}
}

func (s *quotationService) Create(ctx context.Context, vehicleID int64, description string,
	parts []QuotationPartItemInput, services []QuotationServiceItemInput) (*Quotation, error) {

	if len(parts) == 0 && len(services) == 0 {
		return nil, BusinessRulef("quotation must contain at least one part or service item")
	}

	vehicle, err := getVehicleQ(ctx, s.pool, vehicleID)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	partItems, serviceItems, err := resolveQuotationItems(ctx, tx, parts, services)
	if err != nil {
		return nil, err
	}
	total := RoundMoney(QuotationTotal(partItems, serviceItems))

	q := Quotation{
		TenantID:    vehicle.TenantID,
		ClientID:    vehicle.ClientID,
		VehicleID:   vehicle.ID,
		Description: strings.TrimSpace(description),
		Status:      QuotationAwaitingConversion,
		TotalCost:   total,
		EntryTime:   s.now(),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO quotations (tenant_id, client_id, vehicle_id, description, status, total_cost, entry_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, q.TenantID, q.ClientID, q.VehicleID, q.Description, q.Status, q.TotalCost, q.EntryTime).Scan(&q.ID)
	if err != nil {
		return nil, translateDBError("insert quotation", err)
	}

	if err := insertQuotationItems(ctx, tx, q.ID, partItems, serviceItems); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return s.Get(ctx, q.ID)
}

func (s *quotationService) Get(ctx context.Context, id int64) (*Quotation, error) {
	q, err := getQuotationQ(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	q.PartItems, q.ServiceItems, err = loadQuotationItems(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// getQuotationQ fetches a single quotation and the id of the service order it
// was converted into, if any, then enforces the tenant boundary.
func getQuotationQ(ctx context.Context, qr querier, id int64) (*Quotation, error) {
	var q Quotation
	var status string
	err := qr.QueryRow(ctx, `
		SELECT q.id, q.tenant_id, q.client_id, q.vehicle_id, so.id,
		       q.description, q.status, q.total_cost, q.entry_time
		FROM quotations q
		LEFT JOIN service_orders so ON so.quotation_id = q.id
		WHERE q.id = $1
	`, id).Scan(&q.ID, &q.TenantID, &q.ClientID, &q.VehicleID, &q.ServiceOrderID,
		&q.Description, &status, &q.TotalCost, &q.EntryTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("quotation %d not found", id)
		}
		return nil, translateDBError("fetch quotation", err)
	}
	q.Status = QuotationStatus(status)
	if err := CheckTenantAccess(ctx, q.TenantID); err != nil {
		return nil, err
	}
	return &q, nil
}

// lockQuotationQ locks the quotation row for the duration of the transaction
// so concurrent conversion/update/delete attempts serialize.
func lockQuotationQ(ctx context.Context, tx pgx.Tx, id int64) (*Quotation, error) {
	var q Quotation
	var status string
	err := tx.QueryRow(ctx, `
		SELECT id, tenant_id, client_id, vehicle_id, description, status, total_cost, entry_time
		FROM quotations WHERE id = $1
		FOR UPDATE
	`, id).Scan(&q.ID, &q.TenantID, &q.ClientID, &q.VehicleID,
		&q.Description, &status, &q.TotalCost, &q.EntryTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("quotation %d not found", id)
		}
		return nil, translateDBError("lock quotation", err)
	}
	q.Status = QuotationStatus(status)
	if err := CheckTenantAccess(ctx, q.TenantID); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *quotationService) List(ctx context.Context) ([]Quotation, error) {
	return s.list(ctx, "", 0)
}

func (s *quotationService) ListByVehicle(ctx context.Context, vehicleID int64) ([]Quotation, error) {
	// Resolving the vehicle first yields a proper 404/403 instead of an empty
	// list for a foreign vehicle.
	if _, err := getVehicleQ(ctx, s.pool, vehicleID); err != nil {
		return nil, err
	}
	return s.list(ctx, "q.vehicle_id", vehicleID)
}

func (s *quotationService) list(ctx context.Context, filterCol string, filterVal int64) ([]Quotation, error) {
	query := `
		SELECT q.id, q.tenant_id, q.client_id, q.vehicle_id, so.id,
		       q.description, q.status, q.total_cost, q.entry_time
		FROM quotations q
		LEFT JOIN service_orders so ON so.quotation_id = q.id
		WHERE true`
	var args []any
	if filterCol != "" {
		args = append(args, filterVal)
		query += fmt.Sprintf(" AND %s = $%d", filterCol, len(args))
	}
	query, args = scopeFilter(ctx, query, "q.tenant_id", args)
	query += " ORDER BY q.id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query quotations", err)
	}
	defer rows.Close()

	var quotations []Quotation
	for rows.Next() {
		var q Quotation
		var status string
		if err := rows.Scan(&q.ID, &q.TenantID, &q.ClientID, &q.VehicleID, &q.ServiceOrderID,
			&q.Description, &status, &q.TotalCost, &q.EntryTime); err != nil {
			return nil, translateDBError("scan quotation", err)
		}
		q.Status = QuotationStatus(status)
		quotations = append(quotations, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range quotations {
		quotations[i].PartItems, quotations[i].ServiceItems, err = loadQuotationItems(ctx, s.pool, quotations[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return quotations, nil
}

func (s *quotationService) Update(ctx context.Context, id int64, patch QuotationUpdate) (*Quotation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := lockQuotationQ(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	newStatus := q.Status
	if patch.Status != nil {
		parsed, err := ParseQuotationStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		if parsed == QuotationConvertedToOrder && q.Status != QuotationConvertedToOrder {
			return nil, BusinessRulef("a quotation is converted by creating a service order from it, not by editing its status")
		}
		if err := ValidateQuotationTransition(q.Status, parsed); err != nil {
			return nil, err
		}
		newStatus = parsed
	}

	structural := patch.Description != nil || patch.PartItems != nil || patch.ServiceItems != nil
	if structural && q.Status != QuotationAwaitingConversion {
		return nil, BusinessRulef("only an AWAITING_CONVERSION quotation can be edited")
	}

	if patch.Description != nil {
		q.Description = strings.TrimSpace(*patch.Description)
	}

	if patch.PartItems != nil || patch.ServiceItems != nil {
		curParts, curServices, err := loadQuotationItems(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		partInputs := patch.PartItems
		if partInputs == nil {
			partInputs = quotationPartInputs(curParts)
		}
		serviceInputs := patch.ServiceItems
		if serviceInputs == nil {
			serviceInputs = quotationServiceInputs(curServices)
		}
		if len(partInputs) == 0 && len(serviceInputs) == 0 {
			return nil, BusinessRulef("quotation must contain at least one part or service item")
		}

		newParts, newServices, err := resolveQuotationItems(ctx, tx, partInputs, serviceInputs)
		if err != nil {
			return nil, err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM quotation_part_items WHERE quotation_id = $1`, id); err != nil {
			return nil, translateDBError("clear quotation part items", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_service_items WHERE quotation_id = $1`, id); err != nil {
			return nil, translateDBError("clear quotation service items", err)
		}
		if err := insertQuotationItems(ctx, tx, id, newParts, newServices); err != nil {
			return nil, err
		}
		q.TotalCost = RoundMoney(QuotationTotal(newParts, newServices))
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotations SET description = $1, status = $2, total_cost = $3 WHERE id = $4
	`, q.Description, newStatus, q.TotalCost, id)
	if err != nil {
		return nil, translateDBError("update quotation", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *quotationService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := lockQuotationQ(ctx, tx, id)
	if err != nil {
		return err
	}
	if q.Status == QuotationConvertedToOrder {
		return BusinessRulef("quotation %d was converted to a service order and cannot be deleted", id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM quotation_part_items WHERE quotation_id = $1`, id); err != nil {
		return translateDBError("delete quotation part items", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM quotation_service_items WHERE quotation_id = $1`, id); err != nil {
		return translateDBError("delete quotation service items", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id); err != nil {
		return translateDBError("delete quotation", err)
	}
	return tx.Commit(ctx)
}

// resolveQuotationItems snapshots catalog prices into concrete line items,
// honoring per-item overrides. Catalog lookups run through the same tenant
// boundary as direct reads.
func resolveQuotationItems(ctx context.Context, qr querier,
	parts []QuotationPartItemInput, services []QuotationServiceItemInput) ([]QuotationPartItem, []QuotationServiceItem, error) {

	var partItems []QuotationPartItem
	for _, in := range parts {
		if in.Quantity <= 0 {
			return nil, nil, BusinessRulef("part item quantity must be positive")
		}
		part, err := getPartQ(ctx, qr, in.PartID)
		if err != nil {
			return nil, nil, err
		}
		price := part.Price
		if in.UnitPrice != nil {
			if in.UnitPrice.IsNegative() {
				return nil, nil, BusinessRulef("part item unit price cannot be negative")
			}
			price = *in.UnitPrice
		}
		partItems = append(partItems, QuotationPartItem{
			PartID:    part.ID,
			PartName:  part.Name,
			Quantity:  in.Quantity,
			UnitPrice: price,
		})
	}

	var serviceItems []QuotationServiceItem
	for _, in := range services {
		svc, err := getRepairServiceQ(ctx, qr, in.RepairServiceID)
		if err != nil {
			return nil, nil, err
		}
		cost := svc.Cost
		if in.ServiceCost != nil {
			if in.ServiceCost.IsNegative() {
				return nil, nil, BusinessRulef("service item cost cannot be negative")
			}
			cost = *in.ServiceCost
		}
		serviceItems = append(serviceItems, QuotationServiceItem{
			RepairServiceID: svc.ID,
			ServiceName:     svc.Name,
			ServiceCost:     cost,
		})
	}
	return partItems, serviceItems, nil
}

func insertQuotationItems(ctx context.Context, tx pgx.Tx, quotationID int64,
	parts []QuotationPartItem, services []QuotationServiceItem) error {

	for _, p := range parts {
		_, err := tx.Exec(ctx, `
			INSERT INTO quotation_part_items (quotation_id, part_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, quotationID, p.PartID, p.Quantity, p.UnitPrice)
		if err != nil {
			return translateDBError("insert quotation part item", err)
		}
	}
	for _, sv := range services {
		_, err := tx.Exec(ctx, `
			INSERT INTO quotation_service_items (quotation_id, repair_service_id, service_cost)
			VALUES ($1, $2, $3)
		`, quotationID, sv.RepairServiceID, sv.ServiceCost)
		if err != nil {
			return translateDBError("insert quotation service item", err)
		}
	}
	return nil
}

func loadQuotationItems(ctx context.Context, qr querier, quotationID int64) ([]QuotationPartItem, []QuotationServiceItem, error) {
	partRows, err := qr.Query(ctx, `
		SELECT i.id, i.quotation_id, i.part_id, p.name, i.quantity, i.unit_price
		FROM quotation_part_items i
		JOIN parts p ON p.id = i.part_id
		WHERE i.quotation_id = $1
		ORDER BY i.id
	`, quotationID)
	if err != nil {
		return nil, nil, translateDBError("query quotation part items", err)
	}
	defer partRows.Close()

	var parts []QuotationPartItem
	for partRows.Next() {
		var p QuotationPartItem
		if err := partRows.Scan(&p.ID, &p.QuotationID, &p.PartID, &p.PartName, &p.Quantity, &p.UnitPrice); err != nil {
			return nil, nil, translateDBError("scan quotation part item", err)
		}
		parts = append(parts, p)
	}
	if err := partRows.Err(); err != nil {
		return nil, nil, err
	}

	serviceRows, err := qr.Query(ctx, `
		SELECT i.id, i.quotation_id, i.repair_service_id, s.name, i.service_cost
		FROM quotation_service_items i
		JOIN repair_services s ON s.id = i.repair_service_id
		WHERE i.quotation_id = $1
		ORDER BY i.id
	`, quotationID)
	if err != nil {
		return nil, nil, translateDBError("query quotation service items", err)
	}
	defer serviceRows.Close()

	var services []QuotationServiceItem
	for serviceRows.Next() {
		var sv QuotationServiceItem
		if err := serviceRows.Scan(&sv.ID, &sv.QuotationID, &sv.RepairServiceID, &sv.ServiceName, &sv.ServiceCost); err != nil {
			return nil, nil, translateDBError("scan quotation service item", err)
		}
		services = append(services, sv)
	}
	return parts, services, serviceRows.Err()
}

func quotationPartInputs(items []QuotationPartItem) []QuotationPartItemInput {
	out := make([]QuotationPartItemInput, 0, len(items))
	for _, it := range items {
		price := it.UnitPrice
		out = append(out, QuotationPartItemInput{PartID: it.PartID, Quantity: it.Quantity, UnitPrice: &price})
	}
	return out
}

func quotationServiceInputs(items []QuotationServiceItem) []QuotationServiceItemInput {
	out := make([]QuotationServiceItemInput, 0, len(items))
	for _, it := range items {
		cost := it.ServiceCost
		out = append(out, QuotationServiceItemInput{RepairServiceID: it.RepairServiceID, ServiceCost: &cost})
	}
	return out
}
