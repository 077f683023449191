package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type serviceOrderService struct {
	pool *pgxpool.Pool
	now  Clock
}

func NewServiceOrderService(pool *pgxpool.Pool, now Clock) ServiceOrderService {
	return &serviceOrderService{pool: pool, now: now}
}

func (s *serviceOrderService) CreateDirect(ctx context.Context, in ServiceOrderCreate) (*ServiceOrder, error) {
	vehicle, err := getVehicleQ(ctx, s.pool, in.VehicleID)
	if err != nil {
		return nil, err
	}

	entryDate := s.now()
	if in.EntryDate != nil {
		entryDate = *in.EntryDate
	}
	if in.InitialMileage != nil && *in.InitialMileage < 0 {
		return nil, BusinessRulef("initial mileage cannot be negative")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	partItems, serviceItems, err := resolveOrderItems(ctx, tx, in.PartItems, in.ServiceItems)
	if err != nil {
		return nil, err
	}
	total := RoundMoney(OrderTotal(partItems, serviceItems))

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO service_orders
			(tenant_id, client_id, vehicle_id, description, status, entry_date, initial_mileage, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, vehicle.TenantID, vehicle.ClientID, vehicle.ID, strings.TrimSpace(in.Description),
		OrderPending, entryDate, in.InitialMileage, total).Scan(&orderID)
	if err != nil {
		return nil, translateDBError("insert service order", err)
	}

	if err := insertOrderItems(ctx, tx, orderID, partItems, serviceItems); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, orderID)
}

// CreateFromQuotation converts a quotation atomically: the order insert, the
// item copies, and the quotation status flip either all land or none do. The
// quotation row is locked first so two concurrent conversions of the same
// quotation serialize and the loser fails the status check.
func (s *serviceOrderService) CreateFromQuotation(ctx context.Context, quotationID int64) (*ServiceOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	q, err := lockQuotationQ(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}
	if q.Status != QuotationAwaitingConversion {
		return nil, BusinessRulef("quotation %d is %s, only an AWAITING_CONVERSION quotation can be converted", q.ID, q.Status)
	}

	qParts, qServices, err := loadQuotationItems(ctx, tx, quotationID)
	if err != nil {
		return nil, err
	}

	var orderID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO service_orders
			(tenant_id, client_id, vehicle_id, quotation_id, description, status, entry_date, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, q.TenantID, q.ClientID, q.VehicleID, q.ID, q.Description,
		OrderPending, s.now(), q.TotalCost).Scan(&orderID)
	if err != nil {
		return nil, translateDBError("insert service order", err)
	}

	// Items are copied by value: later catalog price changes must not reach an
	// order that was agreed from this quotation. Quotation service lines carry
	// no quantity, so each copies over as a single unit, unassigned.
	for _, p := range qParts {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_order_part_items (service_order_id, part_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, orderID, p.PartID, p.Quantity, p.UnitPrice)
		if err != nil {
			return nil, translateDBError("copy part item", err)
		}
	}
	for _, sv := range qServices {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_order_service_items (service_order_id, repair_service_id, quantity, service_cost)
			VALUES ($1, $2, 1, $3)
		`, orderID, sv.RepairServiceID, sv.ServiceCost)
		if err != nil {
			return nil, translateDBError("copy service item", err)
		}
	}

	_, err = tx.Exec(ctx, `UPDATE quotations SET status = $1 WHERE id = $2`, QuotationConvertedToOrder, q.ID)
	if err != nil {
		return nil, translateDBError("mark quotation converted", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, orderID)
}

func (s *serviceOrderService) Get(ctx context.Context, id int64) (*ServiceOrder, error) {
	o, err := getOrderQ(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	o.PartItems, o.ServiceItems, err = loadOrderItems(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func getOrderQ(ctx context.Context, qr querier, id int64) (*ServiceOrder, error) {
	var o ServiceOrder
	var status string
	err := qr.QueryRow(ctx, `
		SELECT id, tenant_id, client_id, vehicle_id, quotation_id, description, status,
		       entry_date, exit_date, initial_mileage, total_cost
		FROM service_orders WHERE id = $1
	`, id).Scan(&o.ID, &o.TenantID, &o.ClientID, &o.VehicleID, &o.QuotationID, &o.Description, &status,
		&o.EntryDate, &o.ExitDate, &o.InitialMileage, &o.TotalCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("service order %d not found", id)
		}
		return nil, translateDBError("fetch service order", err)
	}
	o.Status = OrderStatus(status)
	if err := CheckTenantAccess(ctx, o.TenantID); err != nil {
		return nil, err
	}
	return &o, nil
}

func lockOrderQ(ctx context.Context, tx pgx.Tx, id int64) (*ServiceOrder, error) {
	var o ServiceOrder
	var status string
	err := tx.QueryRow(ctx, `
		SELECT id, tenant_id, client_id, vehicle_id, quotation_id, description, status,
		       entry_date, exit_date, initial_mileage, total_cost
		FROM service_orders WHERE id = $1
		FOR UPDATE
	`, id).Scan(&o.ID, &o.TenantID, &o.ClientID, &o.VehicleID, &o.QuotationID, &o.Description, &status,
		&o.EntryDate, &o.ExitDate, &o.InitialMileage, &o.TotalCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NotFoundf("service order %d not found", id)
		}
		return nil, translateDBError("lock service order", err)
	}
	o.Status = OrderStatus(status)
	if err := CheckTenantAccess(ctx, o.TenantID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *serviceOrderService) List(ctx context.Context, status *OrderStatus) ([]ServiceOrder, error) {
	query := `
		SELECT id, tenant_id, client_id, vehicle_id, quotation_id, description, status,
		       entry_date, exit_date, initial_mileage, total_cost
		FROM service_orders WHERE true`
	var args []any
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query, args = scopeFilter(ctx, query, "tenant_id", args)
	query += " ORDER BY id DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query service orders", err)
	}
	defer rows.Close()

	var orders []ServiceOrder
	for rows.Next() {
		var o ServiceOrder
		var st string
		if err := rows.Scan(&o.ID, &o.TenantID, &o.ClientID, &o.VehicleID, &o.QuotationID, &o.Description, &st,
			&o.EntryDate, &o.ExitDate, &o.InitialMileage, &o.TotalCost); err != nil {
			return nil, translateDBError("scan service order", err)
		}
		o.Status = OrderStatus(st)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].PartItems, orders[i].ServiceItems, err = loadOrderItems(ctx, s.pool, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *serviceOrderService) Update(ctx context.Context, id int64, patch ServiceOrderUpdate) (*ServiceOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := lockOrderQ(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	newStatus := o.Status
	if patch.Status != nil {
		parsed, err := ParseOrderStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		if err := ValidateOrderTransition(o.Status, parsed); err != nil {
			return nil, err
		}
		newStatus = parsed
	}

	structural := patch.Description != nil || patch.InitialMileage != nil ||
		patch.PartItems != nil || patch.ServiceItems != nil
	if structural && (o.Status == OrderCompleted || o.Status == OrderCanceled) {
		// Same freeze the transition table enforces, restated for edits that
		// carry no status change.
		return nil, ValidateOrderTransition(o.Status, OrderInProgress)
	}

	if patch.Description != nil {
		o.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.InitialMileage != nil {
		if *patch.InitialMileage < 0 {
			return nil, BusinessRulef("initial mileage cannot be negative")
		}
		o.InitialMileage = patch.InitialMileage
	}

	partItems, serviceItems, err := loadOrderItems(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	replaceItems := patch.PartItems != nil || patch.ServiceItems != nil
	if replaceItems {
		partInputs := patch.PartItems
		if partInputs == nil {
			partInputs = orderPartInputs(partItems)
		}
		serviceInputs := patch.ServiceItems
		if serviceInputs == nil {
			serviceInputs = orderServiceInputs(serviceItems)
		}
		partItems, serviceItems, err = resolveOrderItems(ctx, tx, partInputs, serviceInputs)
		if err != nil {
			return nil, err
		}
	}

	if newStatus == OrderInProgress && o.Status != OrderInProgress && o.InitialMileage == nil {
		return nil, BusinessRulef("initial mileage is required before work can start")
	}
	if newStatus == OrderCompleted {
		if len(partItems)+len(serviceItems) == 0 {
			return nil, BusinessRulef("a service order cannot be completed without items")
		}
		for _, sv := range serviceItems {
			if sv.EmployeeID == nil {
				return nil, BusinessRulef("every service item must have an employee assigned before completion")
			}
		}
		if o.ExitDate == nil {
			t := s.now()
			o.ExitDate = &t
		}
	} else {
		// Exit date only ever describes a completed order.
		o.ExitDate = nil
	}

	o.TotalCost = RoundMoney(OrderTotal(partItems, serviceItems))

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM service_order_part_items WHERE service_order_id = $1`, id); err != nil {
			return nil, translateDBError("clear order part items", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM service_order_service_items WHERE service_order_id = $1`, id); err != nil {
			return nil, translateDBError("clear order service items", err)
		}
		if err := insertOrderItems(ctx, tx, id, partItems, serviceItems); err != nil {
			return nil, err
		}
	}

	_, err = tx.Exec(ctx, `
		UPDATE service_orders
		SET description = $1, status = $2, initial_mileage = $3, exit_date = $4, total_cost = $5
		WHERE id = $6
	`, o.Description, newStatus, o.InitialMileage, o.ExitDate, o.TotalCost, id)
	if err != nil {
		return nil, translateDBError("update service order", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *serviceOrderService) Delete(ctx context.Context, id int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	o, err := lockOrderQ(ctx, tx, id)
	if err != nil {
		return err
	}

	var invoiced bool
	err = tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invoices WHERE service_order_id = $1)`, id).Scan(&invoiced)
	if err != nil {
		return translateDBError("check invoice", err)
	}
	if invoiced {
		return BusinessRulef("service order %d has an invoice and cannot be deleted", id)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM service_order_part_items WHERE service_order_id = $1`, id); err != nil {
		return translateDBError("delete order part items", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM service_order_service_items WHERE service_order_id = $1`, id); err != nil {
		return translateDBError("delete order service items", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM service_orders WHERE id = $1`, id); err != nil {
		return translateDBError("delete service order", err)
	}

	// Deleting the only order keeps the conversion invariant honest: the source
	// quotation becomes convertible again instead of pointing at nothing.
	if o.QuotationID != nil {
		_, err := tx.Exec(ctx, `UPDATE quotations SET status = $1 WHERE id = $2`,
			QuotationAwaitingConversion, *o.QuotationID)
		if err != nil {
			return translateDBError("reopen quotation", err)
		}
	}
	return tx.Commit(ctx)
}

func resolveOrderItems(ctx context.Context, qr querier,
	parts []OrderPartItemInput, services []OrderServiceItemInput) ([]OrderPartItem, []OrderServiceItem, error) {

	var partItems []OrderPartItem
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
		partItems = append(partItems, OrderPartItem{
			PartID:    part.ID,
			PartName:  part.Name,
			Quantity:  in.Quantity,
			UnitPrice: price,
		})
	}

	var serviceItems []OrderServiceItem
	for _, in := range services {
		if in.Quantity <= 0 {
			return nil, nil, BusinessRulef("service item quantity must be positive")
		}
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
		item := OrderServiceItem{
			RepairServiceID: svc.ID,
			ServiceName:     svc.Name,
			Quantity:        in.Quantity,
			ServiceCost:     cost,
		}
		if in.EmployeeID != nil {
			emp, err := getEmployeeQ(ctx, qr, *in.EmployeeID)
			if err != nil {
				return nil, nil, err
			}
			item.EmployeeID = &emp.ID
			item.EmployeeName = emp.Name
		}
		serviceItems = append(serviceItems, item)
	}
	return partItems, serviceItems, nil
}

func insertOrderItems(ctx context.Context, tx pgx.Tx, orderID int64,
	parts []OrderPartItem, services []OrderServiceItem) error {

	for _, p := range parts {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_order_part_items (service_order_id, part_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
		`, orderID, p.PartID, p.Quantity, p.UnitPrice)
		if err != nil {
			return translateDBError("insert order part item", err)
		}
	}
	for _, sv := range services {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_order_service_items (service_order_id, repair_service_id, employee_id, quantity, service_cost)
			VALUES ($1, $2, $3, $4, $5)
		`, orderID, sv.RepairServiceID, sv.EmployeeID, sv.Quantity, sv.ServiceCost)
		if err != nil {
			return translateDBError("insert order service item", err)
		}
	}
	return nil
}

func loadOrderItems(ctx context.Context, qr querier, orderID int64) ([]OrderPartItem, []OrderServiceItem, error) {
	partRows, err := qr.Query(ctx, `
		SELECT i.id, i.service_order_id, i.part_id, p.name, i.quantity, i.unit_price
		FROM service_order_part_items i
		JOIN parts p ON p.id = i.part_id
		WHERE i.service_order_id = $1
		ORDER BY i.id
	`, orderID)
	if err != nil {
		return nil, nil, translateDBError("query order part items", err)
	}
	defer partRows.Close()

	var parts []OrderPartItem
	for partRows.Next() {
		var p OrderPartItem
		if err := partRows.Scan(&p.ID, &p.OrderID, &p.PartID, &p.PartName, &p.Quantity, &p.UnitPrice); err != nil {
			return nil, nil, translateDBError("scan order part item", err)
		}
		parts = append(parts, p)
	}
	if err := partRows.Err(); err != nil {
		return nil, nil, err
	}

	serviceRows, err := qr.Query(ctx, `
		SELECT i.id, i.service_order_id, i.repair_service_id, s.name, i.employee_id, COALESCE(e.name, ''), i.quantity, i.service_cost
		FROM service_order_service_items i
		JOIN repair_services s ON s.id = i.repair_service_id
		LEFT JOIN employees e ON e.id = i.employee_id
		WHERE i.service_order_id = $1
		ORDER BY i.id
	`, orderID)
	if err != nil {
		return nil, nil, translateDBError("query order service items", err)
	}
	defer serviceRows.Close()

	var services []OrderServiceItem
	for serviceRows.Next() {
		var sv OrderServiceItem
		if err := serviceRows.Scan(&sv.ID, &sv.OrderID, &sv.RepairServiceID, &sv.ServiceName,
			&sv.EmployeeID, &sv.EmployeeName, &sv.Quantity, &sv.ServiceCost); err != nil {
			return nil, nil, translateDBError("scan order service item", err)
		}
		services = append(services, sv)
	}
	return parts, services, serviceRows.Err()
}

func orderPartInputs(items []OrderPartItem) []OrderPartItemInput {
	out := make([]OrderPartItemInput, 0, len(items))
	for _, it := range items {
		price := it.UnitPrice
		out = append(out, OrderPartItemInput{PartID: it.PartID, Quantity: it.Quantity, UnitPrice: &price})
	}
	return out
}

func orderServiceInputs(items []OrderServiceItem) []OrderServiceItemInput {
	out := make([]OrderServiceItemInput, 0, len(items))
	for _, it := range items {
		cost := it.ServiceCost
		out = append(out, OrderServiceItemInput{
			RepairServiceID: it.RepairServiceID,
			Quantity:        it.Quantity,
			ServiceCost:     &cost,
			EmployeeID:      it.EmployeeID,
		})
	}
	return out
}
