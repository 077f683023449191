package core

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CommissionReportEntry aggregates one employee's commission over the report
// window: how many service items they performed and what those items earned.
type CommissionReportEntry struct {
	EmployeeID      int64           `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	EmployeeRole    string          `json:"employee_role,omitempty"`
	ServiceCount    int             `json:"service_count"`
	TotalCommission decimal.Decimal `json:"total_commission"`
}

type CommissionReport struct {
	StartDate time.Time               `json:"start_date"`
	EndDate   time.Time               `json:"end_date"`
	Entries   []CommissionReportEntry `json:"entries"`
}

// ReportService builds aggregates over finished work.
type ReportService interface {
	// Commissions reports per-employee commission for service items on orders
	// completed within [start, end], inclusive on both calendar days.
	Commissions(ctx context.Context, start, end time.Time) (*CommissionReport, error)
}

type reportService struct {
	pool *pgxpool.Pool
}

func NewReportService(pool *pgxpool.Pool) ReportService {
	return &reportService{pool: pool}
}

// commissionRow is one assigned service line item inside the window, with the
// employee's commission terms as they stand at report time.
type commissionRow struct {
	EmployeeID    int64
	EmployeeName  string
	EmployeeRole  string
	ServiceCost   decimal.Decimal
	Quantity      int
	CommissionPct decimal.Decimal
}

func (s *reportService) Commissions(ctx context.Context, start, end time.Time) (*CommissionReport, error) {
	if end.Before(start) {
		return nil, BusinessRulef("report end date cannot precede start date")
	}

	// Inputs are calendar days; widen to the full span of both so an order
	// completed at any time on the end date is counted.
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	to := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location())

	// The inner join on employees drops unassigned service items, which earn
	// nobody a commission.
	query := `
		SELECT e.id, e.name, COALESCE(r.name, ''), i.service_cost, i.quantity, e.commission_percentage
		FROM service_order_service_items i
		JOIN service_orders so ON so.id = i.service_order_id
		JOIN employees e ON e.id = i.employee_id
		LEFT JOIN roles r ON r.id = e.role_id
		WHERE so.status = $1 AND so.exit_date >= $2 AND so.exit_date <= $3`
	args := []any{string(OrderCompleted), from, to}
	query, args = scopeFilter(ctx, query, "so.tenant_id", args)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateDBError("query commissions", err)
	}
	defer rows.Close()

	var items []commissionRow
	for rows.Next() {
		var r commissionRow
		if err := rows.Scan(&r.EmployeeID, &r.EmployeeName, &r.EmployeeRole,
			&r.ServiceCost, &r.Quantity, &r.CommissionPct); err != nil {
			return nil, translateDBError("scan commission row", err)
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &CommissionReport{
		StartDate: from,
		EndDate:   to,
		Entries:   aggregateCommissions(items),
	}, nil
}

// aggregateCommissions folds line items into per-employee totals. Each item's
// commission is rounded to cents before summing, so the report matches what
// each line would pay out on its own.
func aggregateCommissions(items []commissionRow) []CommissionReportEntry {
	byEmployee := make(map[int64]*CommissionReportEntry)
	for _, it := range items {
		entry, ok := byEmployee[it.EmployeeID]
		if !ok {
			entry = &CommissionReportEntry{
				EmployeeID:      it.EmployeeID,
				EmployeeName:    it.EmployeeName,
				EmployeeRole:    it.EmployeeRole,
				TotalCommission: decimal.Zero,
			}
			byEmployee[it.EmployeeID] = entry
		}
		entry.ServiceCount++
		entry.TotalCommission = entry.TotalCommission.Add(CommissionFor(it.ServiceCost, it.Quantity, it.CommissionPct))
	}

	entries := make([]CommissionReportEntry, 0, len(byEmployee))
	for _, e := range byEmployee {
		entries = append(entries, *e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].EmployeeName != entries[j].EmployeeName {
			return entries[i].EmployeeName < entries[j].EmployeeName
		}
		return entries[i].EmployeeID < entries[j].EmployeeID
	})
	return entries
}
