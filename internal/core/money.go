package core

import "github.com/shopspring/decimal"

// RoundMoney rounds to 2 decimal places. decimal.Round is half-away-from-zero,
// which for the non-negative amounts handled here is exactly half-up.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// CommissionFor computes the commission a single assigned service line item
// earns: (cost × quantity) × pct / 100, rounded half-up to 2 decimals.
func CommissionFor(serviceCost decimal.Decimal, quantity int, pct decimal.Decimal) decimal.Decimal {
	lineTotal := serviceCost.Mul(decimal.NewFromInt(int64(quantity)))
	return RoundMoney(lineTotal.Mul(pct).Div(decimal.NewFromInt(100)))
}

// QuotationTotal recomputes a quotation's total from its current line items:
// Σ(part qty × unit price) + Σ(service cost). Totals are never patched
// incrementally.
func QuotationTotal(parts []QuotationPartItem, services []QuotationServiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	for _, s := range services {
		total = total.Add(s.ServiceCost)
	}
	return total
}

// OrderTotal recomputes a service order's total from its current line items:
// Σ(part qty × unit price) + Σ(service cost × qty).
func OrderTotal(parts []OrderPartItem, services []OrderServiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, p := range parts {
		total = total.Add(p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity))))
	}
	for _, s := range services {
		total = total.Add(s.ServiceCost.Mul(decimal.NewFromInt(int64(s.Quantity))))
	}
	return total
}
