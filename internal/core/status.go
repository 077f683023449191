package core

import "strings"

type QuotationStatus string

const (
	QuotationAwaitingConversion QuotationStatus = "AWAITING_CONVERSION"
	QuotationConvertedToOrder   QuotationStatus = "CONVERTED_TO_ORDER"
	QuotationCanceled           QuotationStatus = "CANCELED"
)

// ParseQuotationStatus parses a client-supplied status string.
func ParseQuotationStatus(s string) (QuotationStatus, error) {
	switch QuotationStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case QuotationAwaitingConversion:
		return QuotationAwaitingConversion, nil
	case QuotationConvertedToOrder:
		return QuotationConvertedToOrder, nil
	case QuotationCanceled:
		return QuotationCanceled, nil
	}
	return "", BusinessRulef("invalid quotation status: %s", s)
}

// ValidateQuotationTransition enforces the quotation status rules: a no-op
// transition is always allowed, a canceled quotation is frozen, and anything
// else is permitted (conversion itself is driven by the service-order side,
// not by direct status edits).
func ValidateQuotationTransition(old, next QuotationStatus) error {
	if old == next {
		return nil
	}
	if old == QuotationCanceled {
		return BusinessRulef("canceled quotation cannot be altered")
	}
	return nil
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "PENDING"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderCanceled   OrderStatus = "CANCELED"
)

// ParseOrderStatus parses a client-supplied status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case OrderPending:
		return OrderPending, nil
	case OrderInProgress:
		return OrderInProgress, nil
	case OrderCompleted:
		return OrderCompleted, nil
	case OrderCanceled:
		return OrderCanceled, nil
	}
	return "", BusinessRulef("invalid service order status: %s", s)
}

// orderTransitions is the full transition table; anything outside it is
// forbidden in both directions. COMPLETED and CANCELED are terminal.
var orderTransitions = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:    {OrderInProgress: true, OrderCanceled: true},
	OrderInProgress: {OrderCompleted: true, OrderCanceled: true},
	OrderCompleted:  {},
	OrderCanceled:   {},
}

// ValidateOrderTransition consults the transition table. Every mutation entry
// point goes through here; no update path carries its own ad hoc checks.
func ValidateOrderTransition(old, next OrderStatus) error {
	if old == next {
		return nil
	}
	switch old {
	case OrderCompleted:
		return BusinessRulef("service order is already COMPLETED and cannot be altered")
	case OrderCanceled:
		return BusinessRulef("service order was CANCELED and cannot be altered")
	}
	if !orderTransitions[old][next] {
		return BusinessRulef("invalid status transition from %s to %s", old, next)
	}
	return nil
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentOverdue  PaymentStatus = "OVERDUE"
	PaymentCanceled PaymentStatus = "CANCELED"
)

// ParsePaymentStatus parses a client-supplied payment status; an unrecognized
// value is a business rule violation, not a transport error.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentPending:
		return PaymentPending, nil
	case PaymentPaid:
		return PaymentPaid, nil
	case PaymentOverdue:
		return PaymentOverdue, nil
	case PaymentCanceled:
		return PaymentCanceled, nil
	}
	return "", BusinessRulef("invalid payment status: %s", s)
}
