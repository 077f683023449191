package core

import (
	"errors"
	"testing"
)

func TestValidateOrderTransition(t *testing.T) {
	cases := []struct {
		name    string
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{"pending to in_progress", OrderPending, OrderInProgress, true},
		{"pending to canceled", OrderPending, OrderCanceled, true},
		{"pending to completed skips work", OrderPending, OrderCompleted, false},
		{"in_progress to completed", OrderInProgress, OrderCompleted, true},
		{"in_progress to canceled", OrderInProgress, OrderCanceled, true},
		{"in_progress back to pending", OrderInProgress, OrderPending, false},
		{"completed is terminal", OrderCompleted, OrderInProgress, false},
		{"completed cannot cancel", OrderCompleted, OrderCanceled, false},
		{"canceled is terminal", OrderCanceled, OrderPending, false},
		{"canceled cannot complete", OrderCanceled, OrderCompleted, false},
		{"no-op pending", OrderPending, OrderPending, true},
		{"no-op completed", OrderCompleted, OrderCompleted, true},
		{"no-op canceled", OrderCanceled, OrderCanceled, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateOrderTransition(tc.from, tc.to)
			if tc.allowed && err != nil {
				t.Fatalf("expected %s -> %s to be allowed, got %v", tc.from, tc.to, err)
			}
			if !tc.allowed {
				if err == nil {
					t.Fatalf("expected %s -> %s to be rejected", tc.from, tc.to)
				}
				if !errors.Is(err, ErrBusinessRule) {
					t.Fatalf("expected business rule violation, got %v", err)
				}
			}
		})
	}
}

func TestValidateQuotationTransition(t *testing.T) {
	if err := ValidateQuotationTransition(QuotationCanceled, QuotationAwaitingConversion); err == nil {
		t.Fatal("expected canceled quotation to be frozen")
	}
	if err := ValidateQuotationTransition(QuotationCanceled, QuotationCanceled); err != nil {
		t.Fatalf("no-op on canceled quotation should pass, got %v", err)
	}
	if err := ValidateQuotationTransition(QuotationAwaitingConversion, QuotationCanceled); err != nil {
		t.Fatalf("canceling an open quotation should pass, got %v", err)
	}
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("  in_progress ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != OrderInProgress {
		t.Fatalf("got %s", got)
	}

	if _, err := ParseOrderStatus("SHIPPED"); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected business rule violation for unknown status, got %v", err)
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "paid", "Overdue", "CANCELED"} {
		if _, err := ParsePaymentStatus(s); err != nil {
			t.Fatalf("expected %q to parse, got %v", s, err)
		}
	}
	if _, err := ParsePaymentStatus("REFUNDED"); !errors.Is(err, ErrBusinessRule) {
		t.Fatalf("expected business rule violation, got %v", err)
	}
}
