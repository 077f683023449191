package core

import (
	"errors"
	"testing"
	"time"
)

func TestInvoiceNumber(t *testing.T) {
	issued := time.Date(2026, time.March, 7, 14, 30, 0, 0, time.UTC)
	if got, want := invoiceNumber(42, issued), "OS-42-20260307"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDomainErrorKinds(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{NotFoundf("client %d not found", 9), ErrNotFound},
		{AccessDeniedf("access denied"), ErrAccessDenied},
		{BusinessRulef("bad state"), ErrBusinessRule},
		{UniqueConstraintf("duplicate"), ErrUniqueConstraint},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.kind) {
			t.Errorf("%v should match kind %v", tc.err, tc.kind)
		}
	}
	if errors.Is(NotFoundf("x"), ErrAccessDenied) {
		t.Error("kinds must not cross-match")
	}
}
