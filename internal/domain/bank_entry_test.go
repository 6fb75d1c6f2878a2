package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return d
}

func TestBankEntryApply(t *testing.T) {
	entry := BankEntry{
		ID:            1,
		ShipID:        "R001",
		Year:          2024,
		AmountGco2eq:  dec(t, "100"),
		AppliedAmount: decimal.Zero,
	}

	partial, err := entry.Apply(dec(t, "30"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !partial.AppliedAmount.Equal(dec(t, "30")) {
		t.Fatalf("applied = %s, want 30", partial.AppliedAmount)
	}
	if !partial.Available().Equal(dec(t, "70")) {
		t.Fatalf("available = %s, want 70", partial.Available())
	}

	// The receiver is a value; the original entry must be untouched.
	if !entry.AppliedAmount.IsZero() {
		t.Fatalf("original entry mutated: applied = %s", entry.AppliedAmount)
	}

	full, err := partial.Apply(dec(t, "70"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !full.Available().IsZero() {
		t.Fatalf("available = %s, want 0", full.Available())
	}
}

func TestBankEntryApplyExceedsAvailable(t *testing.T) {
	entry := BankEntry{
		ID:            7,
		AmountGco2eq:  dec(t, "50"),
		AppliedAmount: dec(t, "45"),
	}

	if _, err := entry.Apply(dec(t, "10")); !errors.Is(err, ErrExceedsAvailable) {
		t.Fatalf("expected ErrExceedsAvailable, got %v", err)
	}

	if _, err := entry.Apply(decimal.Zero); !errors.Is(err, ErrExceedsAvailable) {
		t.Fatalf("expected ErrExceedsAvailable for zero amount, got %v", err)
	}
}
