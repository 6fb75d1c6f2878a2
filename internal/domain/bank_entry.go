package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// One banked-surplus ledger row. AmountGco2eq is the amount originally
// banked; AppliedAmount grows monotonically as banked surplus is applied
// against deficits and never exceeds AmountGco2eq. Entries are never
// deleted so the full ledger remains auditable. CreatedAt orders entries
// for FIFO application.
type BankEntry struct {
	ID            int64
	ShipID        string
	Year          int
	AmountGco2eq  decimal.Decimal
	AppliedAmount decimal.Decimal
	CreatedAt     time.Time
}

// Available returns the unapplied remainder of the entry.
func (e BankEntry) Available() decimal.Decimal {
	return e.AmountGco2eq.Sub(e.AppliedAmount)
}

// CanApply reports whether amount can be consumed from this entry.
func (e BankEntry) CanApply(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.LessThanOrEqual(e.Available())
}

// Apply returns a copy of the entry with amount consumed from its available
// remainder. The receiver is unchanged; persisting the returned value is the
// caller's responsibility.
func (e BankEntry) Apply(amount decimal.Decimal) (BankEntry, error) {
	if !e.CanApply(amount) {
		return BankEntry{}, fmt.Errorf(
			"apply to bank entry %d: requested %s, available %s: %w",
			e.ID, amount, e.Available(), ErrExceedsAvailable,
		)
	}

	e.AppliedAmount = e.AppliedAmount.Add(amount)
	return e, nil
}
