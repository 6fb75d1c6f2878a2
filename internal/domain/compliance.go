package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stored compliance balance for one (ship, year) pair.
// Records are immutable once created; recomputation returns the stored value.
type ComplianceRecord struct {
	ID        int64
	ShipID    string
	Year      int
	CBGco2eq  decimal.Decimal
	CreatedAt time.Time
}

func (c ComplianceRecord) IsSurplus() bool {
	return c.CBGco2eq.IsPositive()
}

func (c ComplianceRecord) IsDeficit() bool {
	return c.CBGco2eq.IsNegative()
}

// AbsoluteBalance returns the magnitude of the balance regardless of sign.
func (c ComplianceRecord) AbsoluteBalance() decimal.Decimal {
	return c.CBGco2eq.Abs()
}
