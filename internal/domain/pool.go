package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// One ship's position inside a pool: the balance it entered with and the
// balance it holds after redistribution.
type PoolMember struct {
	ID       int64
	PoolID   int64
	ShipID   string
	CBBefore decimal.Decimal
	CBAfter  decimal.Decimal
}

func (m PoolMember) IsSurplus() bool {
	return m.CBBefore.IsPositive()
}

func (m PoolMember) IsDeficit() bool {
	return m.CBBefore.IsNegative()
}

// A pool of ships that jointly satisfy the intensity target for one year.
// Pools are created atomically with all their members and never mutated.
type Pool struct {
	ID        int64
	Year      int
	CreatedAt time.Time
	Members   []PoolMember
}

// TotalCBBefore sums member balances at pool entry.
func (p Pool) TotalCBBefore() decimal.Decimal {
	total := decimal.Zero
	for _, m := range p.Members {
		total = total.Add(m.CBBefore)
	}
	return total
}

// TotalCBAfter sums member balances after redistribution. Allocation
// conserves balance, so this equals TotalCBBefore for any stored pool.
func (p Pool) TotalCBAfter() decimal.Decimal {
	total := decimal.Zero
	for _, m := range p.Members {
		total = total.Add(m.CBAfter)
	}
	return total
}

// ValidateMembers checks the fairness constraints on every member: a deficit
// ship must not exit worse than it entered, and a surplus ship must not exit
// negative. Returns one message per violating ship.
func (p Pool) ValidateMembers() []string {
	var errs []string

	for _, m := range p.Members {
		if m.IsDeficit() && m.CBAfter.LessThan(m.CBBefore) {
			errs = append(errs, fmt.Sprintf(
				"ship %s deficit worsened: %s -> %s", m.ShipID, m.CBBefore, m.CBAfter,
			))
		}

		if m.IsSurplus() && m.CBAfter.IsNegative() {
			errs = append(errs, fmt.Sprintf(
				"ship %s surplus became negative: %s -> %s", m.ShipID, m.CBBefore, m.CBAfter,
			))
		}
	}

	return errs
}
