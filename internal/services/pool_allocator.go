package services

import (
	"slices"

	"fueleu-compliance-service/internal/domain"

	"github.com/shopspring/decimal"
)

// A ship entering a pool with its compliance balance at entry.
type PoolMemberInput struct {
	ShipID   string
	CBBefore decimal.Decimal
}

// AllocatePool redistributes surplus balance to deficit ships with a greedy
// walk.
//
// Members are stable-sorted descending by entry balance (ties keep input
// order, so allocation is reproducible). Each surplus member then feeds
// deficit members scanned from the end of the sorted list backward, moving
// min(surplus, |deficit|) per transfer until its surplus is exhausted or no
// deficits remain. Total balance is conserved by construction: every transfer
// subtracts from one member exactly what it adds to another.
func AllocatePool(members []PoolMemberInput) []domain.PoolMember {
	sorted := slices.Clone(members)
	slices.SortStableFunc(sorted, func(a, b PoolMemberInput) int {
		return b.CBBefore.Cmp(a.CBBefore)
	})

	out := make([]domain.PoolMember, len(sorted))
	for i, m := range sorted {
		out[i] = domain.PoolMember{
			ShipID:   m.ShipID,
			CBBefore: m.CBBefore,
			CBAfter:  m.CBBefore,
		}
	}

	for i := range out {
		if !out[i].CBAfter.IsPositive() {
			continue
		}

		for j := len(out) - 1; j > i; j-- {
			if !out[j].CBAfter.IsNegative() {
				continue
			}

			transfer := decimal.Min(out[i].CBAfter, out[j].CBAfter.Neg())
			out[i].CBAfter = out[i].CBAfter.Sub(transfer)
			out[j].CBAfter = out[j].CBAfter.Add(transfer)

			if out[i].CBAfter.IsZero() {
				break
			}
		}
	}

	return out
}
