package ports

import (
	"context"

	"fueleu-compliance-service/internal/domain"

	"github.com/shopspring/decimal"
)

// Port: a boundary for the surplus-banking ledger.
type BankingRepository interface {
	// Create stores a new ledger entry and returns the stored row with its
	// id and creation time populated.
	Create(ctx context.Context, entry domain.BankEntry) (domain.BankEntry, error)

	// FindByShipAndYear returns the ship's entries banked in the given year.
	FindByShipAndYear(ctx context.Context, shipID string, year int) ([]domain.BankEntry, error)

	// FindAvailableByShip returns the ship's entries with available amount
	// greater than zero, ordered by creation time ascending (FIFO).
	FindAvailableByShip(ctx context.Context, shipID string) ([]domain.BankEntry, error)

	// FindByShip returns all of the ship's entries, depleted ones included.
	FindByShip(ctx context.Context, shipID string) ([]domain.BankEntry, error)

	// TotalAvailable sums amount minus applied over all of the ship's entries.
	TotalAvailable(ctx context.Context, shipID string) (decimal.Decimal, error)

	// UpdateApplied persists the applied amounts of the given entries within
	// a single transaction, so a reader never observes a partially applied
	// FIFO walk.
	UpdateApplied(ctx context.Context, entries []domain.BankEntry) error
}
