package ports

import (
	"context"

	"fueleu-compliance-service/internal/domain"
)

// Port: a boundary for storing computed compliance balances.
type ComplianceRepository interface {
	// FindByShipAndYear returns the stored record for (shipID, year).
	// Returns domain.ErrNotFound if absent.
	FindByShipAndYear(ctx context.Context, shipID string, year int) (domain.ComplianceRecord, error)

	// FindLatestByShip returns the ship's record with the highest year.
	// Returns domain.ErrNotFound if the ship has no records.
	FindLatestByShip(ctx context.Context, shipID string) (domain.ComplianceRecord, error)

	// FindAll returns every stored record ordered by ship id then year.
	FindAll(ctx context.Context) ([]domain.ComplianceRecord, error)

	// Create stores the record and returns the stored row. The (ship_id, year)
	// key is unique at the storage layer: a concurrent insert for the same key
	// loses silently and the existing row is returned, so first computations
	// racing each other observe an idempotent outcome.
	Create(ctx context.Context, rec domain.ComplianceRecord) (domain.ComplianceRecord, error)
}
