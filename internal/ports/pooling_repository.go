package ports

import (
	"context"

	"fueleu-compliance-service/internal/domain"
)

// Port: a boundary for storing pools and their members.
type PoolingRepository interface {
	// CreatePool stores the pool row and all member rows as a single unit
	// and returns the hydrated pool. A reader must never observe a pool with
	// a partial member set.
	CreatePool(ctx context.Context, year int, members []domain.PoolMember) (domain.Pool, error)

	// FindPoolByID returns the pool with its members.
	// Returns domain.ErrNotFound if absent.
	FindPoolByID(ctx context.Context, id int64) (domain.Pool, error)

	// FindPoolsByYear returns all pools created for the given year.
	FindPoolsByYear(ctx context.Context, year int) ([]domain.Pool, error)
}
