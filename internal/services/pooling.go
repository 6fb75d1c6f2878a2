package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
)

// PoolingService allocates compliance balance across a pool of ships and
// persists the result.
type PoolingService struct {
	pools ports.PoolingRepository
}

func NewPoolingService(pools ports.PoolingRepository) *PoolingService {
	return &PoolingService{pools: pools}
}

// CreatePool redistributes balance across the members and stores the pool
// with all member rows as a single unit. The member balances must sum to at
// least zero, and the allocation must leave no deficit ship worse off and no
// surplus ship negative; any violation fails the whole operation and nothing
// is persisted.
func (s *PoolingService) CreatePool(ctx context.Context, year int, members []PoolMemberInput) (domain.Pool, error) {
	if len(members) == 0 {
		return domain.Pool{}, errors.New("create pool: members must not be empty")
	}

	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.CBBefore)
	}
	if total.IsNegative() {
		return domain.Pool{}, fmt.Errorf(
			"create pool: total cb is %s: %w", total, domain.ErrNegativePoolTotal,
		)
	}

	allocated := AllocatePool(members)

	if errs := (domain.Pool{Members: allocated}).ValidateMembers(); len(errs) > 0 {
		return domain.Pool{}, fmt.Errorf(
			"create pool: %s: %w", strings.Join(errs, "; "), domain.ErrPoolValidationFailed,
		)
	}

	pool, err := s.pools.CreatePool(ctx, year, allocated)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: %w", err)
	}

	return pool, nil
}

// PoolsByYear returns all pools created for the given year.
func (s *PoolingService) PoolsByYear(ctx context.Context, year int) ([]domain.Pool, error) {
	pools, err := s.pools.FindPoolsByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("get pools for year %d: %w", year, err)
	}
	return pools, nil
}

// PoolByID returns a single pool with its members.
func (s *PoolingService) PoolByID(ctx context.Context, id int64) (domain.Pool, error) {
	pool, err := s.pools.FindPoolByID(ctx, id)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("get pool %d: %w", id, err)
	}
	return pool, nil
}
