package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fueleu-compliance-service/internal/domain"
	"fueleu-compliance-service/internal/ports"

	"github.com/shopspring/decimal"
)

// shipLocks hands out one mutex per ship id so read-modify-write sequences
// over a ship's ledger rows are serialized within this process.
type shipLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *shipLocks) get(shipID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	if _, ok := l.locks[shipID]; !ok {
		l.locks[shipID] = &sync.Mutex{}
	}
	return l.locks[shipID]
}

// BankingService records surplus banking and applies banked amounts against
// a ship's balance in strict FIFO order over undepleted entries.
type BankingService struct {
	entries ports.BankingRepository
	records ports.ComplianceRepository
	locks   shipLocks
}

func NewBankingService(entries ports.BankingRepository, records ports.ComplianceRepository) *BankingService {
	return &BankingService{entries: entries, records: records}
}

// BankSurplus creates a ledger entry for part of a ship-year's positive
// compliance balance. The ship-year must have a stored record with a
// positive balance, and amount must not exceed it.
func (s *BankingService) BankSurplus(ctx context.Context, shipID string, year int, amount decimal.Decimal) (domain.BankEntry, error) {
	rec, err := s.records.FindByShipAndYear(ctx, shipID, year)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.BankEntry{}, fmt.Errorf(
				"bank surplus: no compliance record for ship %q year %d: %w",
				shipID, year, domain.ErrNotFound,
			)
		}
		return domain.BankEntry{}, fmt.Errorf("bank surplus: %w", err)
	}

	if !rec.IsSurplus() {
		return domain.BankEntry{}, fmt.Errorf(
			"bank surplus: ship %q year %d has cb %s: %w",
			shipID, year, rec.CBGco2eq, domain.ErrNoPositiveBalance,
		)
	}

	if amount.GreaterThan(rec.CBGco2eq) {
		return domain.BankEntry{}, fmt.Errorf(
			"bank surplus: requested %s exceeds available cb %s: %w",
			amount, rec.CBGco2eq, domain.ErrExceedsAvailable,
		)
	}

	entry, err := s.entries.Create(ctx, domain.BankEntry{
		ShipID:        shipID,
		Year:          year,
		AmountGco2eq:  amount,
		AppliedAmount: decimal.Zero,
	})
	if err != nil {
		return domain.BankEntry{}, fmt.Errorf("bank surplus: store entry: %w", err)
	}

	return entry, nil
}

// TotalAvailable returns the ship's unapplied banked total.
func (s *BankingService) TotalAvailable(ctx context.Context, shipID string) (decimal.Decimal, error) {
	total, err := s.entries.TotalAvailable(ctx, shipID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get total available: %w", err)
	}
	return total, nil
}

// ApplyBanked consumes amount from the ship's banked entries oldest-first,
// incrementing each touched entry's applied amount until the request is
// fully allocated. All mutated entries are persisted in one transaction.
// The whole walk holds the ship's lock, so two concurrent applications for
// the same ship cannot lose updates.
func (s *BankingService) ApplyBanked(ctx context.Context, shipID string, amount decimal.Decimal) (AdjustedBalance, error) {
	lock := s.locks.get(shipID)
	lock.Lock()
	defer lock.Unlock()

	total, err := s.entries.TotalAvailable(ctx, shipID)
	if err != nil {
		return AdjustedBalance{}, fmt.Errorf("apply banked: %w", err)
	}

	if amount.GreaterThan(total) {
		return AdjustedBalance{}, fmt.Errorf(
			"apply banked: requested %s exceeds available banked %s: %w",
			amount, total, domain.ErrExceedsAvailable,
		)
	}

	open, err := s.entries.FindAvailableByShip(ctx, shipID)
	if err != nil {
		return AdjustedBalance{}, fmt.Errorf("apply banked: list available entries: %w", err)
	}

	remaining := amount
	applied := make([]domain.BankEntry, 0, len(open))

	for _, entry := range open {
		if !remaining.IsPositive() {
			break
		}

		consume := decimal.Min(entry.Available(), remaining)
		next, err := entry.Apply(consume)
		if err != nil {
			return AdjustedBalance{}, fmt.Errorf("apply banked: %w", err)
		}

		applied = append(applied, next)
		remaining = remaining.Sub(consume)
	}

	if err := s.entries.UpdateApplied(ctx, applied); err != nil {
		return AdjustedBalance{}, fmt.Errorf("apply banked: persist entries: %w", err)
	}

	cbBefore := decimal.Zero
	latest, err := s.records.FindLatestByShip(ctx, shipID)
	switch {
	case err == nil:
		cbBefore = latest.CBGco2eq
	case !errors.Is(err, domain.ErrNotFound):
		return AdjustedBalance{}, fmt.Errorf("apply banked: find latest record: %w", err)
	}

	return AdjustedBalance{
		CBBefore: cbBefore.Round(2),
		Applied:  amount.Round(2),
		CBAfter:  cbBefore.Add(amount).Round(2),
	}, nil
}

// Records returns the ship's ledger entries. With year > 0 it returns the
// entries banked in that year (possibly empty); otherwise the ship's
// undepleted entries.
func (s *BankingService) Records(ctx context.Context, shipID string, year int) ([]domain.BankEntry, error) {
	var (
		entries []domain.BankEntry
		err     error
	)

	if year > 0 {
		entries, err = s.entries.FindByShipAndYear(ctx, shipID, year)
	} else {
		entries, err = s.entries.FindAvailableByShip(ctx, shipID)
	}
	if err != nil {
		return nil, fmt.Errorf("get banking records: %w", err)
	}

	return entries, nil
}

// ReverseEntry is an extension hook for auditors to unwind a ledger entry.
// The default flow has no reversal semantics.
func (s *BankingService) ReverseEntry(ctx context.Context, entryID int64) error {
	return fmt.Errorf("reverse bank entry %d: %w", entryID, domain.ErrNotImplemented)
}
