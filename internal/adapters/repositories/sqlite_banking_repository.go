package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fueleu-compliance-service/internal/domain"

	"github.com/shopspring/decimal"
)

// SQLite-backed implementation of the BankingRepository port.
type SqliteBankingRepository struct{ DB *sql.DB }

func NewSqliteBankingRepository(db *sql.DB) *SqliteBankingRepository {
	return &SqliteBankingRepository{DB: db}
}

func scanBankEntry(row interface{ Scan(dest ...any) error }) (domain.BankEntry, error) {
	var (
		e       domain.BankEntry
		amount  string
		applied string
	)

	if err := row.Scan(&e.ID, &e.ShipID, &e.Year, &amount, &applied, &e.CreatedAt); err != nil {
		return domain.BankEntry{}, err
	}

	var err error
	if e.AmountGco2eq, err = decimal.NewFromString(amount); err != nil {
		return domain.BankEntry{}, fmt.Errorf("parse amount_gco2eq %q: %w", amount, err)
	}
	if e.AppliedAmount, err = decimal.NewFromString(applied); err != nil {
		return domain.BankEntry{}, fmt.Errorf("parse applied_amount %q: %w", applied, err)
	}

	return e, nil
}

func (s *SqliteBankingRepository) Create(ctx context.Context, entry domain.BankEntry) (domain.BankEntry, error) {
	query := `
	INSERT INTO bank_entries (ship_id, year, amount_gco2eq, applied_amount, created_at)
	VALUES (?, ?, ?, ?, ?);
	`

	createdAt := time.Now().UTC()
	res, err := s.DB.ExecContext(ctx, query,
		entry.ShipID, entry.Year, entry.AmountGco2eq.String(), entry.AppliedAmount.String(), createdAt,
	)
	if err != nil {
		return domain.BankEntry{}, fmt.Errorf("create bank entry ship %q: %w", entry.ShipID, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.BankEntry{}, fmt.Errorf("create bank entry ship %q: last insert id: %w", entry.ShipID, err)
	}

	entry.ID = id
	entry.CreatedAt = createdAt
	return entry, nil
}

func (s *SqliteBankingRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.BankEntry, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bank entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.BankEntry, 0, 8)
	for rows.Next() {
		e, err := scanBankEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bank entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("bank entry iteration: %w", err)
	}

	return entries, nil
}

func (s *SqliteBankingRepository) FindByShipAndYear(ctx context.Context, shipID string, year int) ([]domain.BankEntry, error) {
	query := `
	SELECT id, ship_id, year, amount_gco2eq, applied_amount, created_at
	FROM bank_entries
	WHERE ship_id = ? AND year = ?
	ORDER BY created_at, id;
	`
	return s.queryEntries(ctx, query, shipID, year)
}

// FindAvailableByShip returns undepleted entries oldest-first. The available
// comparison runs on parsed decimals in Go, not on the TEXT column.
func (s *SqliteBankingRepository) FindAvailableByShip(ctx context.Context, shipID string) ([]domain.BankEntry, error) {
	entries, err := s.FindByShip(ctx, shipID)
	if err != nil {
		return nil, err
	}

	available := entries[:0]
	for _, e := range entries {
		if e.Available().IsPositive() {
			available = append(available, e)
		}
	}

	return available, nil
}

func (s *SqliteBankingRepository) FindByShip(ctx context.Context, shipID string) ([]domain.BankEntry, error) {
	query := `
	SELECT id, ship_id, year, amount_gco2eq, applied_amount, created_at
	FROM bank_entries
	WHERE ship_id = ?
	ORDER BY created_at, id;
	`
	return s.queryEntries(ctx, query, shipID)
}

func (s *SqliteBankingRepository) TotalAvailable(ctx context.Context, shipID string) (decimal.Decimal, error) {
	entries, err := s.FindByShip(ctx, shipID)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Available())
	}

	return total, nil
}

// UpdateApplied persists the applied amounts of all given entries in one
// transaction so the FIFO walk is never observable half-done.
func (s *SqliteBankingRepository) UpdateApplied(ctx context.Context, entries []domain.BankEntry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update bank entries: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE bank_entries SET applied_amount = ? WHERE id = ?;`)
	if err != nil {
		return fmt.Errorf("update bank entries: prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		res, err := stmt.ExecContext(ctx, e.AppliedAmount.String(), e.ID)
		if err != nil {
			return fmt.Errorf("update bank entry %d: %w", e.ID, err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update bank entry %d: rows affected: %w", e.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("update bank entry %d: %w", e.ID, domain.ErrNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("update bank entries: commit tx: %w", err)
	}

	return nil
}
