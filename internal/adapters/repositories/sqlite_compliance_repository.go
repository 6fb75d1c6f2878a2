package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fueleu-compliance-service/internal/domain"

	"github.com/shopspring/decimal"
)

// SQLite-backed implementation of the ComplianceRepository port.
type SqliteComplianceRepository struct{ DB *sql.DB }

func NewSqliteComplianceRepository(db *sql.DB) *SqliteComplianceRepository {
	return &SqliteComplianceRepository{DB: db}
}

func scanComplianceRecord(row interface{ Scan(dest ...any) error }) (domain.ComplianceRecord, error) {
	var (
		rec domain.ComplianceRecord
		cb  string
	)

	if err := row.Scan(&rec.ID, &rec.ShipID, &rec.Year, &cb, &rec.CreatedAt); err != nil {
		return domain.ComplianceRecord{}, err
	}

	parsed, err := decimal.NewFromString(cb)
	if err != nil {
		return domain.ComplianceRecord{}, fmt.Errorf("parse cb_gco2eq %q: %w", cb, err)
	}
	rec.CBGco2eq = parsed

	return rec, nil
}

func (s *SqliteComplianceRepository) FindByShipAndYear(ctx context.Context, shipID string, year int) (domain.ComplianceRecord, error) {
	query := `
	SELECT id, ship_id, year, cb_gco2eq, created_at
	FROM ship_compliance
	WHERE ship_id = ? AND year = ?;
	`

	rec, err := scanComplianceRecord(s.DB.QueryRowContext(ctx, query, shipID, year))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ComplianceRecord{}, fmt.Errorf(
			"find compliance record ship %q year %d: %w", shipID, year, domain.ErrNotFound,
		)
	}
	if err != nil {
		return domain.ComplianceRecord{}, fmt.Errorf("find compliance record ship %q year %d: %w", shipID, year, err)
	}

	return rec, nil
}

func (s *SqliteComplianceRepository) FindLatestByShip(ctx context.Context, shipID string) (domain.ComplianceRecord, error) {
	query := `
	SELECT id, ship_id, year, cb_gco2eq, created_at
	FROM ship_compliance
	WHERE ship_id = ?
	ORDER BY year DESC
	LIMIT 1;
	`

	rec, err := scanComplianceRecord(s.DB.QueryRowContext(ctx, query, shipID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ComplianceRecord{}, fmt.Errorf("find latest compliance record ship %q: %w", shipID, domain.ErrNotFound)
	}
	if err != nil {
		return domain.ComplianceRecord{}, fmt.Errorf("find latest compliance record ship %q: %w", shipID, err)
	}

	return rec, nil
}

func (s *SqliteComplianceRepository) FindAll(ctx context.Context) ([]domain.ComplianceRecord, error) {
	query := `
	SELECT id, ship_id, year, cb_gco2eq, created_at
	FROM ship_compliance
	ORDER BY ship_id, year;
	`

	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list compliance records: query: %w", err)
	}
	defer rows.Close()

	records := make([]domain.ComplianceRecord, 0, 16)
	for rows.Next() {
		rec, err := scanComplianceRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("list compliance records: scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list compliance records: row iteration: %w", err)
	}

	return records, nil
}

// Create inserts the record, ignoring a conflicting (ship_id, year) row, and
// returns whatever is stored afterward. Two racing first computations both
// end up with the winner's row.
func (s *SqliteComplianceRepository) Create(ctx context.Context, rec domain.ComplianceRecord) (domain.ComplianceRecord, error) {
	query := `
	INSERT INTO ship_compliance (ship_id, year, cb_gco2eq, created_at)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (ship_id, year) DO NOTHING;
	`

	_, err := s.DB.ExecContext(ctx, query, rec.ShipID, rec.Year, rec.CBGco2eq.String(), time.Now().UTC())
	if err != nil {
		return domain.ComplianceRecord{}, fmt.Errorf("create compliance record ship %q year %d: %w", rec.ShipID, rec.Year, err)
	}

	return s.FindByShipAndYear(ctx, rec.ShipID, rec.Year)
}
