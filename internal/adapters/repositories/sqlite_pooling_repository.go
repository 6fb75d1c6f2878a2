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

// SQLite-backed implementation of the PoolingRepository port.
type SqlitePoolingRepository struct{ DB *sql.DB }

func NewSqlitePoolingRepository(db *sql.DB) *SqlitePoolingRepository {
	return &SqlitePoolingRepository{DB: db}
}

// CreatePool inserts the pool row and all member rows inside one transaction.
func (s *SqlitePoolingRepository) CreatePool(ctx context.Context, year int, members []domain.PoolMember) (domain.Pool, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createdAt := time.Now().UTC()
	res, err := tx.ExecContext(ctx, `INSERT INTO pools (year, created_at) VALUES (?, ?);`, year, createdAt)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: insert pool: %w", err)
	}

	poolID, err := res.LastInsertId()
	if err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO pool_members (pool_id, ship_id, cb_before, cb_after)
	VALUES (?, ?, ?, ?);
	`)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: prepare member insert: %w", err)
	}
	defer stmt.Close()

	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, poolID, m.ShipID, m.CBBefore.String(), m.CBAfter.String()); err != nil {
			return domain.Pool{}, fmt.Errorf("create pool: insert member ship %q: %w", m.ShipID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.Pool{}, fmt.Errorf("create pool: commit tx: %w", err)
	}

	return s.FindPoolByID(ctx, poolID)
}

func (s *SqlitePoolingRepository) FindPoolByID(ctx context.Context, id int64) (domain.Pool, error) {
	var pool domain.Pool

	err := s.DB.QueryRowContext(ctx,
		`SELECT id, year, created_at FROM pools WHERE id = ?;`, id,
	).Scan(&pool.ID, &pool.Year, &pool.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Pool{}, fmt.Errorf("find pool %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Pool{}, fmt.Errorf("find pool %d: %w", id, err)
	}

	members, err := s.membersForPool(ctx, pool.ID)
	if err != nil {
		return domain.Pool{}, fmt.Errorf("find pool %d: %w", id, err)
	}
	pool.Members = members

	return pool, nil
}

func (s *SqlitePoolingRepository) FindPoolsByYear(ctx context.Context, year int) ([]domain.Pool, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, year, created_at FROM pools WHERE year = ? ORDER BY id;`, year,
	)
	if err != nil {
		return nil, fmt.Errorf("list pools for year %d: query: %w", year, err)
	}
	defer rows.Close()

	pools := make([]domain.Pool, 0, 4)
	for rows.Next() {
		var pool domain.Pool
		if err := rows.Scan(&pool.ID, &pool.Year, &pool.CreatedAt); err != nil {
			return nil, fmt.Errorf("list pools for year %d: scan row: %w", year, err)
		}
		pools = append(pools, pool)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pools for year %d: row iteration: %w", year, err)
	}

	for i := range pools {
		members, err := s.membersForPool(ctx, pools[i].ID)
		if err != nil {
			return nil, fmt.Errorf("list pools for year %d: %w", year, err)
		}
		pools[i].Members = members
	}

	return pools, nil
}

func (s *SqlitePoolingRepository) membersForPool(ctx context.Context, poolID int64) ([]domain.PoolMember, error) {
	rows, err := s.DB.QueryContext(ctx, `
	SELECT id, pool_id, ship_id, cb_before, cb_after
	FROM pool_members
	WHERE pool_id = ?
	ORDER BY id;
	`, poolID)
	if err != nil {
		return nil, fmt.Errorf("query pool members: %w", err)
	}
	defer rows.Close()

	members := make([]domain.PoolMember, 0, 8)
	for rows.Next() {
		var (
			m      domain.PoolMember
			before string
			after  string
		)
		if err := rows.Scan(&m.ID, &m.PoolID, &m.ShipID, &before, &after); err != nil {
			return nil, fmt.Errorf("scan pool member: %w", err)
		}

		if m.CBBefore, err = decimal.NewFromString(before); err != nil {
			return nil, fmt.Errorf("parse cb_before %q: %w", before, err)
		}
		if m.CBAfter, err = decimal.NewFromString(after); err != nil {
			return nil, fmt.Errorf("parse cb_after %q: %w", after, err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pool member iteration: %w", err)
	}

	return members, nil
}
