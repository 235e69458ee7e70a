package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNoRecord is returned by the stores when a requested record does not
// exist.
var ErrNoRecord = errors.New("record not found")

// PackageRow mirrors one row of the packages table.
type PackageRow struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Category    string          `json:"category"`
}

// PackageStore persists the packages collection.
type PackageStore struct {
	pool *pgxpool.Pool
}

// NewPackageStore returns a PackageStore using pool.
func NewPackageStore(pool *pgxpool.Pool) *PackageStore {
	return &PackageStore{pool: pool}
}

// List returns packages ordered by id, optionally filtered by id.
func (s *PackageStore) List(ctx context.Context, id *int64) ([]PackageRow, error) {
	const q = `
		SELECT id, name, price, description, duration, category
		FROM packages
		WHERE $1::bigint IS NULL OR id = $1
		ORDER BY id`
	rows, err := s.pool.Query(ctx, q, id)
	if err != nil {
		return nil, errors.Wrap(err, "list packages")
	}
	defer rows.Close()
	return scanPackages(rows)
}

// Insert stores a new package and returns it with its assigned id.
func (s *PackageStore) Insert(ctx context.Context, p PackageRow) (PackageRow, error) {
	const q = `
		INSERT INTO packages (name, price, description, duration, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := s.pool.QueryRow(ctx, q, p.Name, p.Price, p.Description, p.Duration, p.Category).Scan(&p.ID)
	if err != nil {
		return PackageRow{}, errors.Wrap(err, "insert package")
	}
	return p, nil
}

// Update replaces the package with p.ID. Returns ErrNoRecord when absent.
func (s *PackageStore) Update(ctx context.Context, p PackageRow) (PackageRow, error) {
	const q = `
		UPDATE packages
		SET name = $2, price = $3, description = $4, duration = $5, category = $6
		WHERE id = $1`
	tag, err := s.pool.Exec(ctx, q, p.ID, p.Name, p.Price, p.Description, p.Duration, p.Category)
	if err != nil {
		return PackageRow{}, errors.Wrapf(err, "update package %d", p.ID)
	}
	if tag.RowsAffected() == 0 {
		return PackageRow{}, ErrNoRecord
	}
	return p, nil
}

// Delete removes the package with id. Returns ErrNoRecord when absent.
func (s *PackageStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete package %d", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRecord
	}
	return nil
}

func scanPackages(rows pgx.Rows) ([]PackageRow, error) {
	var out []PackageRow
	for rows.Next() {
		var p PackageRow
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Description, &p.Duration, &p.Category); err != nil {
			return nil, errors.Wrap(err, "scan package")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate packages")
	}
	if out == nil {
		out = []PackageRow{}
	}
	return out, nil
}
