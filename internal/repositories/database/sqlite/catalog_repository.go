package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

type SQLiteCatalogRepository struct {
	db *sql.DB
}

// newSQLiteCatalogRepository creates a new repository for the barcode
// reference catalog.
func newSQLiteCatalogRepository(db *sql.DB) portsrepo.CatalogRepository {
	return &SQLiteCatalogRepository{db: db}
}

var _ portsrepo.CatalogRepository = (*SQLiteCatalogRepository)(nil)

// FindCatalogEntry looks up a barcode in the reference table.
func (r *SQLiteCatalogRepository) FindCatalogEntry(ctx context.Context, barcode string) (*domain.CatalogEntry, error) {
	query := `
		SELECT barcode, name, category_name, created_at
		FROM product_catalog
		WHERE barcode = ?;
	`
	var e domain.CatalogEntry
	err := r.db.QueryRowContext(ctx, query, barcode).Scan(&e.Barcode, &e.Name, &e.CategoryName, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find catalog entry: %w", err)
	}
	return &e, nil
}

// SeedCatalog bulk-upserts reference entries by barcode in one transaction.
func (r *SQLiteCatalogRepository) SeedCatalog(ctx context.Context, entries []domain.CatalogEntry) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin catalog seed: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO product_catalog (barcode, name, category_name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(barcode) DO UPDATE SET
			name = excluded.name,
			category_name = excluded.category_name;
	`
	count := 0
	for _, e := range entries {
		if _, err := tx.ExecContext(ctx, query, e.Barcode, e.Name, e.CategoryName, e.CreatedAt); err != nil {
			return 0, fmt.Errorf("failed to seed catalog entry %s: %w", e.Barcode, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit catalog seed: %w", err)
	}
	return count, nil
}

// CountCatalogEntries returns the number of reference rows.
func (r *SQLiteCatalogRepository) CountCatalogEntries(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM product_catalog;`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count catalog entries: %w", err)
	}
	return count, nil
}

// ClearCatalog removes all reference rows.
func (r *SQLiteCatalogRepository) ClearCatalog(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM product_catalog;`); err != nil {
		return fmt.Errorf("failed to clear catalog: %w", err)
	}
	return nil
}
