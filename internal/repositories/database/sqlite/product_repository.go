package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

type SQLiteProductRepository struct {
	db *sql.DB
}

// newSQLiteProductRepository creates a new repository for product data.
func newSQLiteProductRepository(db *sql.DB) portsrepo.ProductRepositoryFacade {
	return &SQLiteProductRepository{db: db}
}

var _ portsrepo.ProductRepositoryFacade = (*SQLiteProductRepository)(nil)

const productColumns = `id, owner_id, name, barcode, category_id, selling_price, stock_qty, low_stock_threshold, created_at, updated_at, synced_at, is_deleted`

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	var syncedAt sql.NullTime
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Barcode,
		&p.CategoryID,
		&p.SellingPrice,
		&p.StockQty,
		&p.LowStockThreshold,
		&p.CreatedAt,
		&p.UpdatedAt,
		&syncedAt,
		&p.IsDeleted,
	)
	if err != nil {
		return p, err
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		p.SyncedAt = &t
	}
	return p, nil
}

func productArgs(p domain.Product) []any {
	var syncedAt sql.NullTime
	if p.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *p.SyncedAt, Valid: true}
	}
	return []any{p.ID, p.OwnerID, p.Name, p.Barcode, p.CategoryID, p.SellingPrice, p.StockQty, p.LowStockThreshold, p.CreatedAt, p.UpdatedAt, syncedAt, p.IsDeleted}
}

// SaveProduct inserts a new product.
func (r *SQLiteProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, query, productArgs(product)...); err != nil {
		return fmt.Errorf("failed to save product %s: %w", product.ID, err)
	}
	return nil
}

// UpdateProduct updates an existing product row, soft delete included.
func (r *SQLiteProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	query := `
		UPDATE products
		SET name = ?, barcode = ?, category_id = ?, selling_price = ?, stock_qty = ?,
			low_stock_threshold = ?, updated_at = ?, synced_at = ?, is_deleted = ?
		WHERE id = ? AND owner_id = ?;
	`
	var syncedAt sql.NullTime
	if product.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *product.SyncedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Barcode,
		product.CategoryID,
		product.SellingPrice,
		product.StockQty,
		product.LowStockThreshold,
		product.UpdatedAt,
		syncedAt,
		product.IsDeleted,
		product.ID,
		product.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindProductByID retrieves a non-deleted product scoped to the owner.
func (r *SQLiteProductRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, productID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product %s: %w", productID, err)
	}
	return &p, nil
}

// FindProductByBarcode retrieves a live product by barcode within the
// owner's scope.
func (r *SQLiteProductRepository) FindProductByBarcode(ctx context.Context, ownerID, barcode string) (*domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id = ? AND barcode = ? AND is_deleted = 0;
	`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, ownerID, barcode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by barcode: %w", err)
	}
	return &p, nil
}

// ListProducts returns live products, optionally filtered by category.
func (r *SQLiteProductRepository) ListProducts(ctx context.Context, ownerID, categoryID string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id = ? AND is_deleted = 0
	`
	args := []any{ownerID}
	if categoryID != "" {
		query += ` AND category_id = ?`
		args = append(args, categoryID)
	}
	query += ` ORDER BY name;`
	return r.queryProducts(ctx, query, args...)
}

// ListLowStockProducts returns live products at or below their threshold.
func (r *SQLiteProductRepository) ListLowStockProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id = ? AND is_deleted = 0 AND stock_qty <= low_stock_threshold
		ORDER BY stock_qty, name;
	`
	return r.queryProducts(ctx, query, ownerID)
}

// ListUnsyncedProducts returns every row, tombstones included, awaiting a push.
func (r *SQLiteProductRepository) ListUnsyncedProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.queryProducts(ctx, query, ownerID)
}

// MarkProductsSynced stamps synced_at after remote confirmation, skipping
// rows whose updated_at moved since they were listed.
func (r *SQLiteProductRepository) MarkProductsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "products", refs, syncedAt)
}

// UpsertProducts writes pulled remote rows by id, overwriting local state.
func (r *SQLiteProductRepository) UpsertProducts(ctx context.Context, products []domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			barcode = excluded.barcode,
			category_id = excluded.category_id,
			selling_price = excluded.selling_price,
			stock_qty = excluded.stock_qty,
			low_stock_threshold = excluded.low_stock_threshold,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, p := range products {
		if _, err := r.db.ExecContext(ctx, query, productArgs(p)...); err != nil {
			return fmt.Errorf("failed to upsert product %s: %w", p.ID, err)
		}
	}
	return nil
}

// HasUnsyncedProducts is an indexed existence check.
func (r *SQLiteProductRepository) HasUnsyncedProducts(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced products: %w", err)
	}
	return exists, nil
}

func (r *SQLiteProductRepository) queryProducts(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
