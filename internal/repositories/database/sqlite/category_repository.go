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

type SQLiteCategoryRepository struct {
	db *sql.DB
}

// newSQLiteCategoryRepository creates a new repository for category data.
func newSQLiteCategoryRepository(db *sql.DB) portsrepo.CategoryRepositoryFacade {
	return &SQLiteCategoryRepository{db: db}
}

var _ portsrepo.CategoryRepositoryFacade = (*SQLiteCategoryRepository)(nil)

const categoryColumns = `id, owner_id, name, color, sort_order, created_at, updated_at, synced_at, is_deleted`

func scanCategory(row rowScanner) (domain.Category, error) {
	var c domain.Category
	var syncedAt sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.OwnerID,
		&c.Name,
		&c.Color,
		&c.SortOrder,
		&c.CreatedAt,
		&c.UpdatedAt,
		&syncedAt,
		&c.IsDeleted,
	)
	if err != nil {
		return c, err
	}
	if syncedAt.Valid {
		t := syncedAt.Time
		c.SyncedAt = &t
	}
	return c, nil
}

func categoryArgs(c domain.Category) []any {
	var syncedAt sql.NullTime
	if c.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *c.SyncedAt, Valid: true}
	}
	return []any{c.ID, c.OwnerID, c.Name, c.Color, c.SortOrder, c.CreatedAt, c.UpdatedAt, syncedAt, c.IsDeleted}
}

// SaveCategory inserts a new category.
func (r *SQLiteCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	if _, err := r.db.ExecContext(ctx, query, categoryArgs(category)...); err != nil {
		return fmt.Errorf("failed to save category %s: %w", category.ID, err)
	}
	return nil
}

// UpdateCategory updates an existing category row, soft delete included.
func (r *SQLiteCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	query := `
		UPDATE categories
		SET name = ?, color = ?, sort_order = ?, updated_at = ?, synced_at = ?, is_deleted = ?
		WHERE id = ? AND owner_id = ?;
	`
	var syncedAt sql.NullTime
	if category.SyncedAt != nil {
		syncedAt = sql.NullTime{Time: *category.SyncedAt, Valid: true}
	}
	res, err := r.db.ExecContext(ctx, query,
		category.Name,
		category.Color,
		category.SortOrder,
		category.UpdatedAt,
		syncedAt,
		category.IsDeleted,
		category.ID,
		category.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category %s: %w", category.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindCategoryByID retrieves a non-deleted category scoped to the owner.
func (r *SQLiteCategoryRepository) FindCategoryByID(ctx context.Context, ownerID, categoryID string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, categoryID, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	return &c, nil
}

// FindCategoryByName matches case-insensitively within the owner's scope.
func (r *SQLiteCategoryRepository) FindCategoryByName(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = ? AND is_deleted = 0 AND LOWER(name) = LOWER(?);
	`
	c, err := scanCategory(r.db.QueryRowContext(ctx, query, ownerID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return &c, nil
}

// ListCategories returns the owner's live categories, sort order first.
func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = ? AND is_deleted = 0
		ORDER BY sort_order, name;
	`
	return r.queryCategories(ctx, query, ownerID)
}

// MaxSortOrder returns the highest sort order among live categories, 0 when none.
func (r *SQLiteCategoryRepository) MaxSortOrder(ctx context.Context, ownerID string) (int, error) {
	query := `
		SELECT COALESCE(MAX(sort_order), 0)
		FROM categories
		WHERE owner_id = ? AND is_deleted = 0;
	`
	var max int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read max sort order: %w", err)
	}
	return max, nil
}

// DeleteCategoryIfUnused tombstones the category unless live products still
// reference it. Count and delete run in the same transaction so a product
// assigned concurrently cannot slip past the guard.
func (r *SQLiteCategoryRepository) DeleteCategoryIfUnused(ctx context.Context, ownerID, categoryID string, now time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin category delete: %w", err)
	}
	defer tx.Rollback()

	var inUse int
	countQuery := `
		SELECT COUNT(1)
		FROM products
		WHERE owner_id = ? AND category_id = ? AND is_deleted = 0;
	`
	if err := tx.QueryRowContext(ctx, countQuery, ownerID, categoryID).Scan(&inUse); err != nil {
		return 0, fmt.Errorf("failed to count products in category: %w", err)
	}
	if inUse > 0 {
		return inUse, nil
	}

	deleteQuery := `
		UPDATE categories
		SET is_deleted = 1, updated_at = ?, synced_at = NULL
		WHERE id = ? AND owner_id = ? AND is_deleted = 0;
	`
	res, err := tx.ExecContext(ctx, deleteQuery, now, categoryID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return 0, apperrors.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit category delete: %w", err)
	}
	return 0, nil
}

// ListUnsyncedCategories returns every row, tombstones included, that still
// awaits a push.
func (r *SQLiteCategoryRepository) ListUnsyncedCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE owner_id = ? AND synced_at IS NULL;
	`
	return r.queryCategories(ctx, query, ownerID)
}

// MarkCategoriesSynced stamps synced_at after remote confirmation, skipping
// rows whose updated_at moved since they were listed.
func (r *SQLiteCategoryRepository) MarkCategoriesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	return markRowsSynced(ctx, r.db, "categories", refs, syncedAt)
}

// UpsertCategories writes pulled remote rows by id, overwriting local state.
func (r *SQLiteCategoryRepository) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	query := `
		INSERT INTO categories (` + categoryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at,
			synced_at = excluded.synced_at,
			is_deleted = excluded.is_deleted;
	`
	for _, c := range categories {
		if _, err := r.db.ExecContext(ctx, query, categoryArgs(c)...); err != nil {
			return fmt.Errorf("failed to upsert category %s: %w", c.ID, err)
		}
	}
	return nil
}

// HasUnsyncedCategories is an indexed existence check.
func (r *SQLiteCategoryRepository) HasUnsyncedCategories(ctx context.Context, ownerID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM categories WHERE owner_id = ? AND synced_at IS NULL);`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check unsynced categories: %w", err)
	}
	return exists, nil
}

func (r *SQLiteCategoryRepository) queryCategories(ctx context.Context, query string, args ...any) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
