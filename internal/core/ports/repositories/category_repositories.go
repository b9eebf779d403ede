package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// CategoryReader defines read operations for category data. List operations
// exclude soft-deleted rows; sync support reads through them.
type CategoryReader interface {
	// FindCategoryByID retrieves a non-deleted category scoped to the owner.
	FindCategoryByID(ctx context.Context, ownerID, categoryID string) (*domain.Category, error)

	// FindCategoryByName retrieves a non-deleted category by case-insensitive
	// name match within the owner's scope.
	FindCategoryByName(ctx context.Context, ownerID, name string) (*domain.Category, error)

	// ListCategories returns the owner's non-deleted categories ordered by
	// sortOrder then name.
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)

	// MaxSortOrder returns the highest sortOrder among the owner's
	// non-deleted categories, 0 when there are none.
	MaxSortOrder(ctx context.Context, ownerID string) (int, error)
}

// CategoryWriter defines write operations for category data.
type CategoryWriter interface {
	// SaveCategory persists a new category.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates an existing category (including soft delete).
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategoryIfUnused counts non-deleted products referencing the
	// category and tombstones it only when that count is zero, both inside
	// one transaction. Returns the in-use count; a non-zero count means
	// nothing was deleted.
	DeleteCategoryIfUnused(ctx context.Context, ownerID, categoryID string, now time.Time) (int, error)
}

// CategorySyncSupport defines the sync engine's access to category rows.
type CategorySyncSupport interface {
	// ListUnsyncedCategories returns all rows (deleted included) for the
	// owner with a null syncedAt.
	ListUnsyncedCategories(ctx context.Context, ownerID string) ([]domain.Category, error)

	// MarkCategoriesSynced stamps syncedAt on the given rows after remote
	// confirmation. A row whose updatedAt moved past the ref is skipped so
	// the newer change stays pending.
	MarkCategoriesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error

	// UpsertCategories writes pulled remote rows by id, overwriting local
	// fields including syncedAt.
	UpsertCategories(ctx context.Context, categories []domain.Category) error

	// HasUnsyncedCategories is an indexed existence check.
	HasUnsyncedCategories(ctx context.Context, ownerID string) (bool, error)
}

// CategoryRepositoryFacade combines all category repository interfaces.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
	CategorySyncSupport
}
