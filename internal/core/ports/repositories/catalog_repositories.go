package repositories

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// CatalogRepository manages the local-only barcode reference table. It has
// no sync support on purpose: catalog rows are owner-less and never leave
// the device (see the catalog isolation invariant).
type CatalogRepository interface {
	// FindCatalogEntry looks up a barcode, nil apperrors.ErrNotFound when absent.
	FindCatalogEntry(ctx context.Context, barcode string) (*domain.CatalogEntry, error)

	// SeedCatalog bulk-upserts reference entries by barcode.
	SeedCatalog(ctx context.Context, entries []domain.CatalogEntry) (int, error)

	// CountCatalogEntries returns the number of reference rows.
	CountCatalogEntries(ctx context.Context) (int, error)

	// ClearCatalog removes all reference rows. Local maintenance only;
	// logout does not call this.
	ClearCatalog(ctx context.Context) error
}
