package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// CatalogSvcFacade serves the shared barcode reference catalog. Catalog data
// is device-local seed data and never participates in sync.
type CatalogSvcFacade interface {
	// Lookup resolves a barcode to its reference entry, or ErrNotFound.
	Lookup(ctx context.Context, barcode string) (*domain.CatalogEntry, error)

	// Seed bulk-loads reference entries and returns how many were written.
	Seed(ctx context.Context, req dto.CatalogSeedRequest) (int, error)

	// Count returns the number of seeded entries.
	Count(ctx context.Context) (int, error)

	// Clear removes all reference entries. Local maintenance only; logout
	// never calls this.
	Clear(ctx context.Context) error
}
