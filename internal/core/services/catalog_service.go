package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
)

type catalogService struct {
	catalogRepo portsrepo.CatalogRepository
}

// NewCatalogService creates the barcode reference catalog service.
func NewCatalogService(catalogRepo portsrepo.CatalogRepository) portssvc.CatalogSvcFacade {
	return &catalogService{catalogRepo: catalogRepo}
}

var _ portssvc.CatalogSvcFacade = (*catalogService)(nil)

func (s *catalogService) Lookup(ctx context.Context, barcode string) (*domain.CatalogEntry, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", apperrors.ErrValidation)
	}
	return s.catalogRepo.FindCatalogEntry(ctx, barcode)
}

func (s *catalogService) Seed(ctx context.Context, req dto.CatalogSeedRequest) (int, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	entries := make([]domain.CatalogEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		barcode := strings.TrimSpace(e.Barcode)
		name := strings.TrimSpace(e.Name)
		if barcode == "" || name == "" {
			return 0, fmt.Errorf("%w: catalog entries need a barcode and a name", apperrors.ErrValidation)
		}
		entries = append(entries, domain.CatalogEntry{
			Barcode:      barcode,
			Name:         name,
			CategoryName: strings.TrimSpace(e.CategoryName),
			CreatedAt:    now,
		})
	}

	count, err := s.catalogRepo.SeedCatalog(ctx, entries)
	if err != nil {
		logger.Error("Failed to seed catalog", slog.String("error", err.Error()))
		return 0, err
	}

	logger.Info("Catalog seeded", slog.Int("entries", count))
	return count, nil
}

func (s *catalogService) Count(ctx context.Context) (int, error) {
	return s.catalogRepo.CountCatalogEntries(ctx)
}

func (s *catalogService) Clear(ctx context.Context) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.catalogRepo.ClearCatalog(ctx); err != nil {
		logger.Error("Failed to clear catalog", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Catalog cleared")
	return nil
}
