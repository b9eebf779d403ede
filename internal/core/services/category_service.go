package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
)

// ErrCategoryInUse is returned when deleting a category that live products
// still reference.
var ErrCategoryInUse = fmt.Errorf("%w: category has products", apperrors.ErrConflict)

type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
}

// NewCategoryService creates the category service.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{categoryRepo: categoryRepo}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

func (s *categoryService) CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
	}

	// Case-insensitive uniqueness among live categories only; a deleted
	// category's name is free for reuse.
	existing, err := s.categoryRepo.FindCategoryByName(ctx, ownerID, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, name)
	}

	now := time.Now().UTC()
	category := domain.Category{
		Name:  name,
		Color: req.Color,
	}
	category.Init(uuid.NewString(), ownerID, now)

	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	} else {
		max, err := s.categoryRepo.MaxSortOrder(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		category.SortOrder = max + 1
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("category_id", category.ID))
		return nil, err
	}

	logger.Info("Category created", slog.String("category_id", category.ID))
	return &category, nil
}

func (s *categoryService) UpdateCategory(ctx context.Context, ownerID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	category, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name is required", apperrors.ErrValidation)
		}
		if !strings.EqualFold(name, category.Name) {
			existing, err := s.categoryRepo.FindCategoryByName(ctx, ownerID, name)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != category.ID {
				return nil, fmt.Errorf("%w: category %q already exists", apperrors.ErrDuplicate, name)
			}
		}
		category.Name = name
	}
	if req.Color != nil {
		category.Color = *req.Color
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	category.Touch(time.Now().UTC())
	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, err
	}
	return category, nil
}

// DeleteCategory tombstones an empty category. The in-use count and the
// tombstone run inside one repository transaction, so a product assigned to
// the category at the same moment cannot leave it pointing at a deleted row.
func (s *categoryService) DeleteCategory(ctx context.Context, ownerID string, categoryID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	count, err := s.categoryRepo.DeleteCategoryIfUnused(ctx, ownerID, categoryID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: %d products still use this category", ErrCategoryInUse, count)
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID))
	return nil
}

func (s *categoryService) GetCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error) {
	return s.categoryRepo.FindCategoryByID(ctx, ownerID, categoryID)
}

func (s *categoryService) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}
