package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// CategoryReaderSvc defines read operations for category data
type CategoryReaderSvc interface {
	// GetCategoryByID retrieves a specific category by its unique identifier.
	GetCategoryByID(ctx context.Context, ownerID string, categoryID string) (*domain.Category, error)

	// ListCategories retrieves all live categories for the owner, ordered by sort order.
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
}

// CategoryWriterSvc defines write operations for category data
type CategoryWriterSvc interface {
	// CreateCategory persists a new category.
	CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error)

	// UpdateCategory updates an existing category's details.
	UpdateCategory(ctx context.Context, ownerID string, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory soft-deletes a category. Fails when live products still
	// reference it.
	DeleteCategory(ctx context.Context, ownerID string, categoryID string) error
}

// CategorySvcFacade combines all category-related service interfaces
type CategorySvcFacade interface {
	CategoryReaderSvc
	CategoryWriterSvc
}
