package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// ProductReaderSvc defines read operations for product data
type ProductReaderSvc interface {
	// GetProductByID retrieves a specific product by its unique identifier.
	GetProductByID(ctx context.Context, ownerID string, productID string) (*domain.Product, error)

	// GetProductByBarcode retrieves a live product by barcode.
	GetProductByBarcode(ctx context.Context, ownerID string, barcode string) (*domain.Product, error)

	// ListProducts retrieves live products, optionally filtered by category.
	ListProducts(ctx context.Context, ownerID string, categoryID string) ([]domain.Product, error)

	// ListLowStockProducts retrieves live products at or below their low stock threshold.
	ListLowStockProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
}

// ProductWriterSvc defines write operations for product data
type ProductWriterSvc interface {
	// CreateProduct persists a new product.
	CreateProduct(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*domain.Product, error)

	// UpdateProduct updates an existing product's details. Stock quantity is
	// not touched here; use inventory movements instead.
	UpdateProduct(ctx context.Context, ownerID string, productID string, req dto.UpdateProductRequest) (*domain.Product, error)

	// DeleteProduct soft-deletes a product.
	DeleteProduct(ctx context.Context, ownerID string, productID string) error
}

// ProductSvcFacade combines all product-related service interfaces
type ProductSvcFacade interface {
	ProductReaderSvc
	ProductWriterSvc
}
