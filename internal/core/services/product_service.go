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
	"github.com/tindahan/tindahan/internal/utils/money"
)

type productService struct {
	productRepo  portsrepo.ProductRepositoryFacade
	categoryRepo portsrepo.CategoryReader
}

// NewProductService creates the product service.
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, categoryRepo portsrepo.CategoryReader) portssvc.ProductSvcFacade {
	return &productService{productRepo: productRepo, categoryRepo: categoryRepo}
}

var _ portssvc.ProductSvcFacade = (*productService)(nil)

func (s *productService) CreateProduct(ctx context.Context, ownerID string, req dto.CreateProductRequest) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
	}
	if !req.SellingPrice.IsPositive() {
		return nil, fmt.Errorf("%w: selling price must be greater than zero", apperrors.ErrValidation)
	}

	if _, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, req.CategoryID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, req.CategoryID)
		}
		return nil, err
	}

	barcode := strings.TrimSpace(req.Barcode)
	if barcode != "" {
		if err := s.checkBarcodeFree(ctx, ownerID, barcode, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	product := domain.Product{
		Name:              name,
		Barcode:           barcode,
		CategoryID:        req.CategoryID,
		SellingPrice:      money.Round2(req.SellingPrice),
		StockQty:          req.StockQty,
		LowStockThreshold: req.LowStockThreshold,
	}
	product.Init(uuid.NewString(), ownerID, now)

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		logger.Error("Failed to save product", slog.String("error", err.Error()), slog.String("product_id", product.ID))
		return nil, err
	}

	logger.Info("Product created", slog.String("product_id", product.ID))
	return &product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, ownerID string, productID string, req dto.UpdateProductRequest) (*domain.Product, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, ownerID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: product name is required", apperrors.ErrValidation)
		}
		product.Name = name
	}
	if req.Barcode != nil {
		barcode := strings.TrimSpace(*req.Barcode)
		if barcode != "" && barcode != product.Barcode {
			if err := s.checkBarcodeFree(ctx, ownerID, barcode, product.ID); err != nil {
				return nil, err
			}
		}
		product.Barcode = barcode
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindCategoryByID(ctx, ownerID, *req.CategoryID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %s does not exist", apperrors.ErrValidation, *req.CategoryID)
			}
			return nil, err
		}
		product.CategoryID = *req.CategoryID
	}
	if req.SellingPrice != nil {
		if !req.SellingPrice.IsPositive() {
			return nil, fmt.Errorf("%w: selling price must be greater than zero", apperrors.ErrValidation)
		}
		product.SellingPrice = money.Round2(*req.SellingPrice)
	}
	if req.LowStockThreshold != nil {
		if *req.LowStockThreshold < 0 {
			return nil, fmt.Errorf("%w: low stock threshold cannot be negative", apperrors.ErrValidation)
		}
		product.LowStockThreshold = *req.LowStockThreshold
	}

	product.Touch(time.Now().UTC())
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to update product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return nil, err
	}
	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, ownerID string, productID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	product, err := s.productRepo.FindProductByID(ctx, ownerID, productID)
	if err != nil {
		return err
	}

	product.MarkDeleted(time.Now().UTC())
	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		logger.Error("Failed to delete product", slog.String("error", err.Error()), slog.String("product_id", productID))
		return err
	}

	logger.Info("Product deleted", slog.String("product_id", productID))
	return nil
}

func (s *productService) GetProductByID(ctx context.Context, ownerID string, productID string) (*domain.Product, error) {
	return s.productRepo.FindProductByID(ctx, ownerID, productID)
}

func (s *productService) GetProductByBarcode(ctx context.Context, ownerID string, barcode string) (*domain.Product, error) {
	return s.productRepo.FindProductByBarcode(ctx, ownerID, barcode)
}

func (s *productService) ListProducts(ctx context.Context, ownerID string, categoryID string) ([]domain.Product, error) {
	products, err := s.productRepo.ListProducts(ctx, ownerID, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *productService) ListLowStockProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	products, err := s.productRepo.ListLowStockProducts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

func (s *productService) checkBarcodeFree(ctx context.Context, ownerID, barcode, selfID string) error {
	existing, err := s.productRepo.FindProductByBarcode(ctx, ownerID, barcode)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: barcode %s already belongs to %q", apperrors.ErrDuplicate, barcode, existing.Name)
	}
	return nil
}
