package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// CreateProductRequest defines the payload for creating a product.
type CreateProductRequest struct {
	Name              string          `json:"name" binding:"required"`
	Barcode           string          `json:"barcode"`
	CategoryID        string          `json:"categoryId" binding:"required"`
	SellingPrice      decimal.Decimal `json:"sellingPrice" binding:"required"`
	StockQty          int             `json:"stockQty" binding:"gte=0"`
	LowStockThreshold int             `json:"lowStockThreshold" binding:"gte=0"`
}

// UpdateProductRequest defines the payload for updating a product.
// Nil fields are left unchanged. Stock is not updatable here; stock changes
// go through inventory movements so the audit log stays complete.
type UpdateProductRequest struct {
	Name              *string          `json:"name"`
	Barcode           *string          `json:"barcode"`
	CategoryID        *string          `json:"categoryId"`
	SellingPrice      *decimal.Decimal `json:"sellingPrice"`
	LowStockThreshold *int             `json:"lowStockThreshold"`
}

// ProductResponse is the API representation of a product.
type ProductResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode,omitempty"`
	CategoryID        string          `json:"categoryId"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	StockQty          int             `json:"stockQty"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	LowStock          bool            `json:"lowStock"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	SyncedAt          *time.Time      `json:"syncedAt,omitempty"`
}

// ToProductResponse converts a domain product to its API representation.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Barcode:           p.Barcode,
		CategoryID:        p.CategoryID,
		SellingPrice:      p.SellingPrice,
		StockQty:          p.StockQty,
		LowStockThreshold: p.LowStockThreshold,
		LowStock:          p.IsLowStock(),
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
		SyncedAt:          p.SyncedAt,
	}
}

// ToProductResponses converts a slice of domain products.
func ToProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
