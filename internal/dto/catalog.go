package dto

import (
	"github.com/tindahan/tindahan/internal/core/domain"
)

// CatalogEntryRequest is one reference row in a catalog seed payload.
type CatalogEntryRequest struct {
	Barcode      string `json:"barcode" binding:"required"`
	Name         string `json:"name" binding:"required"`
	CategoryName string `json:"categoryName"`
}

// CatalogSeedRequest bulk-loads barcode reference data.
type CatalogSeedRequest struct {
	Entries []CatalogEntryRequest `json:"entries" binding:"required,min=1,dive"`
}

// CatalogEntryResponse is the API representation of a catalog entry.
type CatalogEntryResponse struct {
	Barcode      string `json:"barcode"`
	Name         string `json:"name"`
	CategoryName string `json:"categoryName,omitempty"`
}

// ToCatalogEntryResponse converts a domain catalog entry.
func ToCatalogEntryResponse(e *domain.CatalogEntry) CatalogEntryResponse {
	return CatalogEntryResponse{
		Barcode:      e.Barcode,
		Name:         e.Name,
		CategoryName: e.CategoryName,
	}
}
