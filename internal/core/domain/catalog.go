package domain

import "time"

// CatalogEntry is global, owner-less reference data used to pre-fill product
// creation from a barcode scan. It deliberately carries none of the Syncable
// header: catalog rows never sync, never soft-delete, and survive logout.
type CatalogEntry struct {
	Barcode      string    `json:"barcode"`
	Name         string    `json:"name"`
	CategoryName string    `json:"categoryName,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}
