package domain

import "github.com/shopspring/decimal"

// Product is a sellable item. Barcode is optional but unique per owner among
// non-deleted products. StockQty never goes negative; decrements happen only
// through checkout and inventory movements.
type Product struct {
	Syncable
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode,omitempty"`
	CategoryID        string          `json:"categoryId"`
	SellingPrice      decimal.Decimal `json:"sellingPrice"`
	StockQty          int             `json:"stockQty"`
	LowStockThreshold int             `json:"lowStockThreshold"`
}

// IsLowStock reports whether the product is at or below its restock level.
func (p *Product) IsLowStock() bool {
	return p.StockQty <= p.LowStockThreshold
}
