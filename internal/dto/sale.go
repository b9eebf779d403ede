package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// CheckoutItemRequest is one line of a checkout.
type CheckoutItemRequest struct {
	ProductID string          `json:"productId" binding:"required"`
	Qty       int             `json:"qty" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" binding:"required"`
}

// CheckoutRequest defines the payload for processing a sale.
// CustomerID is required when PaymentMethod is credit and the sale is not
// fully paid.
type CheckoutRequest struct {
	Items         []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal       `json:"discount"`
	AmountPaid    decimal.Decimal       `json:"amountPaid"`
	PaymentMethod string                `json:"paymentMethod" binding:"required"`
	CustomerID    string                `json:"customerId"`
}

// SaleItemResponse is the API representation of a sale line item.
type SaleItemResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// SaleResponse is the API representation of a sale.
type SaleResponse struct {
	ID            string             `json:"id"`
	Items         []SaleItemResponse `json:"items"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	AmountPaid    decimal.Decimal    `json:"amountPaid"`
	Change        decimal.Decimal    `json:"change"`
	PaymentMethod string             `json:"paymentMethod"`
	CustomerID    string             `json:"customerId,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	SyncedAt      *time.Time         `json:"syncedAt,omitempty"`
}

// SalesSummaryResponse aggregates a day's sales for the dashboard.
type SalesSummaryResponse struct {
	Date          string                     `json:"date"`
	SaleCount     int                        `json:"saleCount"`
	GrossTotal    decimal.Decimal            `json:"grossTotal"`
	DiscountTotal decimal.Decimal            `json:"discountTotal"`
	ByMethod      map[string]decimal.Decimal `json:"byMethod"`
}

// ToSaleResponse converts a domain sale to its API representation.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice,
			LineTotal: it.LineTotal,
		}
	}
	return SaleResponse{
		ID:            s.ID,
		Items:         items,
		Subtotal:      s.Subtotal,
		Discount:      s.Discount,
		Total:         s.Total,
		AmountPaid:    s.AmountPaid,
		Change:        s.Change,
		PaymentMethod: string(s.PaymentMethod),
		CustomerID:    s.CustomerID,
		CreatedAt:     s.CreatedAt,
		SyncedAt:      s.SyncedAt,
	}
}

// ToSaleResponses converts a slice of domain sales.
func ToSaleResponses(sales []domain.Sale) []SaleResponse {
	out := make([]SaleResponse, len(sales))
	for i := range sales {
		out[i] = ToSaleResponse(&sales[i])
	}
	return out
}
