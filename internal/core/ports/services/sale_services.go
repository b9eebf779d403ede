package services

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// CheckoutSvc processes sales.
type CheckoutSvc interface {
	// Checkout validates the cart, computes totals, and persists the sale
	// together with its stock decrements, movement records, and credit ledger
	// entry as one atomic unit. Nothing is written when any step fails.
	Checkout(ctx context.Context, ownerID string, req dto.CheckoutRequest) (*domain.Sale, error)
}

// SaleReaderSvc defines read operations for sale data
type SaleReaderSvc interface {
	// GetSaleByID retrieves a specific sale by its unique identifier.
	GetSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error)

	// ListSales retrieves sales created within [from, to).
	ListSales(ctx context.Context, ownerID string, from time.Time, to time.Time) ([]domain.Sale, error)

	// DailySummary aggregates one calendar day's sales.
	DailySummary(ctx context.Context, ownerID string, day time.Time) (*dto.SalesSummaryResponse, error)
}

// SaleSvcFacade combines checkout and sale read interfaces
type SaleSvcFacade interface {
	CheckoutSvc
	SaleReaderSvc
}
