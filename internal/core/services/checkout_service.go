package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
	"github.com/tindahan/tindahan/internal/utils/money"
)

type checkoutService struct {
	saleRepo     portsrepo.SaleRepositoryFacade
	productRepo  portsrepo.ProductReader
	customerRepo portsrepo.CustomerReader
}

// NewCheckoutService creates the sale/checkout service.
func NewCheckoutService(saleRepo portsrepo.SaleRepositoryFacade, productRepo portsrepo.ProductReader, customerRepo portsrepo.CustomerReader) portssvc.SaleSvcFacade {
	return &checkoutService{saleRepo: saleRepo, productRepo: productRepo, customerRepo: customerRepo}
}

var _ portssvc.SaleSvcFacade = (*checkoutService)(nil)

// Checkout validates the cart, computes totals, and persists the sale with
// its stock decrements, movement audit rows, and optional credit leg as one
// atomic write. Validation failures report the actual numbers so the cashier
// can fix the cart without digging.
func (s *checkoutService) Checkout(ctx context.Context, ownerID string, req dto.CheckoutRequest) (*domain.Sale, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	method := domain.PaymentMethod(req.PaymentMethod)
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", apperrors.ErrValidation)
	}
	if req.Discount.IsNegative() {
		return nil, fmt.Errorf("%w: discount cannot be negative", apperrors.ErrValidation)
	}
	if req.AmountPaid.IsNegative() {
		return nil, fmt.Errorf("%w: amount paid cannot be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	saleID := uuid.NewString()

	items := make([]domain.SaleItem, 0, len(req.Items))
	deltas := make([]portsrepo.StockDelta, 0, len(req.Items))
	movements := make([]domain.InventoryMovement, 0, len(req.Items))
	subtotal := decimal.Zero
	seen := make(map[string]bool, len(req.Items))

	for _, line := range req.Items {
		if line.Qty <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", apperrors.ErrValidation)
		}
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price cannot be negative", apperrors.ErrValidation)
		}
		if seen[line.ProductID] {
			return nil, fmt.Errorf("%w: product %s appears twice in the cart", apperrors.ErrValidation, line.ProductID)
		}
		seen[line.ProductID] = true

		product, err := s.productRepo.FindProductByID(ctx, ownerID, line.ProductID)
		if err != nil {
			return nil, err
		}
		// Friendly pre-check; the repository re-guards inside the
		// transaction, so a concurrent sale still cannot oversell.
		if product.StockQty < line.Qty {
			return nil, fmt.Errorf("%w: only %d of %q in stock, %d requested", apperrors.ErrConflict, product.StockQty, product.Name, line.Qty)
		}

		unitPrice := money.Round2(line.UnitPrice)
		lineTotal := money.Round2(unitPrice.Mul(decimal.NewFromInt(int64(line.Qty))))
		subtotal = subtotal.Add(lineTotal)

		items = append(items, domain.SaleItem{
			ProductID: product.ID,
			Name:      product.Name,
			Qty:       line.Qty,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		deltas = append(deltas, portsrepo.StockDelta{ProductID: product.ID, Qty: line.Qty})

		movement := domain.InventoryMovement{
			ProductID: product.ID,
			SaleID:    saleID,
			Type:      domain.MovementOut,
			Quantity:  line.Qty,
		}
		movement.Init(uuid.NewString(), ownerID, now)
		movements = append(movements, movement)
	}

	subtotal = money.Round2(subtotal)
	discount := money.Round2(req.Discount)
	if discount.GreaterThan(subtotal) {
		return nil, fmt.Errorf("%w: discount ₱%s exceeds subtotal ₱%s", apperrors.ErrValidation, discount.StringFixed(2), subtotal.StringFixed(2))
	}
	total := money.Round2(subtotal.Sub(discount))
	amountPaid := money.Round2(req.AmountPaid)
	change := money.Change(amountPaid, total)

	// The unpaid remainder becomes a credit charge. BalanceAfter is left to
	// the repository, which reads the balance inside the checkout
	// transaction.
	var credit *domain.UtangTransaction
	if amountPaid.LessThan(total) {
		if req.CustomerID == "" {
			return nil, fmt.Errorf("%w: a customer is required when ₱%s of ₱%s is unpaid", apperrors.ErrValidation, total.Sub(amountPaid).StringFixed(2), total.StringFixed(2))
		}
		customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, req.CustomerID)
		if err != nil {
			return nil, err
		}

		txn := domain.UtangTransaction{
			CustomerID: customer.ID,
			SaleID:     saleID,
			Type:       domain.UtangCharge,
			Amount:     money.Round2(total.Sub(amountPaid)),
		}
		txn.Init(uuid.NewString(), ownerID, now)
		credit = &txn
	}

	sale := domain.Sale{
		Items:         items,
		Subtotal:      subtotal,
		Discount:      discount,
		Total:         total,
		AmountPaid:    amountPaid,
		Change:        change,
		PaymentMethod: method,
		CustomerID:    req.CustomerID,
	}
	sale.Init(saleID, ownerID, now)

	if err := s.saleRepo.SaveSale(ctx, sale, deltas, movements, credit); err != nil {
		logger.Error("Checkout failed", slog.String("error", err.Error()), slog.String("sale_id", saleID))
		return nil, err
	}

	logger.Info("Checkout completed",
		slog.String("sale_id", saleID),
		slog.String("total", total.StringFixed(2)),
		slog.String("payment_method", string(method)),
	)
	return &sale, nil
}

func (s *checkoutService) GetSaleByID(ctx context.Context, ownerID string, saleID string) (*domain.Sale, error) {
	return s.saleRepo.FindSaleByID(ctx, ownerID, saleID)
}

func (s *checkoutService) ListSales(ctx context.Context, ownerID string, from time.Time, to time.Time) ([]domain.Sale, error) {
	sales, err := s.saleRepo.ListSales(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	if sales == nil {
		sales = []domain.Sale{}
	}
	return sales, nil
}

// DailySummary aggregates one calendar day's sales for the dashboard.
func (s *checkoutService) DailySummary(ctx context.Context, ownerID string, day time.Time) (*dto.SalesSummaryResponse, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	sales, err := s.saleRepo.ListSales(ctx, ownerID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to build daily summary: %w", err)
	}

	summary := &dto.SalesSummaryResponse{
		Date:          dayStart.Format("2006-01-02"),
		SaleCount:     len(sales),
		GrossTotal:    decimal.Zero,
		DiscountTotal: decimal.Zero,
		ByMethod:      make(map[string]decimal.Decimal),
	}
	for _, sale := range sales {
		summary.GrossTotal = summary.GrossTotal.Add(sale.Total)
		summary.DiscountTotal = summary.DiscountTotal.Add(sale.Discount)
		method := string(sale.PaymentMethod)
		summary.ByMethod[method] = summary.ByMethod[method].Add(sale.Total)
	}
	summary.GrossTotal = money.Round2(summary.GrossTotal)
	summary.DiscountTotal = money.Round2(summary.DiscountTotal)
	return summary, nil
}
