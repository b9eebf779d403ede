package services

import (
	"context"
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

type utangService struct {
	utangRepo    portsrepo.UtangRepositoryFacade
	customerRepo portsrepo.CustomerReader
}

// NewUtangService creates the credit ledger service.
func NewUtangService(utangRepo portsrepo.UtangRepositoryFacade, customerRepo portsrepo.CustomerReader) portssvc.UtangSvcFacade {
	return &utangService{utangRepo: utangRepo, customerRepo: customerRepo}
}

var _ portssvc.UtangSvcFacade = (*utangService)(nil)

// RecordPayment records a payment against the customer's balance. Paying
// more than is owed is rejected with the actual numbers; the balance can
// reach exactly zero but never go below it.
func (s *utangService) RecordPayment(ctx context.Context, ownerID string, req dto.UtangPaymentRequest) (*domain.UtangTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := money.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}

	// Friendly pre-check against the last seen balance; the repository
	// re-reads the balance inside its transaction and is the real guard.
	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(customer.TotalUtang) {
		return nil, fmt.Errorf("%w: payment ₱%s exceeds balance ₱%s", apperrors.ErrValidation, amount.StringFixed(2), customer.TotalUtang.StringFixed(2))
	}

	now := time.Now().UTC()
	txn := domain.UtangTransaction{
		CustomerID: customer.ID,
		Type:       domain.UtangPayment,
		Amount:     amount,
		Notes:      strings.TrimSpace(req.Notes),
	}
	txn.Init(uuid.NewString(), ownerID, now)

	balanceAfter, err := s.utangRepo.SaveUtangTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to record payment", slog.String("error", err.Error()), slog.String("customer_id", customer.ID))
		return nil, err
	}
	txn.BalanceAfter = balanceAfter

	logger.Info("Payment recorded",
		slog.String("customer_id", customer.ID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance_after", balanceAfter.StringFixed(2)),
	)
	return &txn, nil
}

// RecordCharge records a manual charge. Notes are mandatory and the amount
// is capped so a mistyped charge cannot bury a customer.
func (s *utangService) RecordCharge(ctx context.Context, ownerID string, req dto.UtangChargeRequest) (*domain.UtangTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	amount := money.Round2(req.Amount)
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: charge amount must be positive", apperrors.ErrValidation)
	}
	if amount.GreaterThan(money.ManualChargeCeiling) {
		return nil, fmt.Errorf("%w: charge ₱%s exceeds the ₱%s limit", apperrors.ErrValidation, amount.StringFixed(2), money.ManualChargeCeiling.StringFixed(2))
	}
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, fmt.Errorf("%w: notes are required for a manual charge", apperrors.ErrValidation)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	txn := domain.UtangTransaction{
		CustomerID: customer.ID,
		Type:       domain.UtangCharge,
		Amount:     amount,
		Notes:      notes,
	}
	txn.Init(uuid.NewString(), ownerID, now)

	balanceAfter, err := s.utangRepo.SaveUtangTransaction(ctx, txn)
	if err != nil {
		logger.Error("Failed to record charge", slog.String("error", err.Error()), slog.String("customer_id", customer.ID))
		return nil, err
	}
	txn.BalanceAfter = balanceAfter

	logger.Info("Charge recorded",
		slog.String("customer_id", customer.ID),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance_after", balanceAfter.StringFixed(2)),
	)
	return &txn, nil
}

func (s *utangService) ListTransactionsByCustomer(ctx context.Context, ownerID string, customerID string) ([]domain.UtangTransaction, error) {
	if _, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID); err != nil {
		return nil, err
	}
	txns, err := s.utangRepo.ListUtangByCustomer(ctx, ownerID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	if txns == nil {
		txns = []domain.UtangTransaction{}
	}
	return txns, nil
}
