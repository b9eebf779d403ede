package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// UtangSvcFacade manages the customer credit ledger.
type UtangSvcFacade interface {
	// RecordPayment records a payment against a customer's balance. The
	// payment may not exceed the outstanding balance.
	RecordPayment(ctx context.Context, ownerID string, req dto.UtangPaymentRequest) (*domain.UtangTransaction, error)

	// RecordCharge records a manual charge against a customer. Notes are
	// required and the amount is capped.
	RecordCharge(ctx context.Context, ownerID string, req dto.UtangChargeRequest) (*domain.UtangTransaction, error)

	// ListTransactionsByCustomer retrieves a customer's ledger, newest first.
	ListTransactionsByCustomer(ctx context.Context, ownerID string, customerID string) ([]domain.UtangTransaction, error)
}
