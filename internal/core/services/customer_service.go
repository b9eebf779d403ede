package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/dto"
	"github.com/tindahan/tindahan/internal/middleware"
)

// ErrCustomerHasBalance is returned when deleting a customer who still owes.
var ErrCustomerHasBalance = fmt.Errorf("%w: customer has outstanding balance", apperrors.ErrConflict)

type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates the customer service.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
	}

	phone := strings.TrimSpace(req.Phone)
	if phone != "" && !domain.ValidPhone(phone) {
		return nil, fmt.Errorf("%w: phone must look like 09XXXXXXXXX or +639XXXXXXXXX", apperrors.ErrValidation)
	}

	// Names must be unique per owner so the credit ledger never ends up
	// split across lookalike accounts.
	existing, err := s.customerRepo.FindCustomerByName(ctx, ownerID, name)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: customer %q already exists", apperrors.ErrDuplicate, name)
	}

	if phone != "" {
		if err := s.checkPhoneFree(ctx, ownerID, phone, ""); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		Name:       name,
		Phone:      phone,
		Address:    strings.TrimSpace(req.Address),
		TotalUtang: decimal.Zero,
	}
	customer.Init(uuid.NewString(), ownerID, now)

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		logger.Error("Failed to save customer", slog.String("error", err.Error()), slog.String("customer_id", customer.ID))
		return nil, err
	}

	logger.Info("Customer created", slog.String("customer_id", customer.ID))
	return &customer, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, ownerID string, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: customer name is required", apperrors.ErrValidation)
		}
		if !strings.EqualFold(name, customer.Name) {
			existing, err := s.customerRepo.FindCustomerByName(ctx, ownerID, name)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != customer.ID {
				return nil, fmt.Errorf("%w: customer %q already exists", apperrors.ErrDuplicate, name)
			}
		}
		customer.Name = name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		if phone != "" && !domain.ValidPhone(phone) {
			return nil, fmt.Errorf("%w: phone must look like 09XXXXXXXXX or +639XXXXXXXXX", apperrors.ErrValidation)
		}
		if phone != "" && phone != customer.Phone {
			if err := s.checkPhoneFree(ctx, ownerID, phone, customer.ID); err != nil {
				return nil, err
			}
		}
		customer.Phone = phone
	}
	if req.Address != nil {
		customer.Address = strings.TrimSpace(*req.Address)
	}

	customer.Touch(time.Now().UTC())
	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		logger.Error("Failed to update customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return nil, err
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, ownerID string, customerID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
	if err != nil {
		return err
	}
	if customer.TotalUtang.IsPositive() {
		return fmt.Errorf("%w: ₱%s unpaid", ErrCustomerHasBalance, customer.TotalUtang.StringFixed(2))
	}

	customer.MarkDeleted(time.Now().UTC())
	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		logger.Error("Failed to delete customer", slog.String("error", err.Error()), slog.String("customer_id", customerID))
		return err
	}

	logger.Info("Customer deleted", slog.String("customer_id", customerID))
	return nil
}

// checkPhoneFree enforces one customer per phone within the owner's scope,
// mirroring the name uniqueness rule above.
func (s *customerService) checkPhoneFree(ctx context.Context, ownerID, phone, selfID string) error {
	existing, err := s.customerRepo.FindCustomerByPhone(ctx, ownerID, phone)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return fmt.Errorf("%w: phone %s already belongs to %q", apperrors.ErrDuplicate, phone, existing.Name)
	}
	return nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error) {
	return s.customerRepo.FindCustomerByID(ctx, ownerID, customerID)
}

func (s *customerService) ListCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	customers, err := s.customerRepo.ListCustomers(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}
