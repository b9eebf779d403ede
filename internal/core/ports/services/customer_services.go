package services

import (
	"context"

	"github.com/tindahan/tindahan/internal/core/domain"
	"github.com/tindahan/tindahan/internal/dto"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	// GetCustomerByID retrieves a specific customer by its unique identifier.
	GetCustomerByID(ctx context.Context, ownerID string, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves all live customers for the owner.
	ListCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// CreateCustomer persists a new customer.
	CreateCustomer(ctx context.Context, ownerID string, req dto.CreateCustomerRequest) (*domain.Customer, error)

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, ownerID string, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error)

	// DeleteCustomer soft-deletes a customer. Fails when the customer still
	// carries an outstanding balance.
	DeleteCustomer(ctx context.Context, ownerID string, customerID string) error
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
