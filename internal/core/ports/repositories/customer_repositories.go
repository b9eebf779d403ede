package repositories

import (
	"context"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
)

// CustomerReader defines read operations for customer data.
type CustomerReader interface {
	// FindCustomerByID retrieves a non-deleted customer scoped to the owner.
	FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error)

	// FindCustomerByName retrieves a non-deleted customer by case-insensitive
	// name match within the owner's scope.
	FindCustomerByName(ctx context.Context, ownerID, name string) (*domain.Customer, error)

	// FindCustomerByPhone retrieves a non-deleted customer by phone within
	// the owner's scope.
	FindCustomerByPhone(ctx context.Context, ownerID, phone string) (*domain.Customer, error)

	// ListCustomers returns the owner's non-deleted customers ordered by name.
	ListCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data. TotalUtang is
// mutated only through the utang and sale repositories.
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer (including soft delete).
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
}

// CustomerSyncSupport defines the sync engine's access to customer rows.
type CustomerSyncSupport interface {
	ListUnsyncedCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error)
	MarkCustomersSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error
	UpsertCustomers(ctx context.Context, customers []domain.Customer) error
	HasUnsyncedCustomers(ctx context.Context, ownerID string) (bool, error)
}

// CustomerRepositoryFacade combines all customer repository interfaces.
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	CustomerSyncSupport
}
