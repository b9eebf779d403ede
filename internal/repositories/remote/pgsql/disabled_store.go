package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
)

// ErrRemoteDisabled is returned by every DisabledRemoteStore method. The app
// runs fully offline when no remote URL is configured; sync endpoints report
// this instead of panicking on a nil store.
var ErrRemoteDisabled = errors.New("remote sync is not configured")

type disabledRemoteStore struct{}

// NewDisabledRemoteStore returns a RemoteStore whose every call fails with
// ErrRemoteDisabled.
func NewDisabledRemoteStore() portsrepo.RemoteStore {
	return disabledRemoteStore{}
}

var _ portsrepo.RemoteStore = disabledRemoteStore{}

func (disabledRemoteStore) UpsertCategories(context.Context, []domain.Category) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchCategories(context.Context, string, *time.Time) ([]domain.Category, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) UpsertProducts(context.Context, []domain.Product) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchProducts(context.Context, string, *time.Time) ([]domain.Product, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) UpsertCustomers(context.Context, []domain.Customer) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchCustomers(context.Context, string, *time.Time) ([]domain.Customer, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) UpsertSales(context.Context, []domain.Sale) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchSales(context.Context, string, *time.Time) ([]domain.Sale, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) UpsertMovements(context.Context, []domain.InventoryMovement) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchMovements(context.Context, string, *time.Time) ([]domain.InventoryMovement, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) UpsertUtang(context.Context, []domain.UtangTransaction) error {
	return ErrRemoteDisabled
}

func (disabledRemoteStore) FetchUtang(context.Context, string, *time.Time) ([]domain.UtangTransaction, error) {
	return nil, ErrRemoteDisabled
}

func (disabledRemoteStore) Ping(context.Context) error {
	return ErrRemoteDisabled
}
