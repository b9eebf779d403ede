package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
)

// --- Mock CategoryRepository ---

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByID(ctx context.Context, ownerID, categoryID string) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, ownerID, name string) (*domain.Category, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) MaxSortOrder(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) ListUnsyncedCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

func (m *MockCategoryRepository) DeleteCategoryIfUnused(ctx context.Context, ownerID, categoryID string, now time.Time) (int, error) {
	args := m.Called(ctx, ownerID, categoryID, now)
	return args.Int(0), args.Error(1)
}

func (m *MockCategoryRepository) MarkCategoriesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpsertCategories(ctx context.Context, categories []domain.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryRepository) HasUnsyncedCategories(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.CategoryRepositoryFacade = (*MockCategoryRepository)(nil)

// --- Mock ProductRepository ---

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindProductByID(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	args := m.Called(ctx, ownerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindProductByBarcode(ctx context.Context, ownerID, barcode string) (*domain.Product, error) {
	args := m.Called(ctx, ownerID, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListProducts(ctx context.Context, ownerID, categoryID string) ([]domain.Product, error) {
	args := m.Called(ctx, ownerID, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStockProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ListUnsyncedProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) MarkProductsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockProductRepository) UpsertProducts(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) HasUnsyncedProducts(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.ProductRepositoryFacade = (*MockProductRepository)(nil)

// --- Mock CustomerRepository ---

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindCustomerByID(ctx context.Context, ownerID, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByName(ctx context.Context, ownerID, name string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindCustomerByPhone(ctx context.Context, ownerID, phone string) (*domain.Customer, error) {
	args := m.Called(ctx, ownerID, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) ListCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	args := m.Called(ctx, customer)
	return args.Error(0)
}

func (m *MockCustomerRepository) ListUnsyncedCustomers(ctx context.Context, ownerID string) ([]domain.Customer, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

func (m *MockCustomerRepository) MarkCustomersSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockCustomerRepository) UpsertCustomers(ctx context.Context, customers []domain.Customer) error {
	args := m.Called(ctx, customers)
	return args.Error(0)
}

func (m *MockCustomerRepository) HasUnsyncedCustomers(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.CustomerRepositoryFacade = (*MockCustomerRepository)(nil)

// --- Mock SaleRepository ---

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindSaleByID(ctx context.Context, ownerID, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, ownerID, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListSales(ctx context.Context, ownerID string, from, to time.Time) ([]domain.Sale, error) {
	args := m.Called(ctx, ownerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) SaveSale(ctx context.Context, sale domain.Sale, deltas []portsrepo.StockDelta, movements []domain.InventoryMovement, credit *domain.UtangTransaction) error {
	args := m.Called(ctx, sale, deltas, movements, credit)
	return args.Error(0)
}

func (m *MockSaleRepository) ListUnsyncedSales(ctx context.Context, ownerID string) ([]domain.Sale, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Sale), args.Error(1)
}

func (m *MockSaleRepository) MarkSalesSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockSaleRepository) UpsertSales(ctx context.Context, sales []domain.Sale) error {
	args := m.Called(ctx, sales)
	return args.Error(0)
}

func (m *MockSaleRepository) HasUnsyncedSales(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.SaleRepositoryFacade = (*MockSaleRepository)(nil)

// --- Mock MovementRepository ---

type MockMovementRepository struct {
	mock.Mock
}

func (m *MockMovementRepository) ListMovementsByProduct(ctx context.Context, ownerID, productID string) ([]domain.InventoryMovement, error) {
	args := m.Called(ctx, ownerID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryMovement), args.Error(1)
}

func (m *MockMovementRepository) ApplyMovement(ctx context.Context, movement domain.InventoryMovement) (int, error) {
	args := m.Called(ctx, movement)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementRepository) ListUnsyncedMovements(ctx context.Context, ownerID string) ([]domain.InventoryMovement, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryMovement), args.Error(1)
}

func (m *MockMovementRepository) MarkMovementsSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockMovementRepository) UpsertMovements(ctx context.Context, movements []domain.InventoryMovement) error {
	args := m.Called(ctx, movements)
	return args.Error(0)
}

func (m *MockMovementRepository) HasUnsyncedMovements(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.MovementRepositoryFacade = (*MockMovementRepository)(nil)

// --- Mock UtangRepository ---

type MockUtangRepository struct {
	mock.Mock
}

func (m *MockUtangRepository) ListUtangByCustomer(ctx context.Context, ownerID, customerID string) ([]domain.UtangTransaction, error) {
	args := m.Called(ctx, ownerID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UtangTransaction), args.Error(1)
}

func (m *MockUtangRepository) SaveUtangTransaction(ctx context.Context, txn domain.UtangTransaction) (decimal.Decimal, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockUtangRepository) ListUnsyncedUtang(ctx context.Context, ownerID string) ([]domain.UtangTransaction, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UtangTransaction), args.Error(1)
}

func (m *MockUtangRepository) MarkUtangSynced(ctx context.Context, refs []domain.SyncRef, syncedAt time.Time) error {
	args := m.Called(ctx, refs, syncedAt)
	return args.Error(0)
}

func (m *MockUtangRepository) UpsertUtang(ctx context.Context, txns []domain.UtangTransaction) error {
	args := m.Called(ctx, txns)
	return args.Error(0)
}

func (m *MockUtangRepository) HasUnsyncedUtang(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

var _ portsrepo.UtangRepositoryFacade = (*MockUtangRepository)(nil)

// --- Mock CredentialRepository ---

type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) SaveCredentialBlob(ctx context.Context, ownerID string, blob []byte) error {
	args := m.Called(ctx, ownerID, blob)
	return args.Error(0)
}

func (m *MockCredentialRepository) FindCredentialBlob(ctx context.Context) (string, []byte, error) {
	args := m.Called(ctx)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).([]byte), args.Error(2)
}

func (m *MockCredentialRepository) DeleteCredentialBlob(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portsrepo.CredentialRepository = (*MockCredentialRepository)(nil)

// --- Mock AuthProvider ---

type MockAuthProvider struct {
	mock.Mock
}

func (m *MockAuthProvider) Login(ctx context.Context, phone, pin string) (*domain.CachedCredential, error) {
	args := m.Called(ctx, phone, pin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedCredential), args.Error(1)
}

func (m *MockAuthProvider) Refresh(ctx context.Context, refreshToken string) (string, time.Time, string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Get(1).(time.Time), args.String(2), args.Error(3)
}

var _ portsrepo.AuthProvider = (*MockAuthProvider)(nil)

// --- Mock StoreRepository ---

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) SaveStore(ctx context.Context, store domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) FindStoreByID(ctx context.Context, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreRepository) FindStoreByPhone(ctx context.Context, phone string) (*domain.Store, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

var _ portsrepo.StoreRepository = (*MockStoreRepository)(nil)

// --- Mock MaintenanceRepository ---

type MockMaintenanceRepository struct {
	mock.Mock
}

func (m *MockMaintenanceRepository) PurgeOwnerData(ctx context.Context, ownerID string) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *MockMaintenanceRepository) LastSyncedAt(ctx context.Context, ownerID string) (*time.Time, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

var _ portsrepo.MaintenanceRepository = (*MockMaintenanceRepository)(nil)

// --- Mock SessionSvcFacade ---

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) ValidateOfflineAccess(ctx context.Context, now time.Time) (domain.CredentialState, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(domain.CredentialState), args.Error(1)
}

func (m *MockSessionService) RefreshIfNeeded(ctx context.Context, now time.Time) error {
	args := m.Called(ctx, now)
	return args.Error(0)
}

func (m *MockSessionService) CacheCredential(ctx context.Context, cred *domain.CachedCredential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *MockSessionService) CachedCredential(ctx context.Context) (*domain.CachedCredential, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CachedCredential), args.Error(1)
}

func (m *MockSessionService) Purge(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock SyncSvcFacade ---

type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) Push(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncService) Pull(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncService) FullSync(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncService) Restore(ctx context.Context, ownerID string) (*domain.SyncResult, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

func (m *MockSyncService) HasUnsyncedChanges(ctx context.Context, ownerID string) (bool, error) {
	args := m.Called(ctx, ownerID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSyncService) Status(ctx context.Context, ownerID string) (*domain.SyncStatus, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncStatus), args.Error(1)
}

var _ portssvc.SyncSvcFacade = (*MockSyncService)(nil)
