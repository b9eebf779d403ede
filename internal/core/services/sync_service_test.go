package services_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	portssvc "github.com/tindahan/tindahan/internal/core/ports/services"
	"github.com/tindahan/tindahan/internal/core/services"
	"github.com/tindahan/tindahan/internal/repositories/database/sqlite"
)

// fakeRemoteStore keeps pushed rows in memory and serves pulls from whatever
// the test staged. A non-nil failWith makes every upsert fail, which is how
// the partial-push tests simulate a dead connection. onUpsert, when set, runs
// while an upsert is in flight so tests can interleave local writes with a
// running push.
type fakeRemoteStore struct {
	categories []domain.Category
	products   []domain.Product
	customers  []domain.Customer
	sales      []domain.Sale
	movements  []domain.InventoryMovement
	utang      []domain.UtangTransaction

	upsertCalls int
	failWith    error
	onUpsert    func()
}

func (f *fakeRemoteStore) confirm() error {
	f.upsertCalls++
	if f.onUpsert != nil {
		f.onUpsert()
	}
	return f.failWith
}

func (f *fakeRemoteStore) UpsertCategories(_ context.Context, rows []domain.Category) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.categories = append(f.categories, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchCategories(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Category, error) {
	var out []domain.Category
	for _, r := range f.categories {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) UpsertProducts(_ context.Context, rows []domain.Product) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.products = append(f.products, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchProducts(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Product, error) {
	var out []domain.Product
	for _, r := range f.products {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) UpsertCustomers(_ context.Context, rows []domain.Customer) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.customers = append(f.customers, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchCustomers(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Customer, error) {
	var out []domain.Customer
	for _, r := range f.customers {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) UpsertSales(_ context.Context, rows []domain.Sale) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.sales = append(f.sales, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchSales(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.Sale, error) {
	var out []domain.Sale
	for _, r := range f.sales {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) UpsertMovements(_ context.Context, rows []domain.InventoryMovement) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.movements = append(f.movements, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchMovements(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.InventoryMovement, error) {
	var out []domain.InventoryMovement
	for _, r := range f.movements {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) UpsertUtang(_ context.Context, rows []domain.UtangTransaction) error {
	if err := f.confirm(); err != nil {
		return err
	}
	f.utang = append(f.utang, rows...)
	return nil
}

func (f *fakeRemoteStore) FetchUtang(_ context.Context, ownerID string, updatedAfter *time.Time) ([]domain.UtangTransaction, error) {
	var out []domain.UtangTransaction
	for _, r := range f.utang {
		if r.OwnerID == ownerID && (updatedAfter == nil || r.UpdatedAt.After(*updatedAfter)) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRemoteStore) Ping(_ context.Context) error { return nil }

var _ portsrepo.RemoteStore = (*fakeRemoteStore)(nil)

type SyncServiceTestSuite struct {
	suite.Suite
	db      *sql.DB
	repos   portsrepo.RepositoryProvider
	remote  *fakeRemoteStore
	engine  portssvc.SyncSvcFacade
	ownerID string
}

func (suite *SyncServiceTestSuite) SetupTest() {
	db, err := sql.Open("sqlite", ":memory:")
	suite.Require().NoError(err)
	db.SetMaxOpenConns(1)
	suite.Require().NoError(sqlite.Migrate(context.Background(), db))

	suite.db = db
	suite.repos = sqlite.NewRepositoryProvider(db)
	suite.remote = &fakeRemoteStore{}
	suite.engine = services.NewSyncService(suite.repos, suite.remote)
	suite.ownerID = uuid.NewString()
}

func (suite *SyncServiceTestSuite) TearDownTest() {
	_ = suite.db.Close()
}

func (suite *SyncServiceTestSuite) seedCategory(name string) domain.Category {
	c := domain.Category{Name: name, SortOrder: 1}
	c.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.Require().NoError(suite.repos.CategoryRepo.SaveCategory(context.Background(), c))
	return c
}

func (suite *SyncServiceTestSuite) seedProduct(name string, categoryID string) domain.Product {
	p := domain.Product{
		Name:         name,
		CategoryID:   categoryID,
		SellingPrice: decimal.RequireFromString("25.00"),
		StockQty:     10,
	}
	p.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.Require().NoError(suite.repos.ProductRepo.SaveProduct(context.Background(), p))
	return p
}

func (suite *SyncServiceTestSuite) TestPush_MarksRowsSynced() {
	ctx := context.Background()
	category := suite.seedCategory("Beverages")
	suite.seedProduct("Softdrinks Litro", category.ID)

	pending, err := suite.engine.HasUnsyncedChanges(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(pending)

	result, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(2, result.PushedCount)
	suite.Len(suite.remote.categories, 1)
	suite.Len(suite.remote.products, 1)

	pending, err = suite.engine.HasUnsyncedChanges(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.False(pending)

	// Nothing left to push on the second run.
	result, err = suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(0, result.PushedCount)
	suite.Len(suite.remote.categories, 1)
}

func (suite *SyncServiceTestSuite) TestPush_TombstonesAreUploaded() {
	ctx := context.Background()
	category := suite.seedCategory("Seasonal")

	now := time.Now().UTC()
	category.MarkDeleted(now)
	suite.Require().NoError(suite.repos.CategoryRepo.UpdateCategory(ctx, category))

	result, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PushedCount)
	suite.Require().Len(suite.remote.categories, 1)
	suite.True(suite.remote.categories[0].IsDeleted)
}

func (suite *SyncServiceTestSuite) TestPush_RemoteFailureKeepsRowsPending() {
	ctx := context.Background()
	suite.seedCategory("Canned Goods")
	suite.remote.failWith = errors.New("connection refused")

	result, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().Error(err)
	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSync)

	pending, checkErr := suite.engine.HasUnsyncedChanges(ctx, suite.ownerID)
	suite.Require().NoError(checkErr)
	suite.True(pending)

	status, statusErr := suite.engine.Status(ctx, suite.ownerID)
	suite.Require().NoError(statusErr)
	suite.Equal(domain.SyncError, status.State)
	suite.NotEmpty(status.LastError)

	// The next attempt succeeds once the remote is back.
	suite.remote.failWith = nil
	result, err = suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PushedCount)
}

func (suite *SyncServiceTestSuite) TestPush_WriteDuringPushStaysPending() {
	ctx := context.Background()
	product := suite.seedProduct("Softdrinks Litro", uuid.NewString())

	// Edit the row while its upload is in flight. The confirmation must not
	// stamp the newer revision as synced.
	suite.remote.onUpsert = func() {
		suite.remote.onUpsert = nil
		edited, err := suite.repos.ProductRepo.FindProductByID(ctx, suite.ownerID, product.ID)
		suite.Require().NoError(err)
		edited.StockQty = 99
		edited.Touch(time.Now().UTC().Add(time.Millisecond))
		suite.Require().NoError(suite.repos.ProductRepo.UpdateProduct(ctx, *edited))
	}

	result, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PushedCount)

	pending, err := suite.engine.HasUnsyncedChanges(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(pending)

	unsynced, err := suite.repos.ProductRepo.ListUnsyncedProducts(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Require().Len(unsynced, 1)
	suite.Equal(99, unsynced[0].StockQty)
}

func (suite *SyncServiceTestSuite) TestPull_RowsDoNotBounceBack() {
	ctx := context.Background()

	remoteCategory := domain.Category{Name: "From Cloud", SortOrder: 2}
	remoteCategory.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.remote.categories = []domain.Category{remoteCategory}

	result, err := suite.engine.Pull(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PulledCount)

	local, err := suite.repos.CategoryRepo.FindCategoryByID(ctx, suite.ownerID, remoteCategory.ID)
	suite.Require().NoError(err)
	suite.Equal("From Cloud", local.Name)
	suite.False(local.NeedsSync())

	// A pulled row must not be re-uploaded by the next push.
	suite.remote.categories = nil
	pushResult, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(0, pushResult.PushedCount)
	suite.Empty(suite.remote.categories)
}

func (suite *SyncServiceTestSuite) TestPull_KeepsRemoteConfirmationTime() {
	ctx := context.Background()

	confirmedAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)
	remoteCategory := domain.Category{Name: "Synced Elsewhere"}
	remoteCategory.Init(uuid.NewString(), suite.ownerID, confirmedAt)
	remoteCategory.MarkSynced(confirmedAt)
	suite.remote.categories = []domain.Category{remoteCategory}

	result, err := suite.engine.Pull(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PulledCount)

	local, err := suite.repos.CategoryRepo.FindCategoryByID(ctx, suite.ownerID, remoteCategory.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(local.SyncedAt)
	suite.True(local.SyncedAt.Equal(confirmedAt))
}

func (suite *SyncServiceTestSuite) TestPull_WatermarkSurvivesRestart() {
	ctx := context.Background()
	suite.seedCategory("Pushed Before Restart")

	_, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)

	// Stage one remote row newer than the push and restart the engine over
	// the same local store. Only the newer row should come back.
	newer := domain.Category{Name: "Added While Offline"}
	newer.Init(uuid.NewString(), suite.ownerID, time.Now().UTC().Add(time.Minute))
	suite.remote.categories = append(suite.remote.categories, newer)

	restarted := services.NewSyncService(suite.repos, suite.remote)
	result, err := restarted.Pull(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PulledCount)

	got, err := suite.repos.CategoryRepo.FindCategoryByID(ctx, suite.ownerID, newer.ID)
	suite.Require().NoError(err)
	suite.Equal("Added While Offline", got.Name)
}

func (suite *SyncServiceTestSuite) TestRestore_RoundTrip() {
	ctx := context.Background()
	category := suite.seedCategory("Rice & Grains")
	product := suite.seedProduct("Rice 1kg", category.ID)

	_, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)

	// Simulate a wiped device: fresh local store, same remote.
	freshDB, err := sql.Open("sqlite", ":memory:")
	suite.Require().NoError(err)
	defer freshDB.Close()
	freshDB.SetMaxOpenConns(1)
	suite.Require().NoError(sqlite.Migrate(ctx, freshDB))
	freshRepos := sqlite.NewRepositoryProvider(freshDB)
	freshEngine := services.NewSyncService(freshRepos, suite.remote)

	result, err := freshEngine.Restore(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(2, result.PulledCount)

	restored, err := freshRepos.ProductRepo.FindProductByID(ctx, suite.ownerID, product.ID)
	suite.Require().NoError(err)
	suite.Equal("Rice 1kg", restored.Name)
	suite.True(restored.SellingPrice.Equal(decimal.RequireFromString("25.00")))
	suite.False(restored.NeedsSync())
}

func (suite *SyncServiceTestSuite) TestCatalogNeverLeavesTheDevice() {
	ctx := context.Background()
	_, err := suite.repos.CatalogRepo.SeedCatalog(ctx, []domain.CatalogEntry{
		{Barcode: "4800016644931", Name: "Lucky Me Pancit Canton", CreatedAt: time.Now().UTC()},
		{Barcode: "4902430354837", Name: "Safeguard Soap", CreatedAt: time.Now().UTC()},
	})
	suite.Require().NoError(err)

	pending, err := suite.engine.HasUnsyncedChanges(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.False(pending)

	result, err := suite.engine.FullSync(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(0, result.PushedCount)
	suite.Equal(0, result.PulledCount)
	suite.Equal(0, suite.remote.upsertCalls)

	count, err := suite.repos.CatalogRepo.CountCatalogEntries(ctx)
	suite.Require().NoError(err)
	suite.Equal(2, count)
}

func (suite *SyncServiceTestSuite) TestOwnerScoping() {
	ctx := context.Background()
	suite.seedCategory("Mine")

	otherOwner := uuid.NewString()
	foreign := domain.Category{Name: "Someone Else's"}
	foreign.Init(uuid.NewString(), otherOwner, time.Now().UTC())
	suite.Require().NoError(suite.repos.CategoryRepo.SaveCategory(ctx, foreign))

	result, err := suite.engine.Push(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Equal(1, result.PushedCount)
	suite.Require().Len(suite.remote.categories, 1)
	suite.Equal("Mine", suite.remote.categories[0].Name)
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}
