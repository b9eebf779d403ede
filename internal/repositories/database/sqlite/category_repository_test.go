package sqlite_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"github.com/tindahan/tindahan/internal/apperrors"
	"github.com/tindahan/tindahan/internal/core/domain"
	portsrepo "github.com/tindahan/tindahan/internal/core/ports/repositories"
	"github.com/tindahan/tindahan/internal/repositories/database/sqlite"
)

type CategoryRepositoryTestSuite struct {
	suite.Suite
	db      *sql.DB
	repos   portsrepo.RepositoryProvider
	ownerID string
}

func (suite *CategoryRepositoryTestSuite) SetupTest() {
	db, err := sql.Open("sqlite", ":memory:")
	suite.Require().NoError(err)
	db.SetMaxOpenConns(1)
	suite.Require().NoError(sqlite.Migrate(context.Background(), db))

	suite.db = db
	suite.repos = sqlite.NewRepositoryProvider(db)
	suite.ownerID = uuid.NewString()
}

func (suite *CategoryRepositoryTestSuite) TearDownTest() {
	_ = suite.db.Close()
}

func (suite *CategoryRepositoryTestSuite) seedCategory(name string) domain.Category {
	c := domain.Category{Name: name, SortOrder: 1}
	c.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.Require().NoError(suite.repos.CategoryRepo.SaveCategory(context.Background(), c))
	return c
}

func (suite *CategoryRepositoryTestSuite) seedProduct(categoryID string) domain.Product {
	p := domain.Product{
		Name:         "Pancit Canton",
		CategoryID:   categoryID,
		SellingPrice: decimal.RequireFromString("12.00"),
		StockQty:     10,
	}
	p.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.Require().NoError(suite.repos.ProductRepo.SaveProduct(context.Background(), p))
	return p
}

func (suite *CategoryRepositoryTestSuite) TestDeleteCategoryIfUnused_BlockedByLiveProduct() {
	ctx := context.Background()
	category := suite.seedCategory("Noodles")
	suite.seedProduct(category.ID)

	inUse, err := suite.repos.CategoryRepo.DeleteCategoryIfUnused(ctx, suite.ownerID, category.ID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Equal(1, inUse)

	// The guard fired, so the category is still there.
	got, err := suite.repos.CategoryRepo.FindCategoryByID(ctx, suite.ownerID, category.ID)
	suite.Require().NoError(err)
	suite.Equal("Noodles", got.Name)
}

func (suite *CategoryRepositoryTestSuite) TestDeleteCategoryIfUnused_TombstonesWhenEmpty() {
	ctx := context.Background()
	category := suite.seedCategory("Seasonal")

	inUse, err := suite.repos.CategoryRepo.DeleteCategoryIfUnused(ctx, suite.ownerID, category.ID, time.Now().UTC())
	suite.Require().NoError(err)
	suite.Zero(inUse)

	_, err = suite.repos.CategoryRepo.FindCategoryByID(ctx, suite.ownerID, category.ID)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	// The tombstone waits for the next push.
	unsynced, err := suite.repos.CategoryRepo.ListUnsyncedCategories(ctx, suite.ownerID)
	suite.Require().NoError(err)
	suite.Require().Len(unsynced, 1)
	suite.True(unsynced[0].IsDeleted)
}

func (suite *CategoryRepositoryTestSuite) TestDeleteCategoryIfUnused_MissingCategory() {
	ctx := context.Background()

	_, err := suite.repos.CategoryRepo.DeleteCategoryIfUnused(ctx, suite.ownerID, uuid.NewString(), time.Now().UTC())
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestCategoryRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(CategoryRepositoryTestSuite))
}
