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

type UtangRepositoryTestSuite struct {
	suite.Suite
	db      *sql.DB
	repos   portsrepo.RepositoryProvider
	ownerID string
}

func (suite *UtangRepositoryTestSuite) SetupTest() {
	db, err := sql.Open("sqlite", ":memory:")
	suite.Require().NoError(err)
	db.SetMaxOpenConns(1)
	suite.Require().NoError(sqlite.Migrate(context.Background(), db))

	suite.db = db
	suite.repos = sqlite.NewRepositoryProvider(db)
	suite.ownerID = uuid.NewString()
}

func (suite *UtangRepositoryTestSuite) TearDownTest() {
	_ = suite.db.Close()
}

func (suite *UtangRepositoryTestSuite) seedCustomer(balance string) domain.Customer {
	c := domain.Customer{Name: "Aling Nena", TotalUtang: decimal.RequireFromString(balance)}
	c.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	suite.Require().NoError(suite.repos.CustomerRepo.SaveCustomer(context.Background(), c))
	return c
}

func (suite *UtangRepositoryTestSuite) newEntry(customerID string, entryType domain.UtangType, amount string) domain.UtangTransaction {
	t := domain.UtangTransaction{
		CustomerID: customerID,
		Type:       entryType,
		Amount:     decimal.RequireFromString(amount),
		Notes:      "ledger test",
	}
	t.Init(uuid.NewString(), suite.ownerID, time.Now().UTC())
	return t
}

func (suite *UtangRepositoryTestSuite) TestSaveUtangTransaction_ChargesAccumulate() {
	ctx := context.Background()
	customer := suite.seedCustomer("30.00")

	// The balance is re-read inside each transaction, so back to back
	// charges build on each other instead of a stale starting point.
	newTotal, err := suite.repos.UtangRepo.SaveUtangTransaction(ctx, suite.newEntry(customer.ID, domain.UtangCharge, "50.00"))
	suite.Require().NoError(err)
	suite.True(newTotal.Equal(decimal.RequireFromString("80.00")))

	newTotal, err = suite.repos.UtangRepo.SaveUtangTransaction(ctx, suite.newEntry(customer.ID, domain.UtangCharge, "25.00"))
	suite.Require().NoError(err)
	suite.True(newTotal.Equal(decimal.RequireFromString("105.00")))

	got, err := suite.repos.CustomerRepo.FindCustomerByID(ctx, suite.ownerID, customer.ID)
	suite.Require().NoError(err)
	suite.True(got.TotalUtang.Equal(decimal.RequireFromString("105.00")))
	suite.True(got.NeedsSync())

	ledger, err := suite.repos.UtangRepo.ListUtangByCustomer(ctx, suite.ownerID, customer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(ledger, 2)
}

func (suite *UtangRepositoryTestSuite) TestSaveUtangTransaction_PaymentToZero() {
	ctx := context.Background()
	customer := suite.seedCustomer("120.50")

	newTotal, err := suite.repos.UtangRepo.SaveUtangTransaction(ctx, suite.newEntry(customer.ID, domain.UtangPayment, "120.50"))
	suite.Require().NoError(err)
	suite.True(newTotal.IsZero())

	ledger, err := suite.repos.UtangRepo.ListUtangByCustomer(ctx, suite.ownerID, customer.ID)
	suite.Require().NoError(err)
	suite.Require().Len(ledger, 1)
	suite.True(ledger[0].BalanceAfter.IsZero())
}

func (suite *UtangRepositoryTestSuite) TestSaveUtangTransaction_OverdraftWritesNothing() {
	ctx := context.Background()
	customer := suite.seedCustomer("100.00")

	_, err := suite.repos.UtangRepo.SaveUtangTransaction(ctx, suite.newEntry(customer.ID, domain.UtangPayment, "100.01"))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Contains(err.Error(), "exceeds balance")

	got, err := suite.repos.CustomerRepo.FindCustomerByID(ctx, suite.ownerID, customer.ID)
	suite.Require().NoError(err)
	suite.True(got.TotalUtang.Equal(decimal.RequireFromString("100.00")))

	ledger, err := suite.repos.UtangRepo.ListUtangByCustomer(ctx, suite.ownerID, customer.ID)
	suite.Require().NoError(err)
	suite.Empty(ledger)
}

func (suite *UtangRepositoryTestSuite) TestSaveUtangTransaction_UnknownCustomer() {
	ctx := context.Background()

	_, err := suite.repos.UtangRepo.SaveUtangTransaction(ctx, suite.newEntry(uuid.NewString(), domain.UtangCharge, "10.00"))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestUtangRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(UtangRepositoryTestSuite))
}
