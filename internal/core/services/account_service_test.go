package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	ownerID   string
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.container, _ = newMemContainer(&config.Config{})
	owner := createTestOwner(suite.T(), suite.container, "account-owner", domain.NewDate(2025, time.September, 1))
	suite.ownerID = owner.OwnerID
}

func (suite *AccountServiceTestSuite) TestCreateAccount_OpeningBalancePostsAgainstEquity() {
	ctx := context.Background()

	account, err := suite.container.Account.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Checking,
		OpeningBalance: decimal.NewFromInt(1500),
	})

	suite.Require().NoError(err)
	suite.True(account.Balance.Equal(decimal.NewFromInt(1500)))

	// The opening counter-leg lands on equity.
	equity, err := suite.container.Account.GetSystemAccount(ctx, suite.ownerID, domain.Equity)
	suite.Require().NoError(err)
	suite.True(equity.Balance.Equal(decimal.NewFromInt(1500)))

	resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{})
	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 2)
	suite.Equal("Opening balance - Main Checking", resp.Entries[0].Description)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CreditCardOpeningIsDebt() {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)

	card, err := suite.container.Account.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Visa",
		AccountType:    domain.CreditCard,
		OpeningBalance: decimal.NewFromInt(400),
		CreditLimit:    &limit,
	})

	suite.Require().NoError(err)
	suite.True(card.Balance.Equal(decimal.NewFromInt(400)))

	// Carried debt pushes equity down, not up.
	equity, err := suite.container.Account.GetSystemAccount(ctx, suite.ownerID, domain.Equity)
	suite.Require().NoError(err)
	suite.True(equity.Balance.Equal(decimal.NewFromInt(-400)))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_CreditLimitOnlyForCards() {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)

	_, err := suite.container.Account.CreateAccount(ctx, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Main Checking",
		AccountType: domain.Checking,
		CreditLimit: &limit,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount() {
	ctx := context.Background()
	account := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Old Name",
		AccountType: domain.Savings,
	})

	newName := "Emergency Fund"
	updated, err := suite.container.Account.UpdateAccount(ctx, suite.ownerID, account.AccountID, dto.UpdateAccountRequest{
		Name: &newName,
	})

	suite.Require().NoError(err)
	suite.Equal("Emergency Fund", updated.Name)

	loaded, err := suite.container.Account.GetAccountByID(ctx, suite.ownerID, account.AccountID)
	suite.Require().NoError(err)
	suite.Equal("Emergency Fund", loaded.Name)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_SystemAccountRejected() {
	ctx := context.Background()
	income, err := suite.container.Account.GetSystemAccount(ctx, suite.ownerID, domain.Income)
	suite.Require().NoError(err)

	newName := "My Income"
	_, err = suite.container.Account.UpdateAccount(ctx, suite.ownerID, income.AccountID, dto.UpdateAccountRequest{
		Name: &newName,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	ctx := context.Background()
	account := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Empty Wallet",
		AccountType: domain.Cash,
	})

	err := suite.container.Account.DeactivateAccount(ctx, suite.ownerID, account.AccountID)
	suite.Require().NoError(err)

	active, err := suite.container.Account.ListAccounts(ctx, suite.ownerID, false)
	suite.Require().NoError(err)
	for _, a := range active {
		suite.NotEqual(account.AccountID, a.AccountID)
	}

	all, err := suite.container.Account.ListAccounts(ctx, suite.ownerID, true)
	suite.Require().NoError(err)
	found := false
	for _, a := range all {
		if a.AccountID == account.AccountID {
			found = true
			suite.False(a.IsActive)
		}
	}
	suite.True(found)

	// Posting to a retired account fails.
	_, err = suite.container.Posting.PostIncome(ctx, suite.ownerID, dto.IncomeRequest{
		AccountID:   account.AccountID,
		Description: "Found money",
		Amount:      decimal.NewFromInt(10),
	})
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount_NonZeroBalanceRejected() {
	ctx := context.Background()
	account := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Funded Wallet",
		AccountType:    domain.Cash,
		OpeningBalance: decimal.NewFromInt(25),
	})

	err := suite.container.Account.DeactivateAccount(ctx, suite.ownerID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_ForeignOwnerObscured() {
	ctx := context.Background()
	account := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Private",
		AccountType: domain.Savings,
	})
	stranger := createTestOwner(suite.T(), suite.container, "account-stranger", domain.NewDate(2025, time.September, 1))

	_, err := suite.container.Account.GetAccountByID(ctx, stranger.OwnerID, account.AccountID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
