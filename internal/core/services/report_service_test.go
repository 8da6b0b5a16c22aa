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

type ReportServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	ownerID   string
	checking  domain.Account
}

func (suite *ReportServiceTestSuite) SetupTest() {
	suite.container, _ = newMemContainer(&config.Config{})

	owner := createTestOwner(suite.T(), suite.container, "report-owner", domain.NewDate(2025, time.September, 1))
	suite.ownerID = owner.OwnerID

	suite.checking = createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Checking,
		OpeningBalance: decimal.NewFromInt(1000),
	})
}

func (suite *ReportServiceTestSuite) postIncome(description string, amount int64, date domain.Date) {
	_, err := suite.container.Posting.PostIncome(context.Background(), suite.ownerID, dto.IncomeRequest{
		AccountID:   suite.checking.AccountID,
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		Date:        &date,
	})
	suite.Require().NoError(err)
}

func (suite *ReportServiceTestSuite) postExpense(description string, amount int64, date domain.Date, categoryID *string) *domain.TransactionGroup {
	group, err := suite.container.Posting.PostExpense(context.Background(), suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		Date:        &date,
		CategoryID:  categoryID,
	})
	suite.Require().NoError(err)
	return group
}

func (suite *ReportServiceTestSuite) septPeriod() (domain.Date, domain.Date) {
	return domain.NewDate(2025, time.September, 1), domain.NewDate(2025, time.September, 30)
}

func (suite *ReportServiceTestSuite) TestIncomeStatement_GroupsRevenueAndCategories() {
	ctx := context.Background()
	dining, err := suite.container.Category.CreateCategory(ctx, suite.ownerID, dto.CreateCategoryRequest{Name: "Dining Out"})
	suite.Require().NoError(err)

	suite.postIncome("Salary", 500, domain.NewDate(2025, time.September, 5))
	suite.postExpense("Dinner", 40, domain.NewDate(2025, time.September, 10), &dining.CategoryID)
	suite.postExpense("Stamps", 60, domain.NewDate(2025, time.September, 12), nil)

	from, to := suite.septPeriod()
	stmt, err := suite.container.Report.IncomeStatement(ctx, suite.ownerID, from, to)
	suite.Require().NoError(err)

	suite.Require().Len(stmt.Revenue, 1)
	suite.Equal("Salary", stmt.Revenue[0].Name)
	suite.True(stmt.Revenue[0].Amount.Equal(decimal.NewFromInt(500)))
	suite.True(stmt.TotalRevenue.Equal(decimal.NewFromInt(500)))

	// Largest expense bucket first; unlabeled spending lands in Uncategorized.
	suite.Require().Len(stmt.Expenses, 2)
	suite.Equal("Uncategorized", stmt.Expenses[0].Name)
	suite.True(stmt.Expenses[0].Amount.Equal(decimal.NewFromInt(60)))
	suite.Equal("Dining Out", stmt.Expenses[1].Name)
	suite.True(stmt.Expenses[1].Amount.Equal(decimal.NewFromInt(40)))
	suite.True(stmt.TotalExpenses.Equal(decimal.NewFromInt(100)))

	suite.True(stmt.NetIncome.Equal(decimal.NewFromInt(400)))
}

func (suite *ReportServiceTestSuite) TestIncomeStatement_ExcludesReversedGroups() {
	ctx := context.Background()
	group := suite.postExpense("Mistake", 999, domain.NewDate(2025, time.September, 8), nil)
	_, err := suite.container.Posting.Reverse(ctx, suite.ownerID, group.GroupID)
	suite.Require().NoError(err)

	suite.postExpense("Stamps", 60, domain.NewDate(2025, time.September, 12), nil)

	from, to := suite.septPeriod()
	stmt, err := suite.container.Report.IncomeStatement(ctx, suite.ownerID, from, to)
	suite.Require().NoError(err)

	// Neither the mistake nor its offsetting reversal shows up.
	suite.True(stmt.TotalExpenses.Equal(decimal.NewFromInt(60)), "got %s", stmt.TotalExpenses)
}

func (suite *ReportServiceTestSuite) TestIncomeStatement_InvalidPeriod() {
	from, to := suite.septPeriod()
	_, err := suite.container.Report.IncomeStatement(context.Background(), suite.ownerID, to, from)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ReportServiceTestSuite) TestBalanceSheet_AssetsLiabilitiesEquity() {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)
	createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Visa",
		AccountType:    domain.CreditCard,
		OpeningBalance: decimal.NewFromInt(300),
		CreditLimit:    &limit,
	})

	suite.postIncome("Salary", 500, domain.NewDate(2025, time.September, 5))
	suite.postExpense("Stamps", 100, domain.NewDate(2025, time.September, 12), nil)

	asOf := domain.NewDate(2025, time.September, 30)
	sheet, err := suite.container.Report.BalanceSheet(ctx, suite.ownerID, &asOf)
	suite.Require().NoError(err)

	suite.Require().Len(sheet.Assets, 1)
	suite.Equal("Main Checking", sheet.Assets[0].Name)
	suite.True(sheet.Assets[0].Balance.Equal(decimal.NewFromInt(1400)))
	suite.True(sheet.TotalAssets.Equal(decimal.NewFromInt(1400)))

	// Card debt reports as a positive amount owed.
	suite.Require().Len(sheet.Liabilities, 1)
	suite.Equal("Visa", sheet.Liabilities[0].Name)
	suite.True(sheet.Liabilities[0].Balance.Equal(decimal.NewFromInt(300)))
	suite.True(sheet.TotalLiabilities.Equal(decimal.NewFromInt(300)))

	suite.True(sheet.Equity.Equal(decimal.NewFromInt(1100)))
}

func (suite *ReportServiceTestSuite) TestBalanceSheet_AsOfCutsOffLaterActivity() {
	ctx := context.Background()
	suite.postIncome("Salary", 500, domain.NewDate(2025, time.September, 20))

	asOf := domain.NewDate(2025, time.September, 10)
	sheet, err := suite.container.Report.BalanceSheet(ctx, suite.ownerID, &asOf)
	suite.Require().NoError(err)

	suite.Require().Len(sheet.Assets, 1)
	suite.True(sheet.Assets[0].Balance.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReportServiceTestSuite) TestBalanceSheet_DefaultsToSimulatedDate() {
	// The owner sits at September 1, so only the opening balance exists yet.
	suite.postIncome("Salary", 500, domain.NewDate(2025, time.September, 20))

	sheet, err := suite.container.Report.BalanceSheet(context.Background(), suite.ownerID, nil)
	suite.Require().NoError(err)

	suite.Equal(domain.NewDate(2025, time.September, 1), sheet.AsOf)
	suite.True(sheet.TotalAssets.Equal(decimal.NewFromInt(1000)))
}

func (suite *ReportServiceTestSuite) TestCashFlow_SplitsActivities() {
	ctx := context.Background()
	suite.postIncome("Salary", 500, domain.NewDate(2025, time.September, 5))
	suite.postExpense("Stamps", 100, domain.NewDate(2025, time.September, 12), nil)

	brokerage := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Brokerage",
		AccountType: domain.Investment,
	})
	_, err := suite.container.Posting.PostTransfer(ctx, suite.ownerID, dto.TransferRequest{
		FromAccountID: suite.checking.AccountID,
		ToAccountID:   brokerage.AccountID,
		Amount:        decimal.NewFromInt(200),
		Description:   "Buy index fund",
	})
	suite.Require().NoError(err)

	from, to := suite.septPeriod()
	flow, err := suite.container.Report.CashFlow(ctx, suite.ownerID, from, to)
	suite.Require().NoError(err)

	suite.True(flow.Operating.Equal(decimal.NewFromInt(400)), "operating %s", flow.Operating)
	// Money moved into the brokerage is an outflow.
	suite.True(flow.Investing.Equal(decimal.NewFromInt(-200)), "investing %s", flow.Investing)
	suite.True(flow.Financing.IsZero(), "financing %s", flow.Financing)
	suite.True(flow.NetChange.Equal(decimal.NewFromInt(200)), "net %s", flow.NetChange)
}

func (suite *ReportServiceTestSuite) TestCashFlow_CardSpendIsCashNeutral() {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)
	card := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:        "Visa",
		AccountType: domain.CreditCard,
		CreditLimit: &limit,
	})

	_, err := suite.container.Posting.PostExpense(ctx, suite.ownerID, dto.ExpenseRequest{
		AccountID:   card.AccountID,
		Description: "Dinner",
		Amount:      decimal.NewFromInt(80),
	})
	suite.Require().NoError(err)

	from, to := suite.septPeriod()
	flow, err := suite.container.Report.CashFlow(ctx, suite.ownerID, from, to)
	suite.Require().NoError(err)

	// The charge is an operating outflow financed by new card debt; no cash
	// has moved yet, so the two cancel.
	suite.True(flow.Operating.Equal(decimal.NewFromInt(-80)), "operating %s", flow.Operating)
	suite.True(flow.Financing.Equal(decimal.NewFromInt(80)), "financing %s", flow.Financing)
	suite.True(flow.NetChange.IsZero(), "net %s", flow.NetChange)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
