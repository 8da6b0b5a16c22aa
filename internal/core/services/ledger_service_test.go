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

type LedgerServiceTestSuite struct {
	suite.Suite
	container *portssvc.ServiceContainer
	ownerID   string
	checking  domain.Account
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.container, _ = newMemContainer(&config.Config{})

	owner := createTestOwner(suite.T(), suite.container, "ledger-owner", domain.NewDate(2025, time.September, 1))
	suite.ownerID = owner.OwnerID

	suite.checking = createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Checking,
		OpeningBalance: decimal.NewFromInt(1000),
	})
}

func (suite *LedgerServiceTestSuite) postExpense(description string, amount int64, date domain.Date) *domain.TransactionGroup {
	group, err := suite.container.Posting.PostExpense(context.Background(), suite.ownerID, dto.ExpenseRequest{
		AccountID:   suite.checking.AccountID,
		Description: description,
		Amount:      decimal.NewFromInt(amount),
		Date:        &date,
	})
	suite.Require().NoError(err)
	return group
}

func (suite *LedgerServiceTestSuite) TestGetBalance_CachedAndAsOf() {
	ctx := context.Background()
	suite.postExpense("Groceries", 100, domain.NewDate(2025, time.September, 10))

	// No asOf: the cached balance.
	bal, err := suite.container.Ledger.GetBalance(ctx, suite.ownerID, suite.checking.AccountID, nil)
	suite.Require().NoError(err)
	suite.True(bal.Equal(decimal.NewFromInt(900)))

	// Before the expense only the opening balance counts.
	asOf := domain.NewDate(2025, time.September, 5)
	bal, err = suite.container.Ledger.GetBalance(ctx, suite.ownerID, suite.checking.AccountID, &asOf)
	suite.Require().NoError(err)
	suite.True(bal.Equal(decimal.NewFromInt(1000)))

	// On the expense date the fold includes it.
	asOf = domain.NewDate(2025, time.September, 10)
	bal, err = suite.container.Ledger.GetBalance(ctx, suite.ownerID, suite.checking.AccountID, &asOf)
	suite.Require().NoError(err)
	suite.True(bal.Equal(decimal.NewFromInt(900)))
}

func (suite *LedgerServiceTestSuite) TestGetBalance_CreditAccountSign() {
	ctx := context.Background()
	limit := decimal.NewFromInt(2000)
	card := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Visa",
		AccountType:    domain.CreditCard,
		OpeningBalance: decimal.NewFromInt(300),
		CreditLimit:    &limit,
	})

	// A credit card's balance is carried debt, positive under its polarity.
	asOf := domain.NewDate(2025, time.September, 1)
	bal, err := suite.container.Ledger.GetBalance(ctx, suite.ownerID, card.AccountID, &asOf)
	suite.Require().NoError(err)
	suite.True(bal.Equal(decimal.NewFromInt(300)))
}

func (suite *LedgerServiceTestSuite) TestGetBalance_ForeignAccount() {
	ctx := context.Background()
	stranger := createTestOwner(suite.T(), suite.container, "ledger-stranger", domain.NewDate(2025, time.September, 1))

	_, err := suite.container.Ledger.GetBalance(ctx, stranger.OwnerID, suite.checking.AccountID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestListEntries_ExcludesReversedByDefault() {
	ctx := context.Background()
	group := suite.postExpense("Mistake", 50, domain.NewDate(2025, time.September, 10))

	_, err := suite.container.Posting.Reverse(ctx, suite.ownerID, group.GroupID)
	suite.Require().NoError(err)

	// Default view: the reversed pair vanishes, the opening balance stays.
	resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{})
	suite.Require().NoError(err)
	suite.Len(resp.Entries, 2)
	for _, e := range resp.Entries {
		suite.NotEqual(group.GroupID, e.GroupID)
	}

	// The audit view shows all six lines.
	resp, err = suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{IncludeReversals: true})
	suite.Require().NoError(err)
	suite.Len(resp.Entries, 6)
}

func (suite *LedgerServiceTestSuite) TestListEntries_PaginatesNewestFirst() {
	ctx := context.Background()
	suite.postExpense("Day one", 10, domain.NewDate(2025, time.September, 10))
	suite.postExpense("Day two", 20, domain.NewDate(2025, time.September, 11))
	suite.postExpense("Day three", 30, domain.NewDate(2025, time.September, 12))

	page1, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Require().Len(page1.Entries, 2)
	suite.Require().NotNil(page1.NextToken)
	suite.Equal("Day three", page1.Entries[0].Description)

	page2, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{Limit: 2, NextToken: page1.NextToken})
	suite.Require().NoError(err)
	suite.Require().Len(page2.Entries, 2)
	suite.Equal("Day two", page2.Entries[0].Description)

	// No overlap across the page boundary.
	seen := map[string]bool{}
	for _, e := range append(page1.Entries, page2.Entries...) {
		suite.False(seen[e.EntryID])
		seen[e.EntryID] = true
	}
}

func (suite *LedgerServiceTestSuite) TestListEntries_CursorWalkKeepsGroupSiblings() {
	ctx := context.Background()
	// Three groups on the same day: every entry of a group shares its
	// creation time, so page boundaries land inside groups.
	day := domain.NewDate(2025, time.September, 15)
	suite.postExpense("Coffee", 4, day)
	suite.postExpense("Lunch", 12, day)
	suite.postExpense("Dinner", 30, day)

	seen := map[string]int{}
	var token *string
	total := 0
	for {
		resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{Limit: 1, NextToken: token})
		suite.Require().NoError(err)
		for _, e := range resp.Entries {
			seen[e.EntryID]++
			total++
		}
		if resp.NextToken == nil {
			break
		}
		token = resp.NextToken
		suite.Require().Less(total, 20, "cursor walk did not terminate")
	}

	// Three expense groups plus the opening balance: eight entries, each
	// seen exactly once.
	suite.Equal(8, total)
	suite.Len(seen, 8)
	for entryID, count := range seen {
		suite.Equal(1, count, entryID)
	}
}

func (suite *LedgerServiceTestSuite) TestListEntries_AccountAndDateFilter() {
	ctx := context.Background()
	suite.postExpense("Early", 10, domain.NewDate(2025, time.September, 5))
	suite.postExpense("Late", 20, domain.NewDate(2025, time.September, 20))

	from := domain.NewDate(2025, time.September, 10)
	resp, err := suite.container.Ledger.ListEntries(ctx, suite.ownerID, dto.ListEntriesParams{
		AccountID: suite.checking.AccountID,
		From:      &from,
	})

	suite.Require().NoError(err)
	suite.Require().Len(resp.Entries, 1)
	suite.Equal("Late", resp.Entries[0].Description)
	suite.Equal(suite.checking.AccountID, resp.Entries[0].AccountID)
}

func (suite *LedgerServiceTestSuite) TestReconcileBalances_CleanAfterPostAndReverse() {
	ctx := context.Background()
	group := suite.postExpense("Groceries", 100, domain.NewDate(2025, time.September, 10))
	_, err := suite.container.Posting.Reverse(ctx, suite.ownerID, group.GroupID)
	suite.Require().NoError(err)

	resp, err := suite.container.Ledger.ReconcileBalances(ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.True(resp.Clean)
	for _, entry := range resp.Accounts {
		suite.True(entry.Matched, entry.AccountID)
		suite.True(entry.Cached.Equal(entry.Computed))
	}
	// The checking account is back where it started.
	suite.True(resp.Accounts[suite.checking.AccountID].Cached.Equal(decimal.NewFromInt(1000)))
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
