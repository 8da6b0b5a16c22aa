package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/core/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/fincast/fincast/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PendingServiceTestSuite struct {
	suite.Suite
	cfg       *config.Config
	container *portssvc.ServiceContainer
	store     *memory.Store
	ownerID   string
	checking  domain.Account
	pendingID string
	estimate  decimal.Decimal
}

func (suite *PendingServiceTestSuite) SetupTest() {
	suite.cfg = &config.Config{PendingExpiryDays: 30}
	suite.container, suite.store = newMemContainer(suite.cfg)

	owner := createTestOwner(suite.T(), suite.container, "pending-owner", domain.NewDate(2025, time.September, 1))
	suite.ownerID = owner.OwnerID

	suite.checking = createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Main Checking",
		AccountType:    domain.Checking,
		OpeningBalance: decimal.NewFromInt(5000),
	})

	// One variable bill due Oct 1, queued by advancing past it.
	ctx := context.Background()
	suite.estimate = decimal.NewFromInt(100)
	_, err := suite.container.Scheduler.CreateRecurring(ctx, suite.ownerID, dto.CreateRecurringRequest{
		Kind:            domain.RecurringExpense,
		Description:     "Electricity",
		Amount:          decimal.NewFromInt(100),
		IsVariable:      true,
		EstimatedAmount: &suite.estimate,
		AccountID:       suite.checking.AccountID,
		DueDay:          1,
	})
	suite.Require().NoError(err)

	resp, err := suite.container.Scheduler.AdvanceTo(ctx, suite.ownerID, domain.NewDate(2025, time.October, 2))
	suite.Require().NoError(err)
	suite.Require().Equal(1, resp.PendingCreated)

	open, err := suite.container.Pending.ListPending(ctx, suite.ownerID, domain.PendingOpen)
	suite.Require().NoError(err)
	suite.Require().Len(open, 1)
	suite.pendingID = open[0].PendingID
}

func (suite *PendingServiceTestSuite) balance(accountID string) decimal.Decimal {
	bal, err := suite.container.Ledger.GetBalance(context.Background(), suite.ownerID, accountID, nil)
	suite.Require().NoError(err)
	return bal
}

func (suite *PendingServiceTestSuite) TestApprove_PostsWithActualAmount() {
	ctx := context.Background()
	actual := decimal.RequireFromString("93.50")

	group, err := suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, &actual)

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.Equal(domain.KindExpense, group.Kind)
	suite.Equal(domain.NewDate(2025, time.October, 1), group.Date)
	suite.True(group.Amount.Equal(actual))
	suite.True(suite.balance(suite.checking.AccountID).Equal(decimal.RequireFromString("4906.50")))

	approved, err := suite.container.Pending.ListPending(ctx, suite.ownerID, domain.PendingApproved)
	suite.Require().NoError(err)
	suite.Require().Len(approved, 1)
	suite.Require().NotNil(approved[0].ActualAmount)
	suite.True(approved[0].ActualAmount.Equal(actual))
	suite.NotNil(approved[0].ResolvedAt)
}

func (suite *PendingServiceTestSuite) TestApprove_DefaultsToEstimate() {
	ctx := context.Background()

	group, err := suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, nil)

	suite.Require().NoError(err)
	suite.True(group.Amount.Equal(suite.estimate))
	suite.True(suite.balance(suite.checking.AccountID).Equal(decimal.NewFromInt(4900)))
}

func (suite *PendingServiceTestSuite) TestApprove_SecondApprovalRejected() {
	ctx := context.Background()

	_, err := suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, nil)
	suite.Require().NoError(err)

	_, err = suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
	suite.True(suite.balance(suite.checking.AccountID).Equal(decimal.NewFromInt(4900)))
}

func (suite *PendingServiceTestSuite) TestApprove_GuardsApply() {
	ctx := context.Background()
	overdraft := decimal.NewFromInt(6000)

	_, err := suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, &overdraft)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)

	// The record stays open; a smaller amount can still be approved.
	open, err := suite.container.Pending.ListPending(ctx, suite.ownerID, domain.PendingOpen)
	suite.Require().NoError(err)
	suite.Len(open, 1)
	_, err = suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, nil)
	suite.Require().NoError(err)
}

func (suite *PendingServiceTestSuite) TestReject_NoPosting() {
	ctx := context.Background()

	err := suite.container.Pending.Reject(ctx, suite.ownerID, suite.pendingID)

	suite.Require().NoError(err)
	suite.True(suite.balance(suite.checking.AccountID).Equal(decimal.NewFromInt(5000)))

	rejected, err := suite.container.Pending.ListPending(ctx, suite.ownerID, domain.PendingRejected)
	suite.Require().NoError(err)
	suite.Len(rejected, 1)

	_, err = suite.container.Pending.Approve(ctx, suite.ownerID, suite.pendingID, nil)
	suite.ErrorIs(err, apperrors.ErrAlreadyResolved)
}

func (suite *PendingServiceTestSuite) TestApprove_ForeignOwnerRejected() {
	ctx := context.Background()
	stranger := createTestOwner(suite.T(), suite.container, "stranger", domain.NewDate(2025, time.September, 1))

	_, err := suite.container.Pending.Approve(ctx, stranger.OwnerID, suite.pendingID, nil)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PendingServiceTestSuite) TestApproveInterest_ChargesTheCard() {
	ctx := context.Background()
	rate := decimal.RequireFromString("0.24")
	card := createTestAccount(suite.T(), suite.container, suite.ownerID, dto.CreateAccountRequest{
		Name:           "Visa",
		AccountType:    domain.CreditCard,
		OpeningBalance: decimal.NewFromInt(1000),
		AnnualRate:     &rate,
	})

	charge, err := suite.container.Scheduler.AccrueCardInterest(ctx, suite.ownerID, card.AccountID)
	suite.Require().NoError(err)
	suite.Require().NotNil(charge)

	group, err := suite.container.Pending.Approve(ctx, suite.ownerID, charge.PendingID, nil)

	suite.Require().NoError(err)
	suite.Equal(domain.KindInterest, group.Kind)
	suite.True(suite.balance(card.AccountID).Equal(decimal.NewFromInt(1020)))
}

func (suite *PendingServiceTestSuite) TestExpireStale() {
	ctx := context.Background()

	// Advance without an expiry sweep so the bill stays open long past due,
	// then run the explicit expiry over the same store.
	noExpiry := services.NewServiceContainer(&config.Config{}, memory.NewRepositoryProvider(suite.store), nil)
	_, err := noExpiry.Scheduler.AdvanceTo(ctx, suite.ownerID, domain.NewDate(2025, time.December, 15))
	suite.Require().NoError(err)

	expired, err := suite.container.Pending.ExpireStale(ctx, suite.ownerID)

	suite.Require().NoError(err)
	suite.Equal(2, expired) // Oct 1 and Nov 1; Dec 1 is within the window

	open, err := suite.container.Pending.ListPending(ctx, suite.ownerID, domain.PendingOpen)
	suite.Require().NoError(err)
	suite.Len(open, 1)
}

func TestPendingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PendingServiceTestSuite))
}
