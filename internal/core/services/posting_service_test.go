package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/core/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerRepository ---
type MockLedgerRepository struct {
	mock.Mock
}

var _ portsrepo.LedgerRepositoryFacade = (*MockLedgerRepository)(nil)

func (m *MockLedgerRepository) SaveGroup(ctx context.Context, group domain.TransactionGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, extras *portsrepo.SaveGroupExtras) error {
	args := m.Called(ctx, group, entries, balanceChanges, extras)
	return args.Error(0)
}

func (m *MockLedgerRepository) UpdateGroupStatusAndLinks(ctx context.Context, groupID string, status domain.GroupStatus, reversingGroupID *string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, groupID, status, reversingGroupID, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockLedgerRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.TransactionGroup, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionGroup), args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, groupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, ownerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, ownerID, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.LedgerEntry), returnedNextToken, args.Error(2)
}

func (m *MockLedgerRepository) SumEntries(ctx context.Context, ownerID, accountID string, asOf domain.Date) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) UpdateGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string, updatedBy string, updatedAt time.Time) (int, error) {
	args := m.Called(ctx, ownerID, groupID, categoryID, updatedBy, updatedAt)
	return args.Int(0), args.Error(1)
}

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	args := m.Called(ctx, ownerID, accountType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedBy string, now time.Time) error {
	args := m.Called(ctx, accountID, updatedBy, now)
	return args.Error(0)
}

// --- Mock OwnerRepository ---
type MockOwnerRepository struct {
	mock.Mock
}

var _ portsrepo.OwnerRepositoryFacade = (*MockOwnerRepository)(nil)

func (m *MockOwnerRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *MockOwnerRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) FindOwnerByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Owner), args.Error(1)
}

func (m *MockOwnerRepository) ListOwnerIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockOwnerRepository) UpdateCurrentDate(ctx context.Context, ownerID string, date domain.Date, updatedAt time.Time) error {
	args := m.Called(ctx, ownerID, date, updatedAt)
	return args.Error(0)
}

func (m *MockOwnerRepository) DeleteOwner(ctx context.Context, ownerID string, deletedAt time.Time) error {
	args := m.Called(ctx, ownerID, deletedAt)
	return args.Error(0)
}

// --- Test Suite Setup ---
type PostingServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	mockOwnerRepo   *MockOwnerRepository
	service         portssvc.PostingSvcFacade
	ownerID         string
	owner           domain.Owner
	checkingAccount domain.Account
	expenseAccount  domain.Account
	incomeAccount   domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockOwnerRepo = new(MockOwnerRepository)

	container := services.NewServiceContainer(&config.Config{}, portsrepo.RepositoryProvider{
		OwnerRepo:   suite.mockOwnerRepo,
		AccountRepo: suite.mockAccountRepo,
		LedgerRepo:  suite.mockLedgerRepo,
	}, nil)
	suite.service = container.Posting

	suite.ownerID = uuid.NewString()
	suite.owner = domain.Owner{
		OwnerID:     suite.ownerID,
		Username:    "tester",
		CurrentDate: domain.NewDate(2025, time.June, 15),
	}

	suite.checkingAccount = domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     suite.ownerID,
		Name:        "Main Checking",
		AccountType: domain.Checking,
		Balance:     decimal.NewFromInt(500),
		IsActive:    true,
	}
	suite.expenseAccount = domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     suite.ownerID,
		Name:        "Expenses",
		AccountType: domain.Expense,
		IsSystem:    true,
		IsActive:    true,
	}
	suite.incomeAccount = domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     suite.ownerID,
		Name:        "Income",
		AccountType: domain.Income,
		IsSystem:    true,
		IsActive:    true,
	}
}

func (suite *PostingServiceTestSuite) accountsMap(accounts ...domain.Account) map[string]domain.Account {
	out := make(map[string]domain.Account, len(accounts))
	for _, a := range accounts {
		out[a.AccountID] = a
	}
	return out
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPostExpense_Success() {
	ctx := context.Background()
	req := dto.ExpenseRequest{
		AccountID:   suite.checkingAccount.AccountID,
		Description: "Groceries",
		Amount:      decimal.NewFromInt(50),
	}

	suite.mockOwnerRepo.On("FindOwnerByID", ctx, suite.ownerID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx, suite.ownerID, domain.Expense).Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.expenseAccount.AccountID, suite.checkingAccount.AccountID}).
		Return(suite.accountsMap(suite.expenseAccount, suite.checkingAccount), nil).Once()

	var savedChanges map[string]decimal.Decimal
	suite.mockLedgerRepo.On("SaveGroup", ctx, mock.AnythingOfType("domain.TransactionGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("map[string]decimal.Decimal"), (*portsrepo.SaveGroupExtras)(nil)).
		Run(func(args mock.Arguments) {
			savedChanges = args.Get(3).(map[string]decimal.Decimal)
		}).Return(nil).Once()

	group, err := suite.service.PostExpense(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(group)
	suite.NotEmpty(group.GroupID)
	suite.Equal(domain.KindExpense, group.Kind)
	suite.Equal(domain.Posted, group.Status)
	suite.Equal(suite.owner.CurrentDate, group.Date)
	suite.True(group.Amount.Equal(decimal.NewFromInt(50)))
	suite.Len(group.Entries, 2)

	// Spending debits the expense account and credits the payment account;
	// both cached balance deltas carry the polarity-adjusted sign.
	suite.True(savedChanges[suite.expenseAccount.AccountID].Equal(decimal.NewFromInt(50)))
	suite.True(savedChanges[suite.checkingAccount.AccountID].Equal(decimal.NewFromInt(-50)))

	suite.mockOwnerRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostIncome_UsesExplicitDate() {
	ctx := context.Background()
	date := domain.NewDate(2025, time.June, 1)
	req := dto.IncomeRequest{
		AccountID:   suite.checkingAccount.AccountID,
		Description: "Salary",
		Amount:      decimal.NewFromInt(3000),
		Date:        &date,
	}

	suite.mockAccountRepo.On("FindSystemAccount", ctx, suite.ownerID, domain.Income).Return(&suite.incomeAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, []string{suite.checkingAccount.AccountID, suite.incomeAccount.AccountID}).
		Return(suite.accountsMap(suite.checkingAccount, suite.incomeAccount), nil).Once()
	suite.mockLedgerRepo.On("SaveGroup", ctx, mock.Anything, mock.Anything, mock.Anything, (*portsrepo.SaveGroupExtras)(nil)).Return(nil).Once()

	group, err := suite.service.PostIncome(ctx, suite.ownerID, req)

	suite.Require().NoError(err)
	suite.Equal(date, group.Date)
	suite.Equal(domain.KindIncome, group.Kind)

	// An explicit date never touches the owner's simulated clock.
	suite.mockOwnerRepo.AssertNotCalled(suite.T(), "FindOwnerByID", mock.Anything, mock.Anything)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPost_ImbalancedRejected() {
	ctx := context.Background()
	req := dto.PostRequest{
		Date:        domain.NewDate(2025, time.June, 10),
		Kind:        domain.KindTransfer,
		Description: "Lopsided",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.checkingAccount.AccountID, Side: domain.Debit, Amount: decimal.NewFromInt(100)},
			{AccountID: suite.expenseAccount.AccountID, Side: domain.Credit, Amount: decimal.RequireFromString("99.99")},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.checkingAccount, suite.expenseAccount), nil).Once()

	group, err := suite.service.Post(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImbalanced)
	suite.Nil(group)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_UnknownAccountRejected() {
	ctx := context.Background()
	strangerID := uuid.NewString()
	req := dto.PostRequest{
		Date:        domain.NewDate(2025, time.June, 10),
		Kind:        domain.KindTransfer,
		Description: "Who is this",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.checkingAccount.AccountID, Side: domain.Debit, Amount: decimal.NewFromInt(10)},
			{AccountID: strangerID, Side: domain.Credit, Amount: decimal.NewFromInt(10)},
		},
	}

	// The stranger's account is simply absent from the lookup result.
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.checkingAccount), nil).Once()

	group, err := suite.service.Post(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	suite.Contains(err.Error(), strangerID)
	suite.Nil(group)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPost_ForeignAccountRejected() {
	ctx := context.Background()
	foreign := suite.checkingAccount
	foreign.AccountID = uuid.NewString()
	foreign.OwnerID = uuid.NewString()
	req := dto.PostRequest{
		Date:        domain.NewDate(2025, time.June, 10),
		Kind:        domain.KindTransfer,
		Description: "Not yours",
		Lines: []dto.EntryLineRequest{
			{AccountID: suite.checkingAccount.AccountID, Side: domain.Debit, Amount: decimal.NewFromInt(10)},
			{AccountID: foreign.AccountID, Side: domain.Credit, Amount: decimal.NewFromInt(10)},
		},
	}

	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.checkingAccount, foreign), nil).Once()

	_, err := suite.service.Post(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
}

func (suite *PostingServiceTestSuite) TestPostExpense_InsufficientFunds() {
	ctx := context.Background()
	suite.checkingAccount.Balance = decimal.NewFromInt(20)
	req := dto.ExpenseRequest{
		AccountID:   suite.checkingAccount.AccountID,
		Description: "Too expensive",
		Amount:      decimal.NewFromInt(50),
	}

	suite.mockOwnerRepo.On("FindOwnerByID", ctx, suite.ownerID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx, suite.ownerID, domain.Expense).Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.checkingAccount), nil).Once()

	group, err := suite.service.PostExpense(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Nil(group)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostExpense_CreditCardLimit() {
	ctx := context.Background()
	limit := decimal.NewFromInt(1000)
	card := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     suite.ownerID,
		Name:        "Visa",
		AccountType: domain.CreditCard,
		Balance:     decimal.NewFromInt(980),
		CreditLimit: &limit,
		IsActive:    true,
	}
	req := dto.ExpenseRequest{
		AccountID:   card.AccountID,
		Description: "Over the limit",
		Amount:      decimal.NewFromInt(50),
	}

	suite.mockOwnerRepo.On("FindOwnerByID", ctx, suite.ownerID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx, suite.ownerID, domain.Expense).Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, card), nil).Once()

	_, err := suite.service.PostExpense(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostExpense_ConcurrencyConflictSurfaces() {
	ctx := context.Background()
	req := dto.ExpenseRequest{
		AccountID:   suite.checkingAccount.AccountID,
		Description: "Raced",
		Amount:      decimal.NewFromInt(50),
	}

	suite.mockOwnerRepo.On("FindOwnerByID", ctx, suite.ownerID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("FindSystemAccount", ctx, suite.ownerID, domain.Expense).Return(&suite.expenseAccount, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.checkingAccount), nil).Once()

	// A concurrent posting bumped the account's version between the read and
	// the commit; the whole transaction rolls back and the error surfaces.
	conflict := fmt.Errorf("%w: account %s changed underneath the posting", apperrors.ErrConcurrencyConflict, suite.checkingAccount.AccountID)
	suite.mockLedgerRepo.On("SaveGroup", ctx, mock.Anything, mock.Anything, mock.Anything, (*portsrepo.SaveGroupExtras)(nil)).
		Return(conflict).Once()

	group, err := suite.service.PostExpense(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConcurrencyConflict)
	suite.Nil(group)
	suite.mockLedgerRepo.AssertExpectations(suite.T())
	// The failed commit must not be followed by any further writes.
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "UpdateGroupStatusAndLinks", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransfer_SelfTransferRejected() {
	ctx := context.Background()
	req := dto.TransferRequest{
		FromAccountID: suite.checkingAccount.AccountID,
		ToAccountID:   suite.checkingAccount.AccountID,
		Amount:        decimal.NewFromInt(25),
	}

	_, err := suite.service.PostTransfer(ctx, suite.ownerID, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_Success() {
	ctx := context.Background()
	originalID := uuid.NewString()
	original := domain.TransactionGroup{
		GroupID:     originalID,
		OwnerID:     suite.ownerID,
		Date:        domain.NewDate(2025, time.June, 1),
		Description: "Groceries",
		Kind:        domain.KindExpense,
		Status:      domain.Posted,
		Amount:      decimal.NewFromInt(50),
	}
	originalEntries := []domain.LedgerEntry{
		{EntryID: uuid.NewString(), GroupID: originalID, OwnerID: suite.ownerID, AccountID: suite.expenseAccount.AccountID, Side: domain.Debit, Amount: decimal.NewFromInt(50)},
		{EntryID: uuid.NewString(), GroupID: originalID, OwnerID: suite.ownerID, AccountID: suite.checkingAccount.AccountID, Side: domain.Credit, Amount: decimal.NewFromInt(50)},
	}

	suite.mockLedgerRepo.On("FindGroupByID", ctx, originalID).Return(&original, nil).Once()
	suite.mockLedgerRepo.On("FindEntriesByGroupID", ctx, originalID).Return(originalEntries, nil).Once()
	suite.mockOwnerRepo.On("FindOwnerByID", ctx, suite.ownerID).Return(&suite.owner, nil).Once()
	suite.mockAccountRepo.On("FindAccountsByIDs", ctx, mock.Anything).
		Return(suite.accountsMap(suite.expenseAccount, suite.checkingAccount), nil).Once()

	var savedEntries []domain.LedgerEntry
	suite.mockLedgerRepo.On("SaveGroup", ctx, mock.AnythingOfType("domain.TransactionGroup"), mock.AnythingOfType("[]domain.LedgerEntry"), mock.AnythingOfType("map[string]decimal.Decimal"), (*portsrepo.SaveGroupExtras)(nil)).
		Run(func(args mock.Arguments) {
			savedEntries = args.Get(2).([]domain.LedgerEntry)
		}).Return(nil).Once()
	suite.mockLedgerRepo.On("UpdateGroupStatusAndLinks", ctx, originalID, domain.Reversed, mock.AnythingOfType("*string"), suite.ownerID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	reversal, err := suite.service.Reverse(ctx, suite.ownerID, originalID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversal)
	suite.True(reversal.IsReversal)
	suite.Equal(domain.KindReversal, reversal.Kind)
	suite.Require().NotNil(reversal.OriginalGroupID)
	suite.Equal(originalID, *reversal.OriginalGroupID)
	suite.Equal(suite.owner.CurrentDate, reversal.Date)
	suite.Equal("Reversal of: Groceries", reversal.Description)

	// Every leg flips to the opposite side; amounts stay put.
	suite.Require().Len(savedEntries, 2)
	suite.Equal(domain.Credit, savedEntries[0].Side)
	suite.Equal(suite.expenseAccount.AccountID, savedEntries[0].AccountID)
	suite.Equal(domain.Debit, savedEntries[1].Side)
	suite.Equal(suite.checkingAccount.AccountID, savedEntries[1].AccountID)

	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestReverse_AlreadyReversed() {
	ctx := context.Background()
	groupID := uuid.NewString()
	reversed := domain.TransactionGroup{
		GroupID: groupID,
		OwnerID: suite.ownerID,
		Status:  domain.Reversed,
	}

	suite.mockLedgerRepo.On("FindGroupByID", ctx, groupID).Return(&reversed, nil).Once()

	_, err := suite.service.Reverse(ctx, suite.ownerID, groupID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotReversible)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveGroup", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestReverse_OfReversalRejected() {
	ctx := context.Background()
	groupID := uuid.NewString()
	reversal := domain.TransactionGroup{
		GroupID:    groupID,
		OwnerID:    suite.ownerID,
		Status:     domain.Posted,
		IsReversal: true,
	}

	suite.mockLedgerRepo.On("FindGroupByID", ctx, groupID).Return(&reversal, nil).Once()

	_, err := suite.service.Reverse(ctx, suite.ownerID, groupID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotReversible)
}

func (suite *PostingServiceTestSuite) TestReverse_MissingGroup() {
	ctx := context.Background()
	groupID := uuid.NewString()

	suite.mockLedgerRepo.On("FindGroupByID", ctx, groupID).Return(nil, apperrors.NewNotFoundError("group not found")).Once()

	_, err := suite.service.Reverse(ctx, suite.ownerID, groupID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotReversible)
}

func (suite *PostingServiceTestSuite) TestReverse_ForeignOwnerRejected() {
	ctx := context.Background()
	groupID := uuid.NewString()
	foreign := domain.TransactionGroup{
		GroupID: groupID,
		OwnerID: uuid.NewString(),
		Status:  domain.Posted,
	}

	suite.mockLedgerRepo.On("FindGroupByID", ctx, groupID).Return(&foreign, nil).Once()

	_, err := suite.service.Reverse(ctx, suite.ownerID, groupID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotReversible)
}

func TestPostingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
