package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
)

// accountService is the account registry. It owns account metadata; cached
// balances are written only through the posting path.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerRepositoryFacade
	poster      *groupPoster
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade, poster *groupPoster) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		poster:      poster,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount opens a user account and, when an opening balance is given,
// posts it against the owner's equity account so the books stay balanced from
// day one.
func (s *accountService) CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.OpeningBalance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", apperrors.ErrInvalidAmount)
	}
	if req.CreditLimit != nil {
		if req.AccountType != domain.CreditCard {
			return nil, fmt.Errorf("%w: credit limit only applies to credit cards", apperrors.ErrValidation)
		}
		if req.CreditLimit.IsNegative() {
			return nil, fmt.Errorf("%w: credit limit cannot be negative", apperrors.ErrInvalidAmount)
		}
	}
	if req.AnnualRate != nil && req.AnnualRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidAmount)
	}

	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerID:     ownerID,
		Name:        req.Name,
		AccountType: req.AccountType,
		Balance:     decimal.Zero,
		CreditLimit: req.CreditLimit,
		AnnualRate:  req.AnnualRate,
		IsActive:    true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	if req.OpeningBalance.IsPositive() {
		group, err := s.postOpeningBalance(ctx, ownerID, account, req.OpeningBalance, owner.CurrentDate)
		if err != nil {
			logger.Error("Failed to post opening balance", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
			return nil, fmt.Errorf("failed to post opening balance: %w", err)
		}
		account.Balance = req.OpeningBalance
		logger.Info("Opening balance posted", slog.String("account_id", account.AccountID), slog.String("group_id", group.GroupID))
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("type", string(account.AccountType)))
	return &account, nil
}

// postOpeningBalance books the opening balance against equity. The side that
// increases the account carries the account's leg, so an opening credit card
// balance lands as debt while an opening checking balance lands as funds.
func (s *accountService) postOpeningBalance(ctx context.Context, ownerID string, account domain.Account, amount decimal.Decimal, date domain.Date) (*domain.TransactionGroup, error) {
	polarity, err := accounting.PolarityOf(account.AccountType)
	if err != nil {
		return nil, err
	}
	equity, err := s.accountRepo.FindSystemAccount(ctx, ownerID, domain.Equity)
	if err != nil {
		return nil, fmt.Errorf("failed to find equity account: %w", err)
	}

	accountSide := domain.Credit
	if polarity.DebitIncreases {
		accountSide = domain.Debit
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindOpeningBalance,
		description: fmt.Sprintf("Opening balance - %s", account.Name),
		lines: []entryLine{
			{accountID: account.AccountID, side: accountSide, amount: amount},
			{accountID: equity.AccountID, side: accountSide.Opposite(), amount: amount},
		},
		skipGuards: true,
	})
}

// GetAccountByID retrieves a specific account, scoped to the owner.
func (s *accountService) GetAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.OwnerID != ownerID {
		// Obscure existence across owners.
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// GetAccountsByIDs retrieves multiple accounts keyed by ID, scoped to the owner.
func (s *accountService) GetAccountsByIDs(ctx context.Context, ownerID string, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for id, acc := range accounts {
		if acc.OwnerID != ownerID {
			delete(accounts, id)
		}
	}
	return accounts, nil
}

// GetSystemAccount retrieves one of the owner's provisioned system accounts.
func (s *accountService) GetSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	return s.accountRepo.FindSystemAccount(ctx, ownerID, accountType)
}

// ListAccounts retrieves the owner's accounts.
func (s *accountService) ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, ownerID, includeInactive)
}

// UpdateAccount updates an account's mutable metadata.
func (s *accountService) UpdateAccount(ctx context.Context, ownerID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	account, err := s.GetAccountByID(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}
	if account.IsSystem {
		return nil, fmt.Errorf("%w: system accounts cannot be modified", apperrors.ErrValidation)
	}

	updated := false
	if req.Name != nil && *req.Name != "" {
		account.Name = *req.Name
		updated = true
	}
	if req.CreditLimit != nil {
		if account.AccountType != domain.CreditCard {
			return nil, fmt.Errorf("%w: credit limit only applies to credit cards", apperrors.ErrValidation)
		}
		account.CreditLimit = req.CreditLimit
		updated = true
	}
	if req.AnnualRate != nil {
		account.AnnualRate = req.AnnualRate
		updated = true
	}
	if !updated {
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = ownerID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

// DeactivateAccount marks an account inactive. Its history stays; only a zero
// balance may retire, so past reports keep adding up.
func (s *accountService) DeactivateAccount(ctx context.Context, ownerID, accountID string) error {
	logger := logging.FromCtx(ctx)

	account, err := s.GetAccountByID(ctx, ownerID, accountID)
	if err != nil {
		return err
	}
	if account.IsSystem {
		return fmt.Errorf("%w: system accounts cannot be deactivated", apperrors.ErrValidation)
	}
	if !account.Balance.IsZero() {
		return fmt.Errorf("%w: account %s still carries a balance of %s", apperrors.ErrValidation, accountID, account.Balance.String())
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, ownerID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
