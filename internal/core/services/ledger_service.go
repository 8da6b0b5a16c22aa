package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
)

const defaultListLimit = 50

// ledgerService provides balance reads, history listings and reconciliation.
type ledgerService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// GetBalance returns the account balance. With no asOf the cached balance is
// returned directly; with an asOf the balance is recomputed by folding the
// ledger up to that date, signed by the account's polarity.
func (s *ledgerService) GetBalance(ctx context.Context, ownerID, accountID string, asOf *domain.Date) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.OwnerID != ownerID {
		return decimal.Zero, apperrors.ErrNotFound
	}

	if asOf == nil || asOf.IsZero() {
		return account.Balance, nil
	}

	return s.computeBalance(ctx, ownerID, *account, *asOf)
}

// computeBalance folds the account's entries up to asOf (zero means
// unbounded) and applies the polarity sign convention.
func (s *ledgerService) computeBalance(ctx context.Context, ownerID string, account domain.Account, asOf domain.Date) (decimal.Decimal, error) {
	raw, err := s.ledgerRepo.SumEntries(ctx, ownerID, account.AccountID, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fold entries for account %s: %w", account.AccountID, err)
	}
	polarity, err := accounting.PolarityOf(account.AccountType)
	if err != nil {
		return decimal.Zero, err
	}
	if polarity.DebitIncreases {
		return raw, nil
	}
	return raw.Neg(), nil
}

// ListEntries pages through the owner's ledger, newest first.
func (s *ledgerService) ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(params); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	if params.AccountID != "" {
		// Listing a foreign account must look identical to listing an empty one.
		if _, err := s.accountOwnedBy(ctx, ownerID, params.AccountID); err != nil {
			return nil, err
		}
	}

	filter := portsrepo.EntryFilter{
		AccountID:        params.AccountID,
		From:             params.From,
		To:               params.To,
		IncludeReversals: params.IncludeReversals,
	}

	entries, nextToken, err := s.ledgerRepo.ListEntries(ctx, ownerID, filter, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list ledger entries", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	logger.Debug("Ledger entries listed", slog.Int("count", len(entries)))
	return &dto.ListEntriesResponse{
		Entries:   dto.ToEntryResponses(entries),
		NextToken: nextToken,
	}, nil
}

// ReconcileBalances recomputes every cached balance from the entry fold and
// reports mismatches. Nothing is corrected; a dirty result means a bug or
// out-of-band data change that needs investigation, not silent repair.
func (s *ledgerService) ReconcileBalances(ctx context.Context, ownerID string) (*dto.ReconcileResponse, error) {
	logger := logging.FromCtx(ctx)

	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	resp := &dto.ReconcileResponse{
		Accounts: make(map[string]dto.ReconcileEntry, len(accounts)),
		Clean:    true,
	}

	for _, account := range accounts {
		computed, err := s.computeBalance(ctx, ownerID, account, domain.Date{})
		if err != nil {
			return nil, fmt.Errorf("failed to recompute balance for account %s: %w", account.AccountID, err)
		}
		matched := account.Balance.Equal(computed)
		if !matched {
			resp.Clean = false
			logger.Warn("Cached balance does not match ledger fold",
				slog.String("account_id", account.AccountID),
				slog.String("cached", account.Balance.String()),
				slog.String("computed", computed.String()))
		}
		resp.Accounts[account.AccountID] = dto.ReconcileEntry{
			AccountID: account.AccountID,
			Cached:    account.Balance,
			Computed:  computed,
			Matched:   matched,
		}
	}

	logger.Info("Reconciliation complete", slog.Int("accounts", len(accounts)), slog.Bool("clean", resp.Clean))
	return resp, nil
}

func (s *ledgerService) accountOwnedBy(ctx context.Context, ownerID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if account.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}
