package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
)

// postingService turns logical money events into balanced transaction groups.
type postingService struct {
	poster      *groupPoster
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerRepositoryFacade
}

// NewPostingService creates a new PostingService.
func NewPostingService(poster *groupPoster, ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade) portssvc.PostingSvcFacade {
	return &postingService{
		poster:      poster,
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// resolveDate defaults a nil posting date to the owner's simulated "today".
func (s *postingService) resolveDate(ctx context.Context, ownerID string, date *domain.Date) (domain.Date, error) {
	if date != nil && !date.IsZero() {
		return *date, nil
	}
	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return domain.Date{}, fmt.Errorf("failed to resolve posting date: %w", err)
	}
	return owner.CurrentDate, nil
}

// systemAccountID finds the owner's provisioned system account of a type.
func (s *postingService) systemAccountID(ctx context.Context, ownerID string, accountType domain.AccountType) (string, error) {
	acc, err := s.accountRepo.FindSystemAccount(ctx, ownerID, accountType)
	if err != nil {
		return "", fmt.Errorf("failed to find %s system account: %w", accountType, err)
	}
	return acc.AccountID, nil
}

// Post commits an arbitrary balanced group of lines.
func (s *postingService) Post(ctx context.Context, ownerID string, req dto.PostRequest) (*domain.TransactionGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	lines := make([]entryLine, len(req.Lines))
	for i, l := range req.Lines {
		lines[i] = entryLine{
			accountID:  l.AccountID,
			side:       l.Side,
			amount:     l.Amount,
			categoryID: l.CategoryID,
		}
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        req.Date,
		kind:        req.Kind,
		description: req.Description,
		lines:       lines,
	})
}

// PostExpense debits the owner's expense account and credits the payment
// account, so spending shows up on both sides of the books.
func (s *postingService) PostExpense(ctx context.Context, ownerID string, req dto.ExpenseRequest) (*domain.TransactionGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	date, err := s.resolveDate(ctx, ownerID, req.Date)
	if err != nil {
		return nil, err
	}
	expenseAcctID, err := s.systemAccountID(ctx, ownerID, domain.Expense)
	if err != nil {
		return nil, err
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindExpense,
		description: req.Description,
		lines: []entryLine{
			{accountID: expenseAcctID, side: domain.Debit, amount: req.Amount, categoryID: req.CategoryID},
			{accountID: req.AccountID, side: domain.Credit, amount: req.Amount, categoryID: req.CategoryID},
		},
	})
}

// PostIncome debits the deposit account and credits the owner's income account.
func (s *postingService) PostIncome(ctx context.Context, ownerID string, req dto.IncomeRequest) (*domain.TransactionGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	date, err := s.resolveDate(ctx, ownerID, req.Date)
	if err != nil {
		return nil, err
	}
	incomeAcctID, err := s.systemAccountID(ctx, ownerID, domain.Income)
	if err != nil {
		return nil, err
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindIncome,
		description: req.Description,
		lines: []entryLine{
			{accountID: req.AccountID, side: domain.Debit, amount: req.Amount},
			{accountID: incomeAcctID, side: domain.Credit, amount: req.Amount},
		},
	})
}

// PostTransfer moves funds between two of the owner's accounts. The same two
// legs also settle a credit card: debiting the card reduces the debt.
func (s *postingService) PostTransfer(ctx context.Context, ownerID string, req dto.TransferRequest) (*domain.TransactionGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, fmt.Errorf("%w: cannot transfer an account to itself", apperrors.ErrValidation)
	}

	date, err := s.resolveDate(ctx, ownerID, req.Date)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = "Transfer"
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindTransfer,
		description: description,
		lines: []entryLine{
			{accountID: req.ToAccountID, side: domain.Debit, amount: req.Amount},
			{accountID: req.FromAccountID, side: domain.Credit, amount: req.Amount},
		},
	})
}

// RevalueAsset restates a fixed asset or investment to a new value, booking
// the difference against the owner's equity account.
func (s *postingService) RevalueAsset(ctx context.Context, ownerID string, req dto.RevalueAssetRequest) (*domain.TransactionGroup, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if req.NewValue.IsNegative() {
		return nil, fmt.Errorf("%w: asset value cannot be negative", apperrors.ErrInvalidAmount)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: ID %s", apperrors.ErrUnknownAccount, req.AccountID)
	}
	if account.AccountType != domain.FixedAsset && account.AccountType != domain.Investment {
		return nil, fmt.Errorf("%w: account %s is not a revaluable asset", apperrors.ErrValidation, req.AccountID)
	}

	diff := req.NewValue.Sub(account.Balance)
	if diff.IsZero() {
		return nil, fmt.Errorf("%w: account %s is already valued at %s", apperrors.ErrValidation, req.AccountID, req.NewValue.String())
	}

	date, err := s.resolveDate(ctx, ownerID, req.Date)
	if err != nil {
		return nil, err
	}
	equityAcctID, err := s.systemAccountID(ctx, ownerID, domain.Equity)
	if err != nil {
		return nil, err
	}

	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Revaluation of %s", account.Name)
	}

	var lines []entryLine
	if diff.IsPositive() {
		// Appreciation: the asset grows, equity absorbs the gain.
		lines = []entryLine{
			{accountID: req.AccountID, side: domain.Debit, amount: diff},
			{accountID: equityAcctID, side: domain.Credit, amount: diff},
		}
	} else {
		lines = []entryLine{
			{accountID: equityAcctID, side: domain.Debit, amount: diff.Neg()},
			{accountID: req.AccountID, side: domain.Credit, amount: diff.Neg()},
		}
	}

	return s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindRevaluation,
		description: description,
		lines:       lines,
		skipGuards:  true,
	})
}

// Reverse appends an offsetting group that negates the original without
// touching it. The reversal carries the owner's current simulated date and
// back-references link the pair both ways.
func (s *postingService) Reverse(ctx context.Context, ownerID string, groupID string) (*domain.TransactionGroup, error) {
	logger := logging.FromCtx(ctx)

	original, err := s.ledgerRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: group %s", apperrors.ErrNotReversible, groupID)
		}
		logger.Error("Failed to fetch group for reversal", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return nil, fmt.Errorf("failed to retrieve group: %w", err)
	}
	if original.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: group %s", apperrors.ErrNotReversible, groupID)
	}
	if original.Status == domain.Reversed {
		return nil, fmt.Errorf("%w: group %s was already reversed", apperrors.ErrNotReversible, groupID)
	}
	if original.IsReversal {
		return nil, fmt.Errorf("%w: group %s is itself a reversal", apperrors.ErrNotReversible, groupID)
	}

	entries, err := s.ledgerRepo.FindEntriesByGroupID(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve entries for group %s: %w", groupID, err)
	}

	date, err := s.resolveDate(ctx, ownerID, nil)
	if err != nil {
		return nil, err
	}

	lines := make([]entryLine, len(entries))
	for i, e := range entries {
		lines[i] = entryLine{
			accountID:  e.AccountID,
			side:       e.Side.Opposite(),
			amount:     e.Amount,
			categoryID: e.CategoryID,
		}
	}

	reversal, err := s.poster.post(ctx, ownerID, groupSpec{
		date:            date,
		kind:            domain.KindReversal,
		description:     fmt.Sprintf("Reversal of: %s", original.Description),
		lines:           lines,
		isReversal:      true,
		originalGroupID: &original.GroupID,
		skipGuards:      true,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.ledgerRepo.UpdateGroupStatusAndLinks(ctx, original.GroupID, domain.Reversed, &reversal.GroupID, ownerID, now); err != nil {
		logger.Error("Failed to mark original group reversed",
			slog.String("error", err.Error()),
			slog.String("original_group_id", original.GroupID),
			slog.String("reversing_group_id", reversal.GroupID))
		return nil, fmt.Errorf("failed to update original group status: %w", err)
	}

	logger.Info("Group reversed", slog.String("original_group_id", original.GroupID), slog.String("reversing_group_id", reversal.GroupID))
	return reversal, nil
}
