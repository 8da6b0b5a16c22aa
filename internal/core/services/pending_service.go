package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
)

// pendingService resolves pending transactions. Approval posts the proposed
// event and marks the record in one commit; rejection and expiry only move
// the record through the transition table.
type pendingService struct {
	pendingRepo portsrepo.PendingRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerRepositoryFacade
	poster      *groupPoster
	cfg         *config.Config
}

// NewPendingService creates a new PendingService.
func NewPendingService(
	pendingRepo portsrepo.PendingRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	ownerRepo portsrepo.OwnerRepositoryFacade,
	poster *groupPoster,
	cfg *config.Config,
) portssvc.PendingSvcFacade {
	return &pendingService{
		pendingRepo: pendingRepo,
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		poster:      poster,
		cfg:         cfg,
	}
}

var _ portssvc.PendingSvcFacade = (*pendingService)(nil)

// ListPending returns the owner's pending records, oldest due date first.
func (s *pendingService) ListPending(ctx context.Context, ownerID string, status domain.PendingStatus) ([]dto.PendingResponse, error) {
	records, err := s.pendingRepo.ListPending(ctx, ownerID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	out := make([]dto.PendingResponse, len(records))
	for i, p := range records {
		out[i] = dto.ToPendingResponse(p)
	}
	return out, nil
}

// Approve posts the pending event and marks the record approved, atomically.
// actualAmount overrides the estimate; nil falls back to it.
func (s *pendingService) Approve(ctx context.Context, ownerID, pendingID string, actualAmount *decimal.Decimal) (*domain.TransactionGroup, error) {
	logger := logging.FromCtx(ctx)

	pending, err := s.findOwnedPending(ctx, ownerID, pendingID)
	if err != nil {
		return nil, err
	}
	if !pending.Status.CanTransitionTo(domain.PendingApproved) {
		return nil, fmt.Errorf("%w: pending transaction %s is %s", apperrors.ErrAlreadyResolved, pendingID, pending.Status)
	}

	amount := pending.EstimatedAmount
	if actualAmount != nil {
		amount = *actualAmount
	}
	if err := accounting.ValidateAmount(amount); err != nil {
		return nil, err
	}

	lines, kind, err := s.approvalLines(ctx, *pending, amount)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	extras := &portsrepo.SaveGroupExtras{
		Resolution: &portsrepo.PendingResolution{
			PendingID:    pendingID,
			Status:       domain.PendingApproved,
			ActualAmount: amount,
			ResolvedAt:   now,
		},
	}
	if pending.Kind == domain.PendingInterestKind {
		extras.InterestStamp = &portsrepo.InterestStamp{
			AccountID: s.interestAccountID(*pending),
			Date:      pending.DueDate,
		}
	}

	group, err := s.poster.post(ctx, ownerID, groupSpec{
		date:        pending.DueDate,
		kind:        kind,
		description: pending.Description,
		lines:       lines,
		extras:      extras,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Pending transaction approved",
		slog.String("pending_id", pendingID),
		slog.String("group_id", group.GroupID),
		slog.String("amount", amount.String()))
	return group, nil
}

// approvalLines builds the legs the approval should post for the pending kind.
func (s *pendingService) approvalLines(ctx context.Context, pending domain.PendingTransaction, amount decimal.Decimal) ([]entryLine, domain.GroupKind, error) {
	switch pending.Kind {
	case domain.PendingExpenseKind:
		expense, err := s.accountRepo.FindSystemAccount(ctx, pending.OwnerID, domain.Expense)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find expense account: %w", err)
		}
		return []entryLine{
			{accountID: expense.AccountID, side: domain.Debit, amount: amount, categoryID: pending.CategoryID},
			{accountID: pending.AccountID, side: domain.Credit, amount: amount, categoryID: pending.CategoryID},
		}, domain.KindExpense, nil

	case domain.PendingIncomeKind:
		income, err := s.accountRepo.FindSystemAccount(ctx, pending.OwnerID, domain.Income)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find income account: %w", err)
		}
		return []entryLine{
			{accountID: pending.AccountID, side: domain.Debit, amount: amount},
			{accountID: income.AccountID, side: domain.Credit, amount: amount},
		}, domain.KindIncome, nil

	case domain.PendingInterestKind:
		interestExpense, err := s.accountRepo.FindSystemAccount(ctx, pending.OwnerID, domain.InterestExpense)
		if err != nil {
			return nil, "", fmt.Errorf("failed to find interest expense account: %w", err)
		}
		return []entryLine{
			{accountID: interestExpense.AccountID, side: domain.Debit, amount: amount},
			{accountID: s.interestAccountID(pending), side: domain.Credit, amount: amount},
		}, domain.KindInterest, nil

	default:
		return nil, "", fmt.Errorf("unknown pending kind %q for %s", pending.Kind, pending.PendingID)
	}
}

// interestAccountID is the liability account an interest charge lands on.
func (s *pendingService) interestAccountID(pending domain.PendingTransaction) string {
	if pending.RelatedAccountID != nil {
		return *pending.RelatedAccountID
	}
	return pending.AccountID
}

// Reject marks the record rejected without posting anything.
func (s *pendingService) Reject(ctx context.Context, ownerID, pendingID string) error {
	logger := logging.FromCtx(ctx)

	if _, err := s.findOwnedPending(ctx, ownerID, pendingID); err != nil {
		return err
	}
	if err := s.pendingRepo.ResolvePending(ctx, ownerID, pendingID, domain.PendingRejected, time.Now().UTC()); err != nil {
		return err
	}
	logger.Info("Pending transaction rejected", slog.String("pending_id", pendingID))
	return nil
}

// ExpireStale expires the owner's pending records whose due date lies further
// behind the simulated date than the configured window.
func (s *pendingService) ExpireStale(ctx context.Context, ownerID string) (int, error) {
	logger := logging.FromCtx(ctx)

	if s.cfg == nil || s.cfg.PendingExpiryDays <= 0 {
		return 0, nil
	}
	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to find owner: %w", err)
	}

	cutoff := owner.CurrentDate.AddDays(-s.cfg.PendingExpiryDays)
	expired, err := s.pendingRepo.ExpirePendingBefore(ctx, ownerID, cutoff, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to expire pending transactions: %w", err)
	}
	if expired > 0 {
		logger.Info("Expired stale pending transactions", slog.Int("count", expired), slog.String("cutoff", cutoff.String()))
	}
	return expired, nil
}

func (s *pendingService) findOwnedPending(ctx context.Context, ownerID, pendingID string) (*domain.PendingTransaction, error) {
	pending, err := s.pendingRepo.FindPendingByID(ctx, pendingID)
	if err != nil {
		return nil, fmt.Errorf("failed to find pending transaction %s: %w", pendingID, err)
	}
	if pending.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return pending, nil
}
