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
	"github.com/fincast/fincast/internal/events"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
)

// entryLine is one debit or credit leg of a group being assembled.
type entryLine struct {
	accountID  string
	side       domain.EntrySide
	amount     decimal.Decimal
	categoryID *string
}

// groupSpec describes a balanced group to commit.
type groupSpec struct {
	date            domain.Date
	kind            domain.GroupKind
	description     string
	lines           []entryLine
	isReversal      bool
	originalGroupID *string

	// skipGuards bypasses overdraft and credit-limit checks. Reversals and
	// scheduler-originated postings use it: an obligation falling due must
	// not wedge a time advance on one underfunded account.
	skipGuards bool

	extras *portsrepo.SaveGroupExtras
}

// groupPoster assembles, validates and commits transaction groups. It is the
// single path through which ledger entries come into existence, shared by the
// posting, scheduler, pending and loan services.
type groupPoster struct {
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	categoryRepo portsrepo.CategoryReader
	publisher    events.Publisher
}

func newGroupPoster(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, categoryRepo portsrepo.CategoryReader, publisher events.Publisher) *groupPoster {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &groupPoster{
		ledgerRepo:   ledgerRepo,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		publisher:    publisher,
	}
}

// post validates the spec against the owner's accounts, computes the signed
// balance deltas, and commits the group, its entries and any extras in one
// storage transaction.
func (p *groupPoster) post(ctx context.Context, ownerID string, spec groupSpec) (*domain.TransactionGroup, error) {
	logger := logging.FromCtx(ctx)

	if len(spec.lines) < 2 {
		return nil, fmt.Errorf("%w: transaction group needs at least two lines", apperrors.ErrValidation)
	}
	if spec.description == "" {
		return nil, fmt.Errorf("%w: description is required", apperrors.ErrValidation)
	}
	if spec.date.IsZero() {
		return nil, fmt.Errorf("%w: group date is required", apperrors.ErrValidation)
	}

	accountIDs := make([]string, 0, len(spec.lines))
	seen := make(map[string]struct{}, len(spec.lines))
	for _, line := range spec.lines {
		if _, ok := seen[line.accountID]; !ok {
			seen[line.accountID] = struct{}{}
			accountIDs = append(accountIDs, line.accountID)
		}
	}
	if len(accountIDs) < 2 {
		return nil, fmt.Errorf("%w: transaction group must affect at least two accounts", apperrors.ErrValidation)
	}

	accounts, err := p.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		logger.Error("Failed to fetch accounts for posting", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range accountIDs {
		acc, found := accounts[id]
		if !found || acc.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrUnknownAccount, id)
		}
		if !acc.IsActive && !spec.isReversal {
			return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, id)
		}
	}

	if err := p.checkCategories(ctx, ownerID, spec.lines); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	groupID := uuid.NewString()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     ownerID,
		LastUpdatedAt: now,
		LastUpdatedBy: ownerID,
	}

	entries := make([]domain.LedgerEntry, len(spec.lines))
	for i, line := range spec.lines {
		entries[i] = domain.LedgerEntry{
			EntryID:     uuid.NewString(),
			GroupID:     groupID,
			OwnerID:     ownerID,
			AccountID:   line.accountID,
			Side:        line.side,
			Amount:      line.amount,
			Description: spec.description,
			CategoryID:  line.categoryID,
			GroupDate:   spec.date,
			AuditFields: audit,
		}
	}

	if err := accounting.ValidateGroupBalance(entries); err != nil {
		return nil, err
	}

	balanceChanges := make(map[string]decimal.Decimal, len(accountIDs))
	for _, e := range entries {
		acc := accounts[e.AccountID]
		signed, err := accounting.SignedAmount(e.Side, e.Amount, acc.AccountType)
		if err != nil {
			return nil, fmt.Errorf("calculating balance change for account %s: %w", e.AccountID, err)
		}
		balanceChanges[e.AccountID] = balanceChanges[e.AccountID].Add(signed)
	}

	if !spec.skipGuards {
		if err := p.checkGuards(accounts, balanceChanges); err != nil {
			return nil, err
		}
	}

	group := domain.TransactionGroup{
		GroupID:         groupID,
		OwnerID:         ownerID,
		Date:            spec.date,
		Description:     spec.description,
		Kind:            spec.kind,
		Status:          domain.Posted,
		Amount:          accounting.GroupAmount(entries),
		IsReversal:      spec.isReversal,
		OriginalGroupID: spec.originalGroupID,
		AuditFields:     audit,
	}

	if err := p.ledgerRepo.SaveGroup(ctx, group, entries, balanceChanges, spec.extras); err != nil {
		logger.Error("Failed to save transaction group", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return nil, fmt.Errorf("failed to save transaction group: %w", err)
	}

	logger.Info("Transaction group posted",
		slog.String("group_id", groupID),
		slog.String("kind", string(spec.kind)),
		slog.String("date", spec.date.String()),
		slog.String("amount", group.Amount.String()))

	eventName := events.EventGroupPosted
	if spec.isReversal {
		eventName = events.EventGroupReversed
	}
	if err := p.publisher.PublishGroup(ctx, events.GroupEvent{
		Event:       eventName,
		OwnerID:     ownerID,
		GroupID:     groupID,
		Kind:        string(spec.kind),
		Date:        spec.date.String(),
		Amount:      group.Amount,
		Description: spec.description,
		OccurredAt:  now,
	}); err != nil {
		// Publishing is best-effort; the group is already committed.
		logger.Warn("Failed to publish group event", slog.String("error", err.Error()), slog.String("group_id", groupID))
	}

	group.Entries = entries
	return &group, nil
}

// checkCategories verifies that every category label on the lines names a
// category of this owner. Unlabeled lines need no lookup.
func (p *groupPoster) checkCategories(ctx context.Context, ownerID string, lines []entryLine) error {
	ids := []string{}
	seen := map[string]struct{}{}
	for _, line := range lines {
		if line.categoryID == nil {
			continue
		}
		if _, ok := seen[*line.categoryID]; !ok {
			seen[*line.categoryID] = struct{}{}
			ids = append(ids, *line.categoryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	categories, err := p.categoryRepo.FindCategoriesByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to fetch categories: %w", err)
	}
	for _, id := range ids {
		cat, found := categories[id]
		if !found || cat.OwnerID != ownerID {
			return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, id)
		}
	}
	return nil
}

// checkGuards rejects postings that would overdraw a liquid asset account or
// push a credit card past its limit. Other account types carry no funding
// guard: expense, income and equity accounts accumulate freely, and asset
// revaluations may move in either direction.
func (p *groupPoster) checkGuards(accounts map[string]domain.Account, balanceChanges map[string]decimal.Decimal) error {
	for accountID, delta := range balanceChanges {
		acc := accounts[accountID]
		projected := acc.Balance.Add(delta)

		switch acc.AccountType {
		case domain.Checking, domain.Savings, domain.Cash:
			if projected.IsNegative() {
				return fmt.Errorf("%w: account %s would go to %s", apperrors.ErrInsufficientFunds, acc.Name, projected.String())
			}
		case domain.CreditCard:
			if acc.CreditLimit != nil && projected.GreaterThan(*acc.CreditLimit) {
				return fmt.Errorf("%w: account %s would owe %s against a limit of %s",
					apperrors.ErrInsufficientFunds, acc.Name, projected.String(), acc.CreditLimit.String())
			}
		}
	}
	return nil
}
