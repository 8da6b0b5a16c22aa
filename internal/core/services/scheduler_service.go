package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/events"
	"github.com/fincast/fincast/internal/platform/config"
	"github.com/fincast/fincast/internal/platform/logging"
	"github.com/fincast/fincast/internal/utils/accounting"
	"github.com/fincast/fincast/internal/utils/recurrence"
)

// minInterestGapDays is the shortest simulated gap between two interest
// charges on the same card.
const minInterestGapDays = 30

// schedulerService advances an owner's simulated date and materializes every
// recurring occurrence that falls due along the way. Each definition's
// last-processed date moves in the same commit as the work it records, which
// makes AdvanceTo safe to re-run from any point.
type schedulerService struct {
	recurringRepo portsrepo.RecurringRepositoryFacade
	pendingRepo   portsrepo.PendingRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	categoryRepo  portsrepo.CategoryReader
	ownerRepo     portsrepo.OwnerRepositoryFacade
	poster        *groupPoster
	publisher     events.Publisher
	cfg           *config.Config
}

// NewSchedulerService creates a new SchedulerService.
func NewSchedulerService(
	recurringRepo portsrepo.RecurringRepositoryFacade,
	pendingRepo portsrepo.PendingRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	categoryRepo portsrepo.CategoryReader,
	ownerRepo portsrepo.OwnerRepositoryFacade,
	poster *groupPoster,
	publisher events.Publisher,
	cfg *config.Config,
) portssvc.SchedulerSvcFacade {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &schedulerService{
		recurringRepo: recurringRepo,
		pendingRepo:   pendingRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		ownerRepo:     ownerRepo,
		poster:        poster,
		publisher:     publisher,
		cfg:           cfg,
	}
}

var _ portssvc.SchedulerSvcFacade = (*schedulerService)(nil)

// AdvanceTo moves the owner's simulated date to target, posting fixed
// occurrences and queueing variable ones as pending transactions. A target on
// or before the current date is a no-op that reports the current state.
func (s *schedulerService) AdvanceTo(ctx context.Context, ownerID string, target domain.Date) (*dto.AdvanceTimeResponse, error) {
	logger := logging.FromCtx(ctx)

	if target.IsZero() {
		return nil, fmt.Errorf("%w: target date is required", apperrors.ErrValidation)
	}

	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	resp := &dto.AdvanceTimeResponse{CurrentDate: owner.CurrentDate}
	if !target.After(owner.CurrentDate) {
		logger.Debug("Advance target not after current date, nothing to do",
			slog.String("current", owner.CurrentDate.String()),
			slog.String("target", target.String()))
		return resp, nil
	}

	definitions, err := s.recurringRepo.ListDefinitions(ctx, ownerID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring definitions: %w", err)
	}

	for _, def := range definitions {
		from := def.LastProcessed
		if from.IsZero() {
			// Never processed: only occurrences after the owner's current
			// date are due, not the whole backlog since the definition's
			// creation month.
			from = owner.CurrentDate
		}
		for _, due := range recurrence.Between(def, from, target) {
			if def.IsVariable {
				if err := s.queuePending(ctx, def, due); err != nil {
					return nil, err
				}
				resp.PendingCreated++
				resp.Log = append(resp.Log, fmt.Sprintf("%s: pending approval for %s (est. %s)",
					due, def.Description, def.EffectiveAmount().StringFixed(2)))
				continue
			}
			if err := s.postOccurrence(ctx, ownerID, def, due); err != nil {
				return nil, err
			}
			resp.PostedCount++
			resp.Log = append(resp.Log, fmt.Sprintf("%s: posted %s (%s)",
				due, def.Description, def.Amount.StringFixed(2)))
		}
	}

	if s.cfg != nil && s.cfg.PendingExpiryDays > 0 {
		cutoff := target.AddDays(-s.cfg.PendingExpiryDays)
		expired, err := s.pendingRepo.ExpirePendingBefore(ctx, ownerID, cutoff, time.Now().UTC())
		if err != nil {
			return nil, fmt.Errorf("failed to expire stale pending transactions: %w", err)
		}
		if expired > 0 {
			resp.Log = append(resp.Log, fmt.Sprintf("expired %d stale pending transaction(s)", expired))
		}
	}

	if err := s.ownerRepo.UpdateCurrentDate(ctx, ownerID, target, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("failed to update current date: %w", err)
	}
	resp.CurrentDate = target

	logger.Info("Simulated time advanced",
		slog.String("owner_id", ownerID),
		slog.String("from", owner.CurrentDate.String()),
		slog.String("to", target.String()),
		slog.Int("posted", resp.PostedCount),
		slog.Int("pending_created", resp.PendingCreated))

	if err := s.publisher.PublishTimeAdvanced(ctx, events.TimeAdvancedEvent{
		Event:          events.EventTimeAdvanced,
		OwnerID:        ownerID,
		CurrentDate:    target.String(),
		PostedCount:    resp.PostedCount,
		PendingCreated: resp.PendingCreated,
		OccurredAt:     time.Now().UTC(),
	}); err != nil {
		logger.Warn("Failed to publish time-advanced event", slog.String("error", err.Error()))
	}

	return resp, nil
}

// postOccurrence books one fixed occurrence and stamps the definition's
// progress in the same commit. Funding guards are skipped: a bill falling due
// must not wedge the advance on one underfunded account.
func (s *schedulerService) postOccurrence(ctx context.Context, ownerID string, def domain.RecurringDefinition, due domain.Date) error {
	var lines []entryLine
	switch def.Kind {
	case domain.RecurringExpense:
		expense, err := s.accountRepo.FindSystemAccount(ctx, ownerID, domain.Expense)
		if err != nil {
			return fmt.Errorf("failed to find expense account: %w", err)
		}
		lines = []entryLine{
			{accountID: expense.AccountID, side: domain.Debit, amount: def.Amount, categoryID: def.CategoryID},
			{accountID: def.AccountID, side: domain.Credit, amount: def.Amount, categoryID: def.CategoryID},
		}
	case domain.RecurringIncome:
		income, err := s.accountRepo.FindSystemAccount(ctx, ownerID, domain.Income)
		if err != nil {
			return fmt.Errorf("failed to find income account: %w", err)
		}
		lines = []entryLine{
			{accountID: def.AccountID, side: domain.Debit, amount: def.Amount},
			{accountID: income.AccountID, side: domain.Credit, amount: def.Amount},
		}
	default:
		return fmt.Errorf("unknown recurring kind %q for definition %s", def.Kind, def.DefinitionID)
	}

	kind := domain.KindExpense
	if def.Kind == domain.RecurringIncome {
		kind = domain.KindIncome
	}

	_, err := s.poster.post(ctx, ownerID, groupSpec{
		date:        due,
		kind:        kind,
		description: def.Description,
		lines:       lines,
		skipGuards:  true,
		extras: &portsrepo.SaveGroupExtras{
			Progress: &portsrepo.RecurringProgress{
				DefinitionID:     def.DefinitionID,
				ProcessedThrough: due,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to post occurrence of %s due %s: %w", def.DefinitionID, due, err)
	}
	return nil
}

// queuePending records a variable occurrence as a pending transaction and
// advances the definition's progress in the same commit.
func (s *schedulerService) queuePending(ctx context.Context, def domain.RecurringDefinition, due domain.Date) error {
	now := time.Now().UTC()
	pending := domain.PendingTransaction{
		PendingID:       uuid.NewString(),
		OwnerID:         def.OwnerID,
		DefinitionID:    &def.DefinitionID,
		Description:     def.Description,
		EstimatedAmount: def.EffectiveAmount(),
		DueDate:         due,
		AccountID:       def.AccountID,
		CategoryID:      def.CategoryID,
		Status:          domain.PendingOpen,
		Kind:            pendingKindFor(def.Kind),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     def.OwnerID,
			LastUpdatedAt: now,
			LastUpdatedBy: def.OwnerID,
		},
	}

	progress := portsrepo.RecurringProgress{
		DefinitionID:     def.DefinitionID,
		ProcessedThrough: due,
	}
	if err := s.pendingRepo.SavePendingWithProgress(ctx, pending, progress); err != nil {
		return fmt.Errorf("failed to queue pending occurrence of %s due %s: %w", def.DefinitionID, due, err)
	}
	return nil
}

func pendingKindFor(kind domain.RecurringKind) domain.PendingKind {
	if kind == domain.RecurringIncome {
		return domain.PendingIncomeKind
	}
	return domain.PendingExpenseKind
}

// AutoAdvance catches an owner lagging behind the wall clock up to today.
func (s *schedulerService) AutoAdvance(ctx context.Context, ownerID string) (*dto.AdvanceTimeResponse, error) {
	return s.AdvanceTo(ctx, ownerID, domain.DateOf(time.Now().UTC()))
}

// AccrueCardInterest charges one month of interest on a credit card carrying
// a balance. The charge lands as a pending transaction for approval unless
// interest auto-posting is configured, and never more than once per 30
// simulated days.
func (s *schedulerService) AccrueCardInterest(ctx context.Context, ownerID, accountID string) (*dto.PendingResponse, error) {
	logger := logging.FromCtx(ctx)

	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find owner: %w", err)
	}

	card, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if card.OwnerID != ownerID || card.AccountType != domain.CreditCard {
		return nil, fmt.Errorf("%w: credit card account %s", apperrors.ErrNotFound, accountID)
	}
	if card.AnnualRate == nil || card.AnnualRate.IsZero() {
		return nil, fmt.Errorf("%w: account %s has no interest rate", apperrors.ErrValidation, accountID)
	}

	if card.LastInterestDate != nil {
		if gap := card.LastInterestDate.DaysApart(owner.CurrentDate); gap < minInterestGapDays {
			logger.Debug("Interest not yet due", slog.String("account_id", accountID), slog.Int("days_since", gap))
			return nil, nil
		}
	}

	// A positive balance on a credit card is carried debt.
	if !card.Balance.IsPositive() {
		return nil, nil
	}

	interest := accounting.MonthlyInterest(card.Balance, *card.AnnualRate)
	if interest.IsZero() {
		return nil, nil
	}
	description := fmt.Sprintf("Interest charge - %s", card.Name)

	if s.cfg != nil && s.cfg.AutoPostInterest {
		interestExpense, err := s.accountRepo.FindSystemAccount(ctx, ownerID, domain.InterestExpense)
		if err != nil {
			return nil, fmt.Errorf("failed to find interest expense account: %w", err)
		}
		_, err = s.poster.post(ctx, ownerID, groupSpec{
			date:        owner.CurrentDate,
			kind:        domain.KindInterest,
			description: description,
			lines: []entryLine{
				{accountID: interestExpense.AccountID, side: domain.Debit, amount: interest},
				{accountID: card.AccountID, side: domain.Credit, amount: interest},
			},
			skipGuards: true,
			extras: &portsrepo.SaveGroupExtras{
				InterestStamp: &portsrepo.InterestStamp{
					AccountID: card.AccountID,
					Date:      owner.CurrentDate,
				},
			},
		})
		if err != nil {
			return nil, err
		}
		logger.Info("Interest posted", slog.String("account_id", accountID), slog.String("amount", interest.String()))
		return nil, nil
	}

	now := time.Now().UTC()
	pending := domain.PendingTransaction{
		PendingID:        uuid.NewString(),
		OwnerID:          ownerID,
		Description:      description,
		EstimatedAmount:  interest,
		DueDate:          owner.CurrentDate,
		AccountID:        card.AccountID,
		RelatedAccountID: &card.AccountID,
		Status:           domain.PendingOpen,
		Kind:             domain.PendingInterestKind,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	stamp := portsrepo.InterestStamp{AccountID: card.AccountID, Date: owner.CurrentDate}
	if err := s.pendingRepo.SavePendingWithStamp(ctx, pending, stamp); err != nil {
		return nil, fmt.Errorf("failed to queue interest charge: %w", err)
	}

	logger.Info("Interest charge pending approval",
		slog.String("account_id", accountID),
		slog.String("amount", interest.String()))
	out := dto.ToPendingResponse(pending)
	return &out, nil
}

// CreateRecurring registers a monthly recurring expense or income definition.
func (s *schedulerService) CreateRecurring(ctx context.Context, ownerID string, req dto.CreateRecurringRequest) (*domain.RecurringDefinition, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}
	if req.EstimatedAmount != nil {
		if err := accounting.ValidateAmount(*req.EstimatedAmount); err != nil {
			return nil, err
		}
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: ID %s", apperrors.ErrUnknownAccount, req.AccountID)
	}
	if account.IsSystem {
		return nil, fmt.Errorf("%w: recurring definitions cannot target system accounts", apperrors.ErrValidation)
	}
	if err := s.checkCategoryOwnership(ctx, ownerID, req.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	def := domain.RecurringDefinition{
		DefinitionID:    uuid.NewString(),
		OwnerID:         ownerID,
		Kind:            req.Kind,
		Description:     req.Description,
		Amount:          req.Amount,
		IsVariable:      req.IsVariable,
		EstimatedAmount: req.EstimatedAmount,
		AccountID:       req.AccountID,
		DueDay:          req.DueDay,
		CategoryID:      req.CategoryID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.recurringRepo.SaveDefinition(ctx, def); err != nil {
		logger.Error("Failed to save recurring definition", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save recurring definition: %w", err)
	}

	logger.Info("Recurring definition created",
		slog.String("definition_id", def.DefinitionID),
		slog.String("kind", string(def.Kind)),
		slog.Int("due_day", def.DueDay))
	return &def, nil
}

// UpdateRecurring edits a definition's user-facing fields. The last-processed
// date is owned by the scheduler and cannot be touched here.
func (s *schedulerService) UpdateRecurring(ctx context.Context, ownerID, definitionID string, req dto.UpdateRecurringRequest) (*domain.RecurringDefinition, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	def, err := s.findOwnedDefinition(ctx, ownerID, definitionID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Description != nil && *req.Description != "" {
		def.Description = *req.Description
		updated = true
	}
	if req.Amount != nil {
		if err := accounting.ValidateAmount(*req.Amount); err != nil {
			return nil, err
		}
		def.Amount = *req.Amount
		updated = true
	}
	if req.IsVariable != nil {
		def.IsVariable = *req.IsVariable
		updated = true
	}
	if req.EstimatedAmount != nil {
		if err := accounting.ValidateAmount(*req.EstimatedAmount); err != nil {
			return nil, err
		}
		def.EstimatedAmount = req.EstimatedAmount
		updated = true
	}
	if req.DueDay != nil {
		def.DueDay = *req.DueDay
		updated = true
	}
	if req.CategoryID != nil {
		if err := s.checkCategoryOwnership(ctx, ownerID, req.CategoryID); err != nil {
			return nil, err
		}
		def.CategoryID = req.CategoryID
		updated = true
	}
	if !updated {
		return def, nil
	}

	now := time.Now().UTC()
	def.LastUpdatedAt = now
	def.LastUpdatedBy = ownerID

	if err := s.recurringRepo.UpdateDefinition(ctx, *def); err != nil {
		logger.Error("Failed to update recurring definition", slog.String("error", err.Error()), slog.String("definition_id", definitionID))
		return nil, fmt.Errorf("failed to update recurring definition: %w", err)
	}
	return def, nil
}

// DeleteRecurring removes a definition. Already-materialized groups and
// pending records stay.
func (s *schedulerService) DeleteRecurring(ctx context.Context, ownerID, definitionID string) error {
	if _, err := s.findOwnedDefinition(ctx, ownerID, definitionID); err != nil {
		return err
	}
	if err := s.recurringRepo.DeleteDefinition(ctx, ownerID, definitionID); err != nil {
		return fmt.Errorf("failed to delete recurring definition: %w", err)
	}
	return nil
}

// ListRecurring returns the owner's definitions, optionally filtered by kind.
func (s *schedulerService) ListRecurring(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]domain.RecurringDefinition, error) {
	return s.recurringRepo.ListDefinitions(ctx, ownerID, kind)
}

// checkCategoryOwnership rejects a category label that does not name one of
// the owner's categories. A nil label is always fine.
func (s *schedulerService) checkCategoryOwnership(ctx context.Context, ownerID string, categoryID *string) error {
	if categoryID == nil {
		return nil
	}
	category, err := s.categoryRepo.FindCategoryByID(ctx, *categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, *categoryID)
		}
		return fmt.Errorf("failed to find category %s: %w", *categoryID, err)
	}
	if category.OwnerID != ownerID {
		return fmt.Errorf("%w: category %s", apperrors.ErrNotFound, *categoryID)
	}
	return nil
}

func (s *schedulerService) findOwnedDefinition(ctx context.Context, ownerID, definitionID string) (*domain.RecurringDefinition, error) {
	def, err := s.recurringRepo.FindDefinitionByID(ctx, definitionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find recurring definition %s: %w", definitionID, err)
	}
	if def.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return def, nil
}
