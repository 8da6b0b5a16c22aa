package repositories

import (
	"context"
	"time"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecurringProgress advances a recurring definition's last-processed date in
// the same commit as the group it produced, so a crash mid-advance leaves the
// date consistent with exactly the occurrences that were posted.
type RecurringProgress struct {
	DefinitionID     string
	ProcessedThrough domain.Date
}

// PendingResolution marks a pending transaction resolved in the same commit as
// the group its approval produced. The store must refuse the resolution (with
// apperrors.ErrAlreadyResolved) if the record is no longer pending.
type PendingResolution struct {
	PendingID    string
	Status       domain.PendingStatus
	ActualAmount decimal.Decimal
	ResolvedAt   time.Time
}

// LoanUpdate persists a loan's new outstanding balance and its payment audit
// row in lock-step with the payment's ledger group. The store fills in
// Payment.GroupID from the group being committed.
type LoanUpdate struct {
	Loan    domain.Loan
	Payment domain.LoanPayment
}

// InterestStamp records the date interest was last charged to an account.
type InterestStamp struct {
	AccountID string
	Date      domain.Date
}

// SaveGroupExtras carries side effects that must commit atomically with a
// transaction group. All fields are optional.
type SaveGroupExtras struct {
	Progress      *RecurringProgress
	Resolution    *PendingResolution
	LoanUpdate    *LoanUpdate
	InterestStamp *InterestStamp
}

// EntryFilter narrows ledger listings.
type EntryFilter struct {
	AccountID        string       // Empty matches all accounts
	From             *domain.Date // Inclusive
	To               *domain.Date // Inclusive
	IncludeReversals bool
}

// LedgerWriter is the posting engine's atomic commit boundary. A group, its
// entries, the cached-balance deltas, and any extras all land in one storage
// transaction; a partial write is never observable.
type LedgerWriter interface {
	// SaveGroup appends a balanced group atomically. balanceChanges maps
	// account ID to the signed delta to apply to its cached balance.
	SaveGroup(ctx context.Context, group domain.TransactionGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, extras *SaveGroupExtras) error

	// UpdateGroupStatusAndLinks marks a group reversed and records the
	// reversal linkage. The group's entries remain untouched.
	UpdateGroupStatusAndLinks(ctx context.Context, groupID string, status domain.GroupStatus, reversingGroupID *string, updatedBy string, updatedAt time.Time) error

	// UpdateGroupCategory relabels the debit entries of an owner's group with
	// a new category, returning how many entries were updated. Amounts, sides
	// and balances stay untouched; only the label moves.
	UpdateGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string, updatedBy string, updatedAt time.Time) (int, error)
}

// LedgerReader provides read access to groups and entries.
type LedgerReader interface {
	FindGroupByID(ctx context.Context, groupID string) (*domain.TransactionGroup, error)

	FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error)

	// ListEntries returns entries for an owner, newest group date first with
	// insertion order as tie-breaker, using token-based cursor pagination.
	ListEntries(ctx context.Context, ownerID string, filter EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// SumEntries folds all entries for an account up to and including asOf,
	// returning the raw debit-minus-credit total. A zero asOf applies no
	// upper bound. Sign convention is applied by the caller from the
	// account's polarity.
	SumEntries(ctx context.Context, ownerID, accountID string, asOf domain.Date) (decimal.Decimal, error)
}

// LedgerRepositoryFacade combines ledger read and write operations.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
