package repositories

import (
	"context"
	"time"

	"github.com/fincast/fincast/internal/core/domain"
)

// PendingRepositoryFacade stores pending transactions. Records are never
// deleted; resolution only moves them through the status transition table.
type PendingRepositoryFacade interface {
	// SavePending persists a new pending record (status PENDING).
	SavePending(ctx context.Context, pending domain.PendingTransaction) error

	// SavePendingWithProgress persists a pending record and advances the
	// originating definition's last-processed date in the same commit.
	SavePendingWithProgress(ctx context.Context, pending domain.PendingTransaction, progress RecurringProgress) error

	// SavePendingWithStamp persists a pending interest charge and stamps the
	// card's last-interest date in the same commit, so a charge is never
	// proposed twice for the same window.
	SavePendingWithStamp(ctx context.Context, pending domain.PendingTransaction, stamp InterestStamp) error

	FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error)

	// ListPending returns an owner's pending records, oldest due date first.
	// An empty status matches all statuses.
	ListPending(ctx context.Context, ownerID string, status domain.PendingStatus) ([]domain.PendingTransaction, error)

	// ResolvePending transitions a record out of PENDING without posting
	// (reject / expire). Returns apperrors.ErrAlreadyResolved when the record
	// is no longer pending.
	ResolvePending(ctx context.Context, ownerID, pendingID string, status domain.PendingStatus, resolvedAt time.Time) error

	// ExpirePendingBefore expires every pending record of the owner whose due
	// date is strictly before cutoff, returning how many were expired.
	ExpirePendingBefore(ctx context.Context, ownerID string, cutoff domain.Date, resolvedAt time.Time) (int, error)
}
