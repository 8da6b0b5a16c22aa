package repositories

import (
	"context"
	"time"

	"github.com/fincast/fincast/internal/core/domain"
)

// OwnerRepositoryFacade stores owners and their simulated current dates.
type OwnerRepositoryFacade interface {
	SaveOwner(ctx context.Context, owner domain.Owner) error

	FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error)

	FindOwnerByUsername(ctx context.Context, username string) (*domain.Owner, error)

	// ListOwnerIDs returns the IDs of all live owners, for batch jobs.
	ListOwnerIDs(ctx context.Context) ([]string, error)

	// UpdateCurrentDate persists the owner's simulated "today".
	UpdateCurrentDate(ctx context.Context, ownerID string, date domain.Date, updatedAt time.Time) error

	// DeleteOwner soft-deletes the owner and removes all dependent rows
	// (accounts, ledger, recurring, pending, loans) in one transaction.
	DeleteOwner(ctx context.Context, ownerID string, deletedAt time.Time) error
}
