package repositories

import (
	"context"

	"github.com/fincast/fincast/internal/core/domain"
)

// RecurringRepositoryFacade stores recurring expense and income definitions.
// LastProcessed is advanced only through SaveGroupExtras.Progress or
// SavePendingWithProgress so that it always commits with the work it records.
type RecurringRepositoryFacade interface {
	SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error

	FindDefinitionByID(ctx context.Context, definitionID string) (*domain.RecurringDefinition, error)

	// ListDefinitions returns all definitions for an owner, optionally
	// filtered by kind (empty kind matches both).
	ListDefinitions(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]domain.RecurringDefinition, error)

	// UpdateDefinition updates user-editable fields. LastProcessed is ignored.
	UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error

	DeleteDefinition(ctx context.Context, ownerID, definitionID string) error
}
