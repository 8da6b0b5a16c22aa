package repositories

import (
	"context"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepositoryFacade provides the aggregate reads behind financial
// statements. All methods exclude reversal groups and groups that have been
// reversed, so a corrected mistake never shows up in a report.
type ReportingRepositoryFacade interface {
	// GetRevenueLines sums credits to the owner's income accounts over
	// [from, to], grouped by entry description, largest first.
	GetRevenueLines(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error)

	// GetExpensesByCategory sums debits to the owner's expense accounts over
	// [from, to], grouped by category name, largest first. Unlabeled entries
	// fall under "Uncategorized".
	GetExpensesByCategory(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error)

	// SumSidesByTypes totals the debit and credit amounts booked against
	// accounts of the given types over [from, to].
	SumSidesByTypes(ctx context.Context, ownerID string, types []domain.AccountType, from, to domain.Date) (debits, credits decimal.Decimal, err error)
}
