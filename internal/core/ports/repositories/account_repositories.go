package repositories

import (
	"context"
	"time"

	"github.com/fincast/fincast/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindSystemAccount retrieves the owner's system account of the given type
	// (Income, Expense, InterestExpense, Equity).
	FindSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error)

	// ListAccounts retrieves all accounts for an owner, active ones first.
	ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data. Cached balances
// are NOT written here; they change only inside LedgerWriter.SaveGroup.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an account's mutable metadata (name, credit
	// limit, interest rate).
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive.
	DeactivateAccount(ctx context.Context, accountID string, updatedBy string, now time.Time) error
}

// AccountRepositoryFacade combines account read and write operations.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
