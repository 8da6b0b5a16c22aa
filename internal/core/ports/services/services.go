// Package services defines the facades the bookkeeping core exposes to the
// API layer. Every operation is scoped by owner; cross-owner state is never
// shared.
package services

import (
	"context"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/dto"
	"github.com/shopspring/decimal"
)

// PostingSvcFacade is the posting engine: it turns logical events into
// balanced, atomically committed transaction groups.
type PostingSvcFacade interface {
	// Post commits an arbitrary balanced group of lines.
	Post(ctx context.Context, ownerID string, req dto.PostRequest) (*domain.TransactionGroup, error)

	// PostExpense books a two-leg expense: debit the owner's expense account,
	// credit the payment account.
	PostExpense(ctx context.Context, ownerID string, req dto.ExpenseRequest) (*domain.TransactionGroup, error)

	// PostIncome books a two-leg deposit: debit the deposit account, credit
	// the owner's income account.
	PostIncome(ctx context.Context, ownerID string, req dto.IncomeRequest) (*domain.TransactionGroup, error)

	// PostTransfer moves funds between two of the owner's accounts.
	PostTransfer(ctx context.Context, ownerID string, req dto.TransferRequest) (*domain.TransactionGroup, error)

	// RevalueAsset restates an asset to a new value against equity.
	RevalueAsset(ctx context.Context, ownerID string, req dto.RevalueAssetRequest) (*domain.TransactionGroup, error)

	// Reverse appends an offsetting group that negates groupID without
	// touching the original. Fails with apperrors.ErrNotReversible for
	// missing, already-reversed, or reversal groups.
	Reverse(ctx context.Context, ownerID string, groupID string) (*domain.TransactionGroup, error)
}

// LedgerSvcFacade provides balance and history reads plus reconciliation.
type LedgerSvcFacade interface {
	// GetBalance folds all entries for the account up to and including asOf
	// (the owner's simulated date when nil).
	GetBalance(ctx context.Context, ownerID, accountID string, asOf *domain.Date) (decimal.Decimal, error)

	// ListEntries pages through the owner's ledger, newest first.
	ListEntries(ctx context.Context, ownerID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// ReconcileBalances recomputes every cached balance from the entry fold
	// and reports mismatches without correcting them.
	ReconcileBalances(ctx context.Context, ownerID string) (*dto.ReconcileResponse, error)
}

// AccountSvcFacade is the account registry.
type AccountSvcFacade interface {
	CreateAccount(ctx context.Context, ownerID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByID(ctx context.Context, ownerID, accountID string) (*domain.Account, error)
	GetAccountsByIDs(ctx context.Context, ownerID string, accountIDs []string) (map[string]domain.Account, error)
	GetSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error)
	ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, ownerID, accountID string, req dto.UpdateAccountRequest) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, ownerID, accountID string) error
}

// CategorySvcFacade is the expense category registry. Every owner gets a
// default set at registration; the default category absorbs entries whose
// category is deleted.
type CategorySvcFacade interface {
	CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error)
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, ownerID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error)

	// DeleteCategory removes a category, reassigning everything that
	// references it to the owner's default category. The default itself
	// cannot be deleted.
	DeleteCategory(ctx context.Context, ownerID, categoryID string) error

	// SetGroupCategory relabels the debit entries of a posted group, or
	// clears the label when categoryID is nil.
	SetGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string) error
}

// ReportSvcFacade assembles financial statements from the ledger.
type ReportSvcFacade interface {
	// IncomeStatement summarizes revenue by description and expenses by
	// category over [from, to].
	IncomeStatement(ctx context.Context, ownerID string, from, to domain.Date) (*domain.IncomeStatement, error)

	// BalanceSheet states assets, liabilities and derived equity as of a
	// date (the owner's simulated date when nil).
	BalanceSheet(ctx context.Context, ownerID string, asOf *domain.Date) (*domain.BalanceSheet, error)

	// CashFlow splits the period's movement into operating, investing and
	// financing activity.
	CashFlow(ctx context.Context, ownerID string, from, to domain.Date) (*domain.CashFlowStatement, error)
}

// SchedulerSvcFacade advances simulated time and manages recurring definitions.
type SchedulerSvcFacade interface {
	// AdvanceTo materializes every due occurrence in (currentDate, target]
	// and moves the owner's simulated date to target. Re-invoking with the
	// same or an earlier target is a no-op.
	AdvanceTo(ctx context.Context, ownerID string, target domain.Date) (*dto.AdvanceTimeResponse, error)

	// AutoAdvance brings an owner lagging behind wall-clock time up to today.
	AutoAdvance(ctx context.Context, ownerID string) (*dto.AdvanceTimeResponse, error)

	// AccrueCardInterest charges one month of interest on a credit card
	// carrying a balance, at most once every 30 simulated days. Depending on
	// configuration the charge posts immediately or lands as a pending
	// transaction for approval. A nil response means no interest was due.
	AccrueCardInterest(ctx context.Context, ownerID, accountID string) (*dto.PendingResponse, error)

	CreateRecurring(ctx context.Context, ownerID string, req dto.CreateRecurringRequest) (*domain.RecurringDefinition, error)
	UpdateRecurring(ctx context.Context, ownerID, definitionID string, req dto.UpdateRecurringRequest) (*domain.RecurringDefinition, error)
	DeleteRecurring(ctx context.Context, ownerID, definitionID string) error
	ListRecurring(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]domain.RecurringDefinition, error)
}

// PendingSvcFacade resolves pending transactions.
type PendingSvcFacade interface {
	ListPending(ctx context.Context, ownerID string, status domain.PendingStatus) ([]dto.PendingResponse, error)

	// Approve posts the pending event with actualAmount (estimate when nil)
	// and marks the record approved, atomically.
	Approve(ctx context.Context, ownerID, pendingID string, actualAmount *decimal.Decimal) (*domain.TransactionGroup, error)

	// Reject marks the record rejected without posting.
	Reject(ctx context.Context, ownerID, pendingID string) error

	// ExpireStale expires pending records whose due date lies too far before
	// the owner's simulated date, returning how many were expired.
	ExpireStale(ctx context.Context, ownerID string) (int, error)
}

// LoanSvcFacade is the loan amortizer.
type LoanSvcFacade interface {
	CreateLoan(ctx context.Context, ownerID string, req dto.CreateLoanRequest) (*domain.Loan, error)
	GetLoanByID(ctx context.Context, ownerID, loanID string) (*domain.Loan, error)
	ListLoans(ctx context.Context, ownerID string, includePaid bool) ([]domain.Loan, error)

	// ApplyPayment splits one scheduled payment into principal and interest,
	// posts the three-leg group, and updates the outstanding balance in the
	// same commit.
	ApplyPayment(ctx context.Context, ownerID, loanID string, req dto.ApplyLoanPaymentRequest) (*dto.LoanPaymentResponse, error)

	ListPayments(ctx context.Context, ownerID, loanID string) ([]domain.LoanPayment, error)
}

// OwnerSvcFacade manages owners and verifies credentials.
type OwnerSvcFacade interface {
	CreateOwner(ctx context.Context, req dto.CreateOwnerRequest) (*domain.Owner, error)
	GetOwner(ctx context.Context, ownerID string) (*domain.Owner, error)
	VerifyPassword(ctx context.Context, username, password string) (*domain.Owner, error)
	DeleteOwner(ctx context.Context, ownerID string) error
}

// ServiceContainer bundles the wired service facades for the application to use.
type ServiceContainer struct {
	Owner     OwnerSvcFacade
	Account   AccountSvcFacade
	Category  CategorySvcFacade
	Posting   PostingSvcFacade
	Ledger    LedgerSvcFacade
	Scheduler SchedulerSvcFacade
	Pending   PendingSvcFacade
	Loan      LoanSvcFacade
	Report    ReportSvcFacade
}
