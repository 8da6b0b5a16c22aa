package repositories

import (
	"context"

	"github.com/fincast/fincast/internal/core/domain"
)

// LoanRepositoryFacade stores loans and their payment history. Outstanding
// balances change only through SaveGroupExtras.LoanUpdate, in lock-step with
// the payment's ledger group.
type LoanRepositoryFacade interface {
	SaveLoan(ctx context.Context, loan domain.Loan) error

	FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error)

	ListLoans(ctx context.Context, ownerID string, includePaid bool) ([]domain.Loan, error)

	// ListPayments returns a loan's payment history, newest first.
	ListPayments(ctx context.Context, ownerID, loanID string) ([]domain.LoanPayment, error)
}
