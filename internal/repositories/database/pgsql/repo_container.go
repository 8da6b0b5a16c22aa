package pgsql

import (
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	ownerRepo := newPgxOwnerRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	recurringRepo := newPgxRecurringRepository(dbPool)
	pendingRepo := newPgxPendingRepository(dbPool)
	loanRepo := newPgxLoanRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		OwnerRepo:     ownerRepo,
		AccountRepo:   accountRepo,
		CategoryRepo:  categoryRepo,
		LedgerRepo:    ledgerRepo,
		RecurringRepo: recurringRepo,
		PendingRepo:   pendingRepo,
		LoanRepo:      loanRepo,
		ReportingRepo: reportingRepo,
	}
}
