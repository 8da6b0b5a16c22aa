package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	OwnerRepo     OwnerRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	CategoryRepo  CategoryRepositoryFacade
	LedgerRepo    LedgerRepositoryFacade
	RecurringRepo RecurringRepositoryFacade
	PendingRepo   PendingRepositoryFacade
	LoanRepo      LoanRepositoryFacade
	ReportingRepo ReportingRepositoryFacade
}
