package services

import (
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/events"
	"github.com/fincast/fincast/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher events.Publisher) *portssvc.ServiceContainer {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	// Every service that writes ledger entries shares one posting core.
	poster := newGroupPoster(repos.LedgerRepo, repos.AccountRepo, repos.CategoryRepo, publisher)

	container := &portssvc.ServiceContainer{}
	container.Owner = NewOwnerService(repos.OwnerRepo, repos.AccountRepo, repos.CategoryRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.OwnerRepo, poster)
	container.Category = NewCategoryService(repos.CategoryRepo, repos.LedgerRepo)
	container.Posting = NewPostingService(poster, repos.LedgerRepo, repos.AccountRepo, repos.OwnerRepo)
	container.Ledger = NewLedgerService(repos.LedgerRepo, repos.AccountRepo, repos.OwnerRepo)
	container.Scheduler = NewSchedulerService(repos.RecurringRepo, repos.PendingRepo, repos.AccountRepo, repos.CategoryRepo, repos.OwnerRepo, poster, publisher, cfg)
	container.Pending = NewPendingService(repos.PendingRepo, repos.AccountRepo, repos.OwnerRepo, poster, cfg)
	container.Loan = NewLoanService(repos.LoanRepo, repos.AccountRepo, repos.OwnerRepo, poster)
	container.Report = NewReportService(repos.ReportingRepo, repos.AccountRepo, repos.LedgerRepo, repos.OwnerRepo)

	return container
}
