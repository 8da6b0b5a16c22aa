// Package memory provides an in-memory implementation of every repository
// port. It backs stateful service tests and local experimentation; semantics
// mirror the pgsql repositories, including atomic group commits and the
// pending resolution guard.
package memory

import (
	"sync"

	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
)

// Store holds all state behind one mutex. A single Store implements every
// repository facade, which is what makes SaveGroup's cross-entity extras
// atomic without a real transaction.
type Store struct {
	mu sync.RWMutex

	owners     map[string]domain.Owner
	accounts   map[string]domain.Account
	categories map[string]domain.Category
	groups     map[string]domain.TransactionGroup
	entries    []domain.LedgerEntry
	recurring  map[string]domain.RecurringDefinition
	pending    map[string]domain.PendingTransaction
	loans      map[string]domain.Loan
	payments   []domain.LoanPayment
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		owners:     make(map[string]domain.Owner),
		accounts:   make(map[string]domain.Account),
		categories: make(map[string]domain.Category),
		groups:     make(map[string]domain.TransactionGroup),
		recurring:  make(map[string]domain.RecurringDefinition),
		pending:    make(map[string]domain.PendingTransaction),
		loans:      make(map[string]domain.Loan),
	}
}

var (
	_ portsrepo.OwnerRepositoryFacade     = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade  = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade    = (*Store)(nil)
	_ portsrepo.RecurringRepositoryFacade = (*Store)(nil)
	_ portsrepo.PendingRepositoryFacade   = (*Store)(nil)
	_ portsrepo.LoanRepositoryFacade      = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade = (*Store)(nil)
)

// NewRepositoryProvider wires one shared store as every repository.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OwnerRepo:     store,
		AccountRepo:   store,
		CategoryRepo:  store,
		LedgerRepo:    store,
		RecurringRepo: store,
		PendingRepo:   store,
		LoanRepo:      store,
		ReportingRepo: store,
	}
}
