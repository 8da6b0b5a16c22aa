package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
)

// SaveAccount persists a new account.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.AccountID)
	}
	s.accounts[account.AccountID] = account
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are
// simply absent from the result.
func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := s.accounts[id]; ok {
			result[id] = account
		}
	}
	return result, nil
}

// FindSystemAccount retrieves the owner's system account of the given type.
func (s *Store) FindSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, account := range s.accounts {
		if account.OwnerID == ownerID && account.AccountType == accountType && account.IsSystem {
			return &account, nil
		}
	}
	return nil, apperrors.NewNotFoundError("system account " + string(accountType) + " not found for owner " + ownerID)
}

// ListAccounts retrieves all accounts for an owner, active ones first.
func (s *Store) ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []domain.Account{}
	for _, account := range s.accounts {
		if account.OwnerID != ownerID {
			continue
		}
		if !account.IsActive && !includeInactive {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].IsActive != accounts[j].IsActive {
			return accounts[i].IsActive
		}
		return accounts[i].Name < accounts[j].Name
	})
	return accounts, nil
}

// UpdateAccount updates an account's mutable metadata. The cached balance and
// version are deliberately not written here.
func (s *Store) UpdateAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + account.AccountID + " not found for update")
	}
	existing.Name = account.Name
	existing.CreditLimit = account.CreditLimit
	existing.AnnualRate = account.AnnualRate
	existing.LastUpdatedAt = account.LastUpdatedAt
	existing.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = existing
	return nil
}

// DeactivateAccount marks an account inactive.
func (s *Store) DeactivateAccount(ctx context.Context, accountID string, updatedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + accountID + " not found for deactivation")
	}
	if !account.IsActive {
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	account.IsActive = false
	account.LastUpdatedAt = now
	account.LastUpdatedBy = updatedBy
	s.accounts[accountID] = account
	return nil
}
