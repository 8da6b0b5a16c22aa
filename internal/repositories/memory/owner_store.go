package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
)

// SaveOwner persists a new owner.
func (s *Store) SaveOwner(ctx context.Context, owner domain.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.owners[owner.OwnerID]; exists {
		return fmt.Errorf("%w: owner %s already exists", apperrors.ErrDuplicate, owner.OwnerID)
	}
	for _, existing := range s.owners {
		if existing.DeletedAt == nil && existing.Username == owner.Username {
			return fmt.Errorf("%w: username %s already taken", apperrors.ErrDuplicate, owner.Username)
		}
	}
	s.owners[owner.OwnerID] = owner
	return nil
}

// FindOwnerByID retrieves an owner by ID. Soft-deleted owners are invisible.
func (s *Store) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owner, ok := s.owners[ownerID]
	if !ok || owner.DeletedAt != nil {
		return nil, apperrors.ErrNotFound
	}
	return &owner, nil
}

// FindOwnerByUsername retrieves an owner by username.
func (s *Store) FindOwnerByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, owner := range s.owners {
		if owner.DeletedAt == nil && owner.Username == username {
			return &owner, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// ListOwnerIDs returns the IDs of all live owners.
func (s *Store) ListOwnerIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := []string{}
	for _, owner := range s.owners {
		if owner.DeletedAt == nil {
			ids = append(ids, owner.OwnerID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// UpdateCurrentDate persists the owner's simulated "today".
func (s *Store) UpdateCurrentDate(ctx context.Context, ownerID string, date domain.Date, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[ownerID]
	if !ok || owner.DeletedAt != nil {
		return apperrors.NewNotFoundError("owner " + ownerID + " not found for update")
	}
	owner.CurrentDate = date
	owner.LastUpdatedAt = updatedAt
	owner.LastUpdatedBy = ownerID
	s.owners[ownerID] = owner
	return nil
}

// DeleteOwner soft-deletes the owner and removes all dependent rows.
func (s *Store) DeleteOwner(ctx context.Context, ownerID string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	owner, ok := s.owners[ownerID]
	if !ok || owner.DeletedAt != nil {
		return apperrors.NewNotFoundError("owner " + ownerID + " not found for delete")
	}
	owner.DeletedAt = &deletedAt
	owner.LastUpdatedAt = deletedAt
	owner.LastUpdatedBy = ownerID
	s.owners[ownerID] = owner

	for id, acc := range s.accounts {
		if acc.OwnerID == ownerID {
			delete(s.accounts, id)
		}
	}
	for id, cat := range s.categories {
		if cat.OwnerID == ownerID {
			delete(s.categories, id)
		}
	}
	for id, group := range s.groups {
		if group.OwnerID == ownerID {
			delete(s.groups, id)
		}
	}
	kept := s.entries[:0]
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			kept = append(kept, entry)
		}
	}
	s.entries = kept
	for id, def := range s.recurring {
		if def.OwnerID == ownerID {
			delete(s.recurring, id)
		}
	}
	for id, p := range s.pending {
		if p.OwnerID == ownerID {
			delete(s.pending, id)
		}
	}
	for id, loan := range s.loans {
		if loan.OwnerID == ownerID {
			delete(s.loans, id)
		}
	}
	keptPayments := s.payments[:0]
	for _, payment := range s.payments {
		if payment.OwnerID != ownerID {
			keptPayments = append(keptPayments, payment)
		}
	}
	s.payments = keptPayments

	return nil
}
