package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
)

func (s *Store) savePendingLocked(pending domain.PendingTransaction) error {
	if _, exists := s.pending[pending.PendingID]; exists {
		return fmt.Errorf("%w: pending transaction %s already exists", apperrors.ErrDuplicate, pending.PendingID)
	}
	s.pending[pending.PendingID] = pending
	return nil
}

// SavePending persists a new pending record.
func (s *Store) SavePending(ctx context.Context, pending domain.PendingTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.savePendingLocked(pending)
}

// SavePendingWithProgress persists a pending record and advances its
// definition's last-processed date in one step.
func (s *Store) SavePendingWithProgress(ctx context.Context, pending domain.PendingTransaction, progress portsrepo.RecurringProgress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.recurring[progress.DefinitionID]
	if !ok {
		return apperrors.NewNotFoundError("recurring definition " + progress.DefinitionID + " not found while queueing pending")
	}
	if err := s.savePendingLocked(pending); err != nil {
		return err
	}
	def.LastProcessed = progress.ProcessedThrough
	def.LastUpdatedAt = pending.CreatedAt
	def.LastUpdatedBy = pending.CreatedBy
	s.recurring[progress.DefinitionID] = def
	return nil
}

// SavePendingWithStamp persists a pending interest charge and stamps the
// card's last-interest date in one step.
func (s *Store) SavePendingWithStamp(ctx context.Context, pending domain.PendingTransaction, stamp portsrepo.InterestStamp) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[stamp.AccountID]
	if !ok {
		return apperrors.NewNotFoundError("account " + stamp.AccountID + " not found while queueing interest charge")
	}
	if err := s.savePendingLocked(pending); err != nil {
		return err
	}
	date := stamp.Date
	acc.LastInterestDate = &date
	acc.LastUpdatedAt = pending.CreatedAt
	acc.LastUpdatedBy = pending.CreatedBy
	s.accounts[stamp.AccountID] = acc
	return nil
}

// FindPendingByID retrieves a pending transaction by its ID.
func (s *Store) FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending, ok := s.pending[pendingID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &pending, nil
}

// ListPending returns an owner's pending records, oldest due date first.
func (s *Store) ListPending(ctx context.Context, ownerID string, status domain.PendingStatus) ([]domain.PendingTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pendings := []domain.PendingTransaction{}
	for _, pending := range s.pending {
		if pending.OwnerID != ownerID {
			continue
		}
		if status != "" && pending.Status != status {
			continue
		}
		pendings = append(pendings, pending)
	}
	sort.Slice(pendings, func(i, j int) bool {
		if c := pendings[i].DueDate.Compare(pendings[j].DueDate); c != 0 {
			return c < 0
		}
		return pendings[i].CreatedAt.Before(pendings[j].CreatedAt)
	})
	return pendings, nil
}

// ResolvePending transitions a record out of PENDING without posting anything.
func (s *Store) ResolvePending(ctx context.Context, ownerID, pendingID string, status domain.PendingStatus, resolvedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pending[pendingID]
	if !ok || pending.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}
	if pending.Status != domain.PendingOpen {
		return fmt.Errorf("%w: pending transaction %s", apperrors.ErrAlreadyResolved, pendingID)
	}
	pending.Status = status
	pending.ResolvedAt = &resolvedAt
	pending.LastUpdatedAt = resolvedAt
	pending.LastUpdatedBy = ownerID
	s.pending[pendingID] = pending
	return nil
}

// ExpirePendingBefore expires every pending record due strictly before cutoff.
func (s *Store) ExpirePendingBefore(ctx context.Context, ownerID string, cutoff domain.Date, resolvedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expired := 0
	for id, pending := range s.pending {
		if pending.OwnerID != ownerID || pending.Status != domain.PendingOpen {
			continue
		}
		if !pending.DueDate.Before(cutoff) {
			continue
		}
		pending.Status = domain.PendingExpired
		at := resolvedAt
		pending.ResolvedAt = &at
		pending.LastUpdatedAt = resolvedAt
		pending.LastUpdatedBy = ownerID
		s.pending[id] = pending
		expired++
	}
	return expired, nil
}
