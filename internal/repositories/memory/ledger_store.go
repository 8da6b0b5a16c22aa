package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/utils/accounting"
	"github.com/fincast/fincast/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// SaveGroup appends a group, its entries and the cached-balance deltas
// atomically, together with any extras. All checks run before the first
// mutation so a failure leaves the store untouched.
func (s *Store) SaveGroup(ctx context.Context, group domain.TransactionGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, extras *portsrepo.SaveGroupExtras) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.groups[group.GroupID]; exists {
		return fmt.Errorf("%w: group %s already exists", apperrors.ErrDuplicate, group.GroupID)
	}
	for accountID := range balanceChanges {
		if _, ok := s.accounts[accountID]; !ok {
			return apperrors.NewNotFoundError("account " + accountID + " not found while saving group")
		}
	}
	for _, entry := range entries {
		if _, ok := s.accounts[entry.AccountID]; !ok {
			return apperrors.NewNotFoundError("account " + entry.AccountID + " not found while saving group")
		}
	}
	if extras != nil {
		if p := extras.Progress; p != nil {
			if _, ok := s.recurring[p.DefinitionID]; !ok {
				return apperrors.NewNotFoundError("recurring definition " + p.DefinitionID + " not found while committing progress")
			}
		}
		if res := extras.Resolution; res != nil {
			pending, ok := s.pending[res.PendingID]
			if !ok {
				return apperrors.NewNotFoundError("pending transaction " + res.PendingID + " not found while committing resolution")
			}
			if pending.Status != domain.PendingOpen {
				return fmt.Errorf("%w: pending transaction %s", apperrors.ErrAlreadyResolved, res.PendingID)
			}
		}
		if lu := extras.LoanUpdate; lu != nil {
			if _, ok := s.loans[lu.Loan.LoanID]; !ok {
				return apperrors.NewNotFoundError("loan " + lu.Loan.LoanID + " not found while committing payment")
			}
		}
		if stamp := extras.InterestStamp; stamp != nil {
			if _, ok := s.accounts[stamp.AccountID]; !ok {
				return apperrors.NewNotFoundError("account " + stamp.AccountID + " not found while stamping interest date")
			}
		}
	}

	// Running balances fold from the pre-update balances, per account, in
	// entry order.
	runningBalances := make(map[string]decimal.Decimal)
	for accountID := range balanceChanges {
		runningBalances[accountID] = s.accounts[accountID].Balance
	}
	stamped := make([]domain.LedgerEntry, len(entries))
	for i, entry := range entries {
		acc := s.accounts[entry.AccountID]
		signed, err := accounting.SignedAmount(entry.Side, entry.Amount, acc.AccountType)
		if err != nil {
			return err
		}
		runningBalances[entry.AccountID] = runningBalances[entry.AccountID].Add(signed)
		entry.RunningBalance = runningBalances[entry.AccountID]
		stamped[i] = entry
	}

	for accountID, delta := range balanceChanges {
		acc := s.accounts[accountID]
		acc.Balance = acc.Balance.Add(delta)
		acc.Version++
		acc.LastUpdatedAt = group.CreatedAt
		acc.LastUpdatedBy = group.CreatedBy
		s.accounts[accountID] = acc
	}

	stored := group
	stored.Entries = nil
	s.groups[group.GroupID] = stored
	s.entries = append(s.entries, stamped...)

	if extras != nil {
		if p := extras.Progress; p != nil {
			def := s.recurring[p.DefinitionID]
			def.LastProcessed = p.ProcessedThrough
			def.LastUpdatedAt = group.CreatedAt
			def.LastUpdatedBy = group.CreatedBy
			s.recurring[p.DefinitionID] = def
		}
		if res := extras.Resolution; res != nil {
			pending := s.pending[res.PendingID]
			pending.Status = res.Status
			actual := res.ActualAmount
			pending.ActualAmount = &actual
			resolvedAt := res.ResolvedAt
			pending.ResolvedAt = &resolvedAt
			pending.LastUpdatedAt = group.CreatedAt
			pending.LastUpdatedBy = group.CreatedBy
			s.pending[res.PendingID] = pending
		}
		if lu := extras.LoanUpdate; lu != nil {
			s.loans[lu.Loan.LoanID] = lu.Loan
			payment := lu.Payment
			payment.GroupID = group.GroupID
			s.payments = append(s.payments, payment)
		}
		if stamp := extras.InterestStamp; stamp != nil {
			acc := s.accounts[stamp.AccountID]
			date := stamp.Date
			acc.LastInterestDate = &date
			acc.LastUpdatedAt = group.CreatedAt
			acc.LastUpdatedBy = group.CreatedBy
			s.accounts[stamp.AccountID] = acc
		}
	}

	return nil
}

// UpdateGroupStatusAndLinks marks a group reversed and records the linkage.
func (s *Store) UpdateGroupStatusAndLinks(ctx context.Context, groupID string, status domain.GroupStatus, reversingGroupID *string, updatedBy string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	group, ok := s.groups[groupID]
	if !ok {
		return apperrors.NewNotFoundError("group " + groupID + " not found for update")
	}
	group.Status = status
	group.ReversingGroupID = reversingGroupID
	group.LastUpdatedAt = updatedAt
	group.LastUpdatedBy = updatedBy
	s.groups[groupID] = group
	return nil
}

// UpdateGroupCategory relabels the debit entries of an owner's group with a
// new category and reports how many entries changed.
func (s *Store) UpdateGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string, updatedBy string, updatedAt time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for i := range s.entries {
		if s.entries[i].OwnerID != ownerID || s.entries[i].GroupID != groupID {
			continue
		}
		if s.entries[i].Side != domain.Debit {
			continue
		}
		s.entries[i].CategoryID = categoryID
		s.entries[i].LastUpdatedAt = updatedAt
		s.entries[i].LastUpdatedBy = updatedBy
		updated++
	}
	return updated, nil
}

// FindGroupByID retrieves a group by its ID.
func (s *Store) FindGroupByID(ctx context.Context, groupID string) (*domain.TransactionGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	group, ok := s.groups[groupID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &group, nil
}

// FindEntriesByGroupID retrieves all entries of one group in insertion order.
func (s *Store) FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []domain.LedgerEntry{}
	for _, entry := range s.entries {
		if entry.GroupID == groupID {
			result = append(result, entry)
		}
	}
	return result, nil
}

// ListEntries pages through an owner's ledger, newest group date first.
func (s *Store) ListEntries(ctx context.Context, ownerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []domain.LedgerEntry{}
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID {
			continue
		}
		if !filter.IncludeReversals {
			group := s.groups[entry.GroupID]
			if group.Status != domain.Posted || group.IsReversal {
				continue
			}
		}
		if filter.AccountID != "" && entry.AccountID != filter.AccountID {
			continue
		}
		if filter.From != nil && !filter.From.IsZero() && entry.GroupDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !filter.To.IsZero() && entry.GroupDate.After(*filter.To) {
			continue
		}
		matched = append(matched, entry)
	}

	// Entries of one group share CreatedAt, so the entry ID completes the
	// ordering the same way the SQL tuple cursor does.
	sort.SliceStable(matched, func(i, j int) bool {
		if c := matched[i].GroupDate.Compare(matched[j].GroupDate); c != 0 {
			return c > 0
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].EntryID > matched[j].EntryID
	})

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastEntryID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		after := []domain.LedgerEntry{}
		for _, entry := range matched {
			date := entry.GroupDate.Time()
			switch {
			case date.Before(lastDate):
				after = append(after, entry)
			case date.Equal(lastDate) && entry.CreatedAt.Before(lastCreatedAt):
				after = append(after, entry)
			case date.Equal(lastDate) && entry.CreatedAt.Equal(lastCreatedAt) && entry.EntryID < lastEntryID:
				after = append(after, entry)
			}
		}
		matched = after
	}

	var token *string
	if len(matched) > limit {
		last := matched[limit-1]
		t := pagination.EncodeToken(last.GroupDate.Time(), last.CreatedAt, last.EntryID)
		token = &t
		matched = matched[:limit]
	}

	return matched, token, nil
}

// SumEntries folds an account's entries into the raw debit-minus-credit
// total. A zero asOf applies no upper bound.
func (s *Store) SumEntries(ctx context.Context, ownerID, accountID string, asOf domain.Date) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := decimal.Zero
	for _, entry := range s.entries {
		if entry.OwnerID != ownerID || entry.AccountID != accountID {
			continue
		}
		if !asOf.IsZero() && entry.GroupDate.After(asOf) {
			continue
		}
		if entry.Side == domain.Debit {
			sum = sum.Add(entry.Amount)
		} else {
			sum = sum.Sub(entry.Amount)
		}
	}
	return sum, nil
}
