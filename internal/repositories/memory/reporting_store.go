package memory

import (
	"context"
	"sort"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// reportedEntry reports whether an entry still counts toward statements.
// Reversal groups and the groups they undid are both excluded.
func (s *Store) reportedEntry(entry domain.LedgerEntry, ownerID string, from, to domain.Date) bool {
	if entry.OwnerID != ownerID {
		return false
	}
	if entry.GroupDate.Before(from) || entry.GroupDate.After(to) {
		return false
	}
	group, ok := s.groups[entry.GroupID]
	if !ok || group.Status != domain.Posted || group.IsReversal {
		return false
	}
	return true
}

func sortedReportLines(totals map[string]decimal.Decimal) []domain.ReportLine {
	lines := make([]domain.ReportLine, 0, len(totals))
	for name, amount := range totals {
		lines = append(lines, domain.ReportLine{Name: name, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if !lines[i].Amount.Equal(lines[j].Amount) {
			return lines[i].Amount.GreaterThan(lines[j].Amount)
		}
		return lines[i].Name < lines[j].Name
	})
	return lines
}

// GetRevenueLines sums credits to income accounts grouped by description.
func (s *Store) GetRevenueLines(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[string]decimal.Decimal{}
	for _, entry := range s.entries {
		if !s.reportedEntry(entry, ownerID, from, to) || entry.Side != domain.Credit {
			continue
		}
		if account, ok := s.accounts[entry.AccountID]; !ok || account.AccountType != domain.Income {
			continue
		}
		totals[entry.Description] = totals[entry.Description].Add(entry.Amount)
	}
	return sortedReportLines(totals), nil
}

// GetExpensesByCategory sums debits to expense accounts grouped by category
// name. Entries without a category land under "Uncategorized".
func (s *Store) GetExpensesByCategory(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals := map[string]decimal.Decimal{}
	for _, entry := range s.entries {
		if !s.reportedEntry(entry, ownerID, from, to) || entry.Side != domain.Debit {
			continue
		}
		account, ok := s.accounts[entry.AccountID]
		if !ok || (account.AccountType != domain.Expense && account.AccountType != domain.InterestExpense) {
			continue
		}
		name := "Uncategorized"
		if entry.CategoryID != nil {
			if category, found := s.categories[*entry.CategoryID]; found {
				name = category.Name
			}
		}
		totals[name] = totals[name].Add(entry.Amount)
	}
	return sortedReportLines(totals), nil
}

// SumSidesByTypes totals the debits and credits booked against accounts of
// the given types over the period.
func (s *Store) SumSidesByTypes(ctx context.Context, ownerID string, types []domain.AccountType, from, to domain.Date) (decimal.Decimal, decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := map[domain.AccountType]bool{}
	for _, t := range types {
		wanted[t] = true
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, entry := range s.entries {
		if !s.reportedEntry(entry, ownerID, from, to) {
			continue
		}
		account, ok := s.accounts[entry.AccountID]
		if !ok || !wanted[account.AccountType] {
			continue
		}
		if entry.Side == domain.Debit {
			debits = debits.Add(entry.Amount)
		} else {
			credits = credits.Add(entry.Amount)
		}
	}
	return debits, credits, nil
}
