package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelGroup converts a domain TransactionGroup to its storage representation.
func ToModelGroup(d domain.TransactionGroup) models.TransactionGroup {
	return models.TransactionGroup{
		GroupID:          d.GroupID,
		OwnerID:          d.OwnerID,
		GroupDate:        ToModelDate(d.Date),
		Description:      d.Description,
		Kind:             string(d.Kind),
		Status:           string(d.Status),
		Amount:           d.Amount,
		IsReversal:       d.IsReversal,
		OriginalGroupID:  d.OriginalGroupID,
		ReversingGroupID: d.ReversingGroupID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainGroup converts a stored transaction group back into the domain type.
func ToDomainGroup(m models.TransactionGroup) domain.TransactionGroup {
	return domain.TransactionGroup{
		GroupID:          m.GroupID,
		OwnerID:          m.OwnerID,
		Date:             ToDomainDate(m.GroupDate),
		Description:      m.Description,
		Kind:             domain.GroupKind(m.Kind),
		Status:           domain.GroupStatus(m.Status),
		Amount:           m.Amount,
		IsReversal:       m.IsReversal,
		OriginalGroupID:  m.OriginalGroupID,
		ReversingGroupID: m.ReversingGroupID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntry converts a domain LedgerEntry to its storage representation.
func ToModelEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:        d.EntryID,
		GroupID:        d.GroupID,
		OwnerID:        d.OwnerID,
		AccountID:      d.AccountID,
		Side:           string(d.Side),
		Amount:         d.Amount,
		Description:    d.Description,
		CategoryID:     d.CategoryID,
		RunningBalance: d.RunningBalance,
		GroupDate:      ToModelDate(d.GroupDate),
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a stored ledger entry back into the domain type.
func ToDomainEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:        m.EntryID,
		GroupID:        m.GroupID,
		OwnerID:        m.OwnerID,
		AccountID:      m.AccountID,
		Side:           domain.EntrySide(m.Side),
		Amount:         m.Amount,
		Description:    m.Description,
		CategoryID:     m.CategoryID,
		RunningBalance: m.RunningBalance,
		GroupDate:      ToDomainDate(m.GroupDate),
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntrySlice converts a slice of stored entries.
func ToDomainEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		out[i] = ToDomainEntry(m)
	}
	return out
}
