package dto

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListEntriesParams filters and paginates ledger listings.
type ListEntriesParams struct {
	AccountID        string       `json:"accountID,omitempty"`
	From             *domain.Date `json:"from,omitempty"`
	To               *domain.Date `json:"to,omitempty"`
	IncludeReversals bool         `json:"includeReversals"`
	Limit            int          `json:"limit" validate:"omitempty,min=1,max=200"`
	NextToken        *string      `json:"nextToken,omitempty"`
}

// EntryResponse is one ledger line in a listing.
type EntryResponse struct {
	EntryID        string          `json:"entryID"`
	GroupID        string          `json:"groupID"`
	AccountID      string          `json:"accountID"`
	Date           domain.Date     `json:"date"`
	Side           string          `json:"side"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description"`
	CategoryID     *string         `json:"categoryID,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// ListEntriesResponse is one page of ledger lines.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryResponse converts a domain entry to its listing shape.
func ToEntryResponse(e domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		EntryID:        e.EntryID,
		GroupID:        e.GroupID,
		AccountID:      e.AccountID,
		Date:           e.GroupDate,
		Side:           string(e.Side),
		Amount:         e.Amount,
		Description:    e.Description,
		CategoryID:     e.CategoryID,
		RunningBalance: e.RunningBalance,
	}
}

// ToEntryResponses converts a slice of domain entries.
func ToEntryResponses(entries []domain.LedgerEntry) []EntryResponse {
	out := make([]EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToEntryResponse(e)
	}
	return out
}
