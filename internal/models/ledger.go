package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionGroup is the storage representation of one balanced event.
type TransactionGroup struct {
	GroupID          string          `db:"group_id"`
	OwnerID          string          `db:"owner_id"`
	GroupDate        time.Time       `db:"group_date"`
	Description      string          `db:"description"`
	Kind             string          `db:"kind"`
	Status           string          `db:"status"`
	Amount           decimal.Decimal `db:"amount"`
	IsReversal       bool            `db:"is_reversal"`
	OriginalGroupID  *string         `db:"original_group_id"`
	ReversingGroupID *string         `db:"reversing_group_id"`
	AuditFields
}

// LedgerEntry is one append-only debit or credit row.
type LedgerEntry struct {
	EntryID        string          `db:"entry_id"`
	GroupID        string          `db:"group_id"`
	OwnerID        string          `db:"owner_id"`
	AccountID      string          `db:"account_id"`
	Side           string          `db:"side"`
	Amount         decimal.Decimal `db:"amount"`
	Description    string          `db:"description"`
	CategoryID     *string         `db:"category_id"`
	RunningBalance decimal.Decimal `db:"running_balance"`
	GroupDate      time.Time       `db:"group_date"` // Joined from transaction_groups in listings
	AuditFields
}
