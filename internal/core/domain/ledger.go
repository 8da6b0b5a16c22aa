package domain

import "github.com/shopspring/decimal"

// EntrySide indicates whether a ledger line is a debit or a credit.
type EntrySide string

const (
	Debit  EntrySide = "DEBIT"
	Credit EntrySide = "CREDIT"
)

// Opposite returns the other side.
func (s EntrySide) Opposite() EntrySide {
	if s == Debit {
		return Credit
	}
	return Debit
}

// GroupStatus indicates the state of a transaction group.
type GroupStatus string

const (
	Posted   GroupStatus = "POSTED"
	Reversed GroupStatus = "REVERSED"
)

// GroupKind names the logical event a transaction group records.
type GroupKind string

const (
	KindExpense        GroupKind = "EXPENSE"
	KindIncome         GroupKind = "INCOME"
	KindTransfer       GroupKind = "TRANSFER"
	KindOpeningBalance GroupKind = "OPENING_BALANCE"
	KindRevaluation    GroupKind = "REVALUATION"
	KindLoanPayment    GroupKind = "LOAN_PAYMENT"
	KindInterest       GroupKind = "INTEREST"
	KindReversal       GroupKind = "REVERSAL"
)

// TransactionGroup is a single balanced financial event composed of ledger
// entries. Groups are append-only: a mistaken group is corrected by posting a
// reversal group, never by updating or deleting the original.
type TransactionGroup struct {
	GroupID          string          `json:"groupID"` // Primary key (UUID)
	OwnerID          string          `json:"ownerID"`
	Date             Date            `json:"date"` // Simulated calendar day the event occurred
	Description      string          `json:"description"`
	Kind             GroupKind       `json:"kind"`
	Status           GroupStatus     `json:"status"`
	Amount           decimal.Decimal `json:"amount"` // Total of the debit side
	IsReversal       bool            `json:"isReversal"`
	OriginalGroupID  *string         `json:"originalGroupID,omitempty"`  // Set on reversal groups
	ReversingGroupID *string         `json:"reversingGroupID,omitempty"` // Set on reversed originals
	Entries          []LedgerEntry   `json:"entries,omitempty"`          // Loaded on demand
	AuditFields
}

// LedgerEntry is a single debit or credit line within a transaction group.
type LedgerEntry struct {
	EntryID        string          `json:"entryID"` // Primary key (UUID)
	GroupID        string          `json:"groupID"`
	OwnerID        string          `json:"ownerID"`
	AccountID      string          `json:"accountID"`
	Side           EntrySide       `json:"side"`
	Amount         decimal.Decimal `json:"amount"` // Always positive
	Description    string          `json:"description"`
	CategoryID     *string         `json:"categoryID,omitempty"`
	RunningBalance decimal.Decimal `json:"runningBalance"` // Account balance after this entry
	GroupDate      Date            `json:"groupDate"`      // Denormalized for listings
	AuditFields
}
