package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingStatus is the resolution state of a pending transaction.
type PendingStatus string

const (
	PendingOpen     PendingStatus = "PENDING"
	PendingApproved PendingStatus = "APPROVED"
	PendingRejected PendingStatus = "REJECTED"
	PendingExpired  PendingStatus = "EXPIRED"
)

// pendingTransitions is the closed transition table for pending records.
// Anything not listed here is rejected.
var pendingTransitions = map[PendingStatus][]PendingStatus{
	PendingOpen: {PendingApproved, PendingRejected, PendingExpired},
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
func (s PendingStatus) CanTransitionTo(next PendingStatus) bool {
	for _, allowed := range pendingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PendingKind names the ledger event an approval would produce.
type PendingKind string

const (
	PendingExpenseKind  PendingKind = "EXPENSE"
	PendingIncomeKind   PendingKind = "INCOME"
	PendingInterestKind PendingKind = "INTEREST"
)

// PendingTransaction is a proposed ledger event awaiting approval, rejection,
// or expiration. Records are never deleted; resolved ones remain for audit.
type PendingTransaction struct {
	PendingID        string           `json:"pendingID"` // Primary key (UUID)
	OwnerID          string           `json:"ownerID"`
	DefinitionID     *string          `json:"definitionID,omitempty"` // Nil for interest charges
	Description      string           `json:"description"`
	EstimatedAmount  decimal.Decimal  `json:"estimatedAmount"`
	ActualAmount     *decimal.Decimal `json:"actualAmount,omitempty"` // Filled on approval
	DueDate          Date             `json:"dueDate"`
	AccountID        string           `json:"accountID"`                  // Payment/deposit account
	RelatedAccountID *string          `json:"relatedAccountID,omitempty"` // Interest: the liability account charged
	CategoryID       *string          `json:"categoryID,omitempty"`
	Status           PendingStatus    `json:"status"`
	Kind             PendingKind      `json:"kind"`
	ResolvedAt       *time.Time       `json:"resolvedAt,omitempty"`
	AuditFields
}
