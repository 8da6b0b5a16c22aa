package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PendingTransaction is the storage representation of an unresolved approval.
type PendingTransaction struct {
	PendingID        string           `db:"pending_id"`
	OwnerID          string           `db:"owner_id"`
	DefinitionID     *string          `db:"definition_id"`
	Description      string           `db:"description"`
	EstimatedAmount  decimal.Decimal  `db:"estimated_amount"`
	ActualAmount     *decimal.Decimal `db:"actual_amount"`
	DueDate          time.Time        `db:"due_date"`
	AccountID        string           `db:"account_id"`
	RelatedAccountID *string          `db:"related_account_id"`
	CategoryID       *string          `db:"category_id"`
	Status           string           `db:"status"`
	Kind             string           `db:"kind"`
	ResolvedAt       *time.Time       `db:"resolved_at"`
	AuditFields
}
