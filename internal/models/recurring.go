package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringDefinition is the storage representation of a recurring obligation.
type RecurringDefinition struct {
	DefinitionID    string           `db:"definition_id"`
	OwnerID         string           `db:"owner_id"`
	Kind            string           `db:"kind"`
	Description     string           `db:"description"`
	Amount          decimal.Decimal  `db:"amount"`
	IsVariable      bool             `db:"is_variable"`
	EstimatedAmount *decimal.Decimal `db:"estimated_amount"`
	AccountID       string           `db:"account_id"`
	DueDay          int              `db:"due_day"`
	CategoryID      *string          `db:"category_id"`
	LastProcessed   *time.Time       `db:"last_processed_date"` // NULL when never processed
	AuditFields
}
