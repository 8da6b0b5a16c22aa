package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the storage representation of a financial account.
// Nullable columns use pointers; LastInterestDate maps to a DATE column.
type Account struct {
	AccountID        string           `db:"account_id"`
	OwnerID          string           `db:"owner_id"`
	Name             string           `db:"name"`
	AccountType      string           `db:"account_type"`
	Balance          decimal.Decimal  `db:"balance"`
	CreditLimit      *decimal.Decimal `db:"credit_limit"`
	AnnualRate       *decimal.Decimal `db:"annual_rate"`
	LastInterestDate *time.Time       `db:"last_interest_date"`
	IsSystem         bool             `db:"is_system"`
	IsActive         bool             `db:"is_active"`
	Version          int64            `db:"version"`
	AuditFields
}
