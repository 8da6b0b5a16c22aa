package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the bookkeeping category of an account. The first eight
// are user-facing; Income, Expense and InterestExpense are system accounts
// provisioned once per owner so that every logical event can balance.
type AccountType string

const (
	Checking   AccountType = "CHECKING"
	Savings    AccountType = "SAVINGS"
	CreditCard AccountType = "CREDIT_CARD"
	Cash       AccountType = "CASH"
	LoanAcct   AccountType = "LOAN"
	FixedAsset AccountType = "FIXED_ASSET"
	Equity     AccountType = "EQUITY"
	Investment AccountType = "INVESTMENT"

	Income          AccountType = "INCOME"
	Expense         AccountType = "EXPENSE"
	InterestExpense AccountType = "INTEREST_EXPENSE"
)

// Account represents a financial account scoped to one owner.
// The cached Balance is mutated only inside the posting engine's commit
// boundary and must always equal the fold of the account's ledger entries.
type Account struct {
	AccountID        string           `json:"accountID"` // Primary key (UUID)
	OwnerID          string           `json:"ownerID"`
	Name             string           `json:"name"`
	AccountType      AccountType      `json:"accountType"`
	Balance          decimal.Decimal  `json:"balance"`               // Cached, signed per polarity
	CreditLimit      *decimal.Decimal `json:"creditLimit,omitempty"` // Credit cards only
	AnnualRate       *decimal.Decimal `json:"annualRate,omitempty"`  // Annualized interest rate as a fraction (0.24 = 24% APR)
	LastInterestDate *Date            `json:"lastInterestDate,omitempty"`
	IsSystem         bool             `json:"isSystem"` // Owner-level Income/Expense/Equity accounts
	IsActive         bool             `json:"isActive"`
	Version          int64            `json:"-"` // Optimistic lock for cached-balance updates
	AuditFields
}
