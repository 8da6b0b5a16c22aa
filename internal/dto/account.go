package dto

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest opens a new account, optionally with an opening
// balance posted against the owner's equity account.
type CreateAccountRequest struct {
	Name           string             `json:"name" validate:"required,max=100"`
	AccountType    domain.AccountType `json:"accountType" validate:"required,oneof=CHECKING SAVINGS CREDIT_CARD CASH LOAN FIXED_ASSET EQUITY INVESTMENT"`
	OpeningBalance decimal.Decimal    `json:"openingBalance"`
	CreditLimit    *decimal.Decimal   `json:"creditLimit,omitempty"`
	AnnualRate     *decimal.Decimal   `json:"annualRate,omitempty"`
}

// UpdateAccountRequest renames an account or adjusts its limits.
type UpdateAccountRequest struct {
	Name        *string          `json:"name,omitempty" validate:"omitempty,max=100"`
	CreditLimit *decimal.Decimal `json:"creditLimit,omitempty"`
	AnnualRate  *decimal.Decimal `json:"annualRate,omitempty"`
}

// BalanceResponse reports one account balance.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOf      domain.Date     `json:"asOf"`
	Balance   decimal.Decimal `json:"balance"`
}

// ReconcileEntry compares one account's cached balance to the recomputed fold.
type ReconcileEntry struct {
	AccountID string          `json:"accountID"`
	Cached    decimal.Decimal `json:"cached"`
	Computed  decimal.Decimal `json:"computed"`
	Matched   bool            `json:"matched"`
}

// ReconcileResponse reports the full reconciliation run for an owner.
// Mismatches are surfaced, never auto-corrected.
type ReconcileResponse struct {
	Accounts map[string]ReconcileEntry `json:"accounts"`
	Clean    bool                      `json:"clean"`
}
