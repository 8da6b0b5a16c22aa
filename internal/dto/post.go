package dto

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one debit or credit line of a posting request.
type EntryLineRequest struct {
	AccountID  string           `json:"accountID" validate:"required"`
	Side       domain.EntrySide `json:"side" validate:"required,oneof=DEBIT CREDIT"`
	Amount     decimal.Decimal  `json:"amount" validate:"required"`
	CategoryID *string          `json:"categoryID,omitempty"`
}

// PostRequest posts an arbitrary balanced group of lines.
type PostRequest struct {
	Date        domain.Date        `json:"date" validate:"required"`
	Kind        domain.GroupKind   `json:"kind" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Lines       []EntryLineRequest `json:"lines" validate:"required,min=2,dive"`
}

// ExpenseRequest posts a two-leg expense from a payment account.
type ExpenseRequest struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        *domain.Date    `json:"date,omitempty"` // Defaults to the owner's simulated date
	CategoryID  *string         `json:"categoryID,omitempty"`
}

// IncomeRequest posts a two-leg income deposit into an account.
type IncomeRequest struct {
	AccountID   string          `json:"accountID" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	Date        *domain.Date    `json:"date,omitempty"`
}

// TransferRequest moves funds between two of the owner's accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" validate:"required"`
	ToAccountID   string          `json:"toAccountID" validate:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Description   string          `json:"description"`
	Date          *domain.Date    `json:"date,omitempty"`
}

// RevalueAssetRequest restates a fixed asset or investment to a new value,
// booking the difference against equity.
type RevalueAssetRequest struct {
	AccountID   string          `json:"accountID" validate:"required"`
	NewValue    decimal.Decimal `json:"newValue" validate:"required"`
	Description string          `json:"description"`
	Date        *domain.Date    `json:"date,omitempty"`
}

// PostResponse reports a committed group.
type PostResponse struct {
	GroupID string          `json:"groupID"`
	Date    domain.Date     `json:"date"`
	Amount  decimal.Decimal `json:"amount"`
}
