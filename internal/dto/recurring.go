package dto

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRecurringRequest registers a monthly recurring expense or income.
type CreateRecurringRequest struct {
	Kind            domain.RecurringKind `json:"kind" validate:"required,oneof=EXPENSE INCOME"`
	Description     string               `json:"description" validate:"required,max=200"`
	Amount          decimal.Decimal      `json:"amount" validate:"required"`
	IsVariable      bool                 `json:"isVariable"`
	EstimatedAmount *decimal.Decimal     `json:"estimatedAmount,omitempty"`
	AccountID       string               `json:"accountID" validate:"required"`
	DueDay          int                  `json:"dueDay" validate:"required,min=1,max=31"`
	CategoryID      *string              `json:"categoryID,omitempty"`
}

// UpdateRecurringRequest edits a recurring definition. LastProcessed is owned
// by the scheduler and cannot be set here.
type UpdateRecurringRequest struct {
	Description     *string          `json:"description,omitempty" validate:"omitempty,max=200"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	IsVariable      *bool            `json:"isVariable,omitempty"`
	EstimatedAmount *decimal.Decimal `json:"estimatedAmount,omitempty"`
	DueDay          *int             `json:"dueDay,omitempty" validate:"omitempty,min=1,max=31"`
	CategoryID      *string          `json:"categoryID,omitempty"`
}

// AdvanceTimeRequest moves the owner's simulated date forward.
type AdvanceTimeRequest struct {
	TargetDate domain.Date `json:"targetDate" validate:"required"`
}

// AdvanceTimeResponse summarizes one AdvanceTo run.
type AdvanceTimeResponse struct {
	CurrentDate    domain.Date `json:"currentDate"`
	PostedCount    int         `json:"postedCount"`
	PendingCreated int         `json:"pendingCreated"`
	Log            []string    `json:"log"`
}
