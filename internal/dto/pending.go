package dto

import (
	"time"

	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ResolvePendingRequest approves or rejects one pending transaction.
type ResolvePendingRequest struct {
	Decision     string           `json:"decision" validate:"required,oneof=APPROVE REJECT"`
	ActualAmount *decimal.Decimal `json:"actualAmount,omitempty"` // Approval only; falls back to the estimate
}

// PendingResponse is one pending transaction in a listing.
type PendingResponse struct {
	PendingID       string             `json:"pendingID"`
	Description     string             `json:"description"`
	Kind            domain.PendingKind `json:"kind"`
	Status          string             `json:"status"`
	EstimatedAmount decimal.Decimal    `json:"estimatedAmount"`
	ActualAmount    *decimal.Decimal   `json:"actualAmount,omitempty"`
	DueDate         domain.Date        `json:"dueDate"`
	AccountID       string             `json:"accountID"`
	CategoryID      *string            `json:"categoryID,omitempty"`
	ResolvedAt      *time.Time         `json:"resolvedAt,omitempty"`
}

// ToPendingResponse converts a domain pending transaction to its listing shape.
func ToPendingResponse(p domain.PendingTransaction) PendingResponse {
	return PendingResponse{
		PendingID:       p.PendingID,
		Description:     p.Description,
		Kind:            p.Kind,
		Status:          string(p.Status),
		EstimatedAmount: p.EstimatedAmount,
		ActualAmount:    p.ActualAmount,
		DueDate:         p.DueDate,
		AccountID:       p.AccountID,
		CategoryID:      p.CategoryID,
		ResolvedAt:      p.ResolvedAt,
	}
}
