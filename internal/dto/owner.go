package dto

import "github.com/fincast/fincast/internal/core/domain"

// CreateOwnerRequest registers a new owner of the bookkeeping core.
type CreateOwnerRequest struct {
	Username  string      `json:"username" validate:"required,min=3,max=50"`
	Password  string      `json:"password" validate:"required,min=8"`
	StartDate domain.Date `json:"startDate" validate:"required"` // Initial simulated "today"
}

// OwnerResponse is the owner's public shape.
type OwnerResponse struct {
	OwnerID     string      `json:"ownerID"`
	Username    string      `json:"username"`
	CurrentDate domain.Date `json:"currentDate"`
}

// ToOwnerResponse converts a domain owner to its public shape.
func ToOwnerResponse(o domain.Owner) OwnerResponse {
	return OwnerResponse{
		OwnerID:     o.OwnerID,
		Username:    o.Username,
		CurrentDate: o.CurrentDate,
	}
}
