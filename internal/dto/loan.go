package dto

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLoanRequest registers a loan against a liability account.
type CreateLoanRequest struct {
	AccountID        string          `json:"accountID" validate:"required"`
	Principal        decimal.Decimal `json:"principal" validate:"required"`
	AnnualRate       decimal.Decimal `json:"annualRate" validate:"required"`
	ScheduledPayment decimal.Decimal `json:"scheduledPayment" validate:"required"`
	NextDueDate      domain.Date     `json:"nextDueDate" validate:"required"`
}

// ApplyLoanPaymentRequest applies one scheduled payment.
type ApplyLoanPaymentRequest struct {
	PaymentAccountID string       `json:"paymentAccountID" validate:"required"`
	Date             *domain.Date `json:"date,omitempty"` // Defaults to the owner's simulated date
}

// LoanPaymentResponse reports the split of one applied payment.
type LoanPaymentResponse struct {
	GroupID          string          `json:"groupID"`
	PaymentDate      domain.Date     `json:"paymentDate"`
	Total            decimal.Decimal `json:"total"`
	PrincipalPart    decimal.Decimal `json:"principalPart"`
	InterestPart     decimal.Decimal `json:"interestPart"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	LoanStatus       string          `json:"loanStatus"`
}
