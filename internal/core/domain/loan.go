package domain

import "github.com/shopspring/decimal"

// LoanStatus is the repayment state of a loan.
type LoanStatus string

const (
	LoanActive LoanStatus = "ACTIVE"
	LoanPaid   LoanStatus = "PAID"
)

// Loan tracks an amortized obligation linked to a liability account.
// Outstanding is mutated only by the loan amortizer, in the same commit as the
// payment's ledger group.
type Loan struct {
	LoanID           string          `json:"loanID"` // Primary key (UUID)
	OwnerID          string          `json:"ownerID"`
	AccountID        string          `json:"accountID"` // Linked liability account
	Principal        decimal.Decimal `json:"principal"`
	Outstanding      decimal.Decimal `json:"outstanding"`
	AnnualRate       decimal.Decimal `json:"annualRate"` // Fraction per year; monthly rate is AnnualRate/12
	ScheduledPayment decimal.Decimal `json:"scheduledPayment"`
	NextDueDate      Date            `json:"nextDueDate"`
	Status           LoanStatus      `json:"status"`
	AuditFields
}

// MonthlyRate returns the per-month interest rate.
func (l Loan) MonthlyRate() decimal.Decimal {
	return l.AnnualRate.Div(decimal.NewFromInt(12))
}

// LoanPayment is the audit record of one applied payment.
type LoanPayment struct {
	PaymentID        string          `json:"paymentID"` // Primary key (UUID)
	LoanID           string          `json:"loanID"`
	OwnerID          string          `json:"ownerID"`
	GroupID          string          `json:"groupID"` // Ledger group posted for this payment
	PaymentDate      Date            `json:"paymentDate"`
	Total            decimal.Decimal `json:"total"`
	PrincipalPart    decimal.Decimal `json:"principalPart"`
	InterestPart     decimal.Decimal `json:"interestPart"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	AuditFields
}
