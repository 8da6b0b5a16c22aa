package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Loan is the storage representation of an amortized obligation.
type Loan struct {
	LoanID           string          `db:"loan_id"`
	OwnerID          string          `db:"owner_id"`
	AccountID        string          `db:"account_id"`
	Principal        decimal.Decimal `db:"principal"`
	Outstanding      decimal.Decimal `db:"outstanding"`
	AnnualRate       decimal.Decimal `db:"annual_rate"`
	ScheduledPayment decimal.Decimal `db:"scheduled_payment"`
	NextDueDate      time.Time       `db:"next_due_date"`
	Status           string          `db:"status"`
	AuditFields
}

// LoanPayment is the audit row for one applied loan payment.
type LoanPayment struct {
	PaymentID        string          `db:"payment_id"`
	LoanID           string          `db:"loan_id"`
	OwnerID          string          `db:"owner_id"`
	GroupID          string          `db:"group_id"`
	PaymentDate      time.Time       `db:"payment_date"`
	Total            decimal.Decimal `db:"total"`
	PrincipalPart    decimal.Decimal `db:"principal_part"`
	InterestPart     decimal.Decimal `db:"interest_part"`
	RemainingBalance decimal.Decimal `db:"remaining_balance"`
	AuditFields
}
