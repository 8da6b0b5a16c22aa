package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelLoan converts a domain Loan to its storage representation.
func ToModelLoan(d domain.Loan) models.Loan {
	return models.Loan{
		LoanID:           d.LoanID,
		OwnerID:          d.OwnerID,
		AccountID:        d.AccountID,
		Principal:        d.Principal,
		Outstanding:      d.Outstanding,
		AnnualRate:       d.AnnualRate,
		ScheduledPayment: d.ScheduledPayment,
		NextDueDate:      ToModelDate(d.NextDueDate),
		Status:           string(d.Status),
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoan converts a stored loan back into the domain type.
func ToDomainLoan(m models.Loan) domain.Loan {
	return domain.Loan{
		LoanID:           m.LoanID,
		OwnerID:          m.OwnerID,
		AccountID:        m.AccountID,
		Principal:        m.Principal,
		Outstanding:      m.Outstanding,
		AnnualRate:       m.AnnualRate,
		ScheduledPayment: m.ScheduledPayment,
		NextDueDate:      ToDomainDate(m.NextDueDate),
		Status:           domain.LoanStatus(m.Status),
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLoanPayment converts a domain LoanPayment to its storage representation.
func ToModelLoanPayment(d domain.LoanPayment) models.LoanPayment {
	return models.LoanPayment{
		PaymentID:        d.PaymentID,
		LoanID:           d.LoanID,
		OwnerID:          d.OwnerID,
		GroupID:          d.GroupID,
		PaymentDate:      ToModelDate(d.PaymentDate),
		Total:            d.Total,
		PrincipalPart:    d.PrincipalPart,
		InterestPart:     d.InterestPart,
		RemainingBalance: d.RemainingBalance,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLoanPayment converts a stored loan payment back into the domain type.
func ToDomainLoanPayment(m models.LoanPayment) domain.LoanPayment {
	return domain.LoanPayment{
		PaymentID:        m.PaymentID,
		LoanID:           m.LoanID,
		OwnerID:          m.OwnerID,
		GroupID:          m.GroupID,
		PaymentDate:      ToDomainDate(m.PaymentDate),
		Total:            m.Total,
		PrincipalPart:    m.PrincipalPart,
		InterestPart:     m.InterestPart,
		RemainingBalance: m.RemainingBalance,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
