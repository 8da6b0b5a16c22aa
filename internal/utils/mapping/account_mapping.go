package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelAccount converts a domain Account to its storage representation.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		OwnerID:          d.OwnerID,
		Name:             d.Name,
		AccountType:      string(d.AccountType),
		Balance:          d.Balance,
		CreditLimit:      d.CreditLimit,
		AnnualRate:       d.AnnualRate,
		LastInterestDate: ToModelDatePtr(d.LastInterestDate),
		IsSystem:         d.IsSystem,
		IsActive:         d.IsActive,
		Version:          d.Version,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a stored account back into the domain type.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		OwnerID:          m.OwnerID,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		Balance:          m.Balance,
		CreditLimit:      m.CreditLimit,
		AnnualRate:       m.AnnualRate,
		LastInterestDate: ToDomainDatePtr(m.LastInterestDate),
		IsSystem:         m.IsSystem,
		IsActive:         m.IsActive,
		Version:          m.Version,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
