package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelRecurring converts a domain RecurringDefinition to its storage representation.
// A zero LastProcessed becomes NULL.
func ToModelRecurring(d domain.RecurringDefinition) models.RecurringDefinition {
	m := models.RecurringDefinition{
		DefinitionID:    d.DefinitionID,
		OwnerID:         d.OwnerID,
		Kind:            string(d.Kind),
		Description:     d.Description,
		Amount:          d.Amount,
		IsVariable:      d.IsVariable,
		EstimatedAmount: d.EstimatedAmount,
		AccountID:       d.AccountID,
		DueDay:          d.DueDay,
		CategoryID:      d.CategoryID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
	if !d.LastProcessed.IsZero() {
		t := d.LastProcessed.Time()
		m.LastProcessed = &t
	}
	return m
}

// ToDomainRecurring converts a stored recurring definition back into the domain type.
func ToDomainRecurring(m models.RecurringDefinition) domain.RecurringDefinition {
	d := domain.RecurringDefinition{
		DefinitionID:    m.DefinitionID,
		OwnerID:         m.OwnerID,
		Kind:            domain.RecurringKind(m.Kind),
		Description:     m.Description,
		Amount:          m.Amount,
		IsVariable:      m.IsVariable,
		EstimatedAmount: m.EstimatedAmount,
		AccountID:       m.AccountID,
		DueDay:          m.DueDay,
		CategoryID:      m.CategoryID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
	if m.LastProcessed != nil {
		d.LastProcessed = domain.DateOf(*m.LastProcessed)
	}
	return d
}
