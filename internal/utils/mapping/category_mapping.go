package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelCategory converts a domain Category to its storage representation.
func ToModelCategory(d domain.Category) models.Category {
	return models.Category{
		CategoryID:  d.CategoryID,
		OwnerID:     d.OwnerID,
		Name:        d.Name,
		Color:       d.Color,
		IsDefault:   d.IsDefault,
		IsMonthly:   d.IsMonthly,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCategory converts a stored category back into the domain type.
func ToDomainCategory(m models.Category) domain.Category {
	return domain.Category{
		CategoryID:  m.CategoryID,
		OwnerID:     m.OwnerID,
		Name:        m.Name,
		Color:       m.Color,
		IsDefault:   m.IsDefault,
		IsMonthly:   m.IsMonthly,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}
