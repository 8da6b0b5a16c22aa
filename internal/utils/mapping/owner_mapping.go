package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelOwner converts a domain Owner to its storage representation.
func ToModelOwner(d domain.Owner) models.Owner {
	return models.Owner{
		OwnerID:      d.OwnerID,
		Username:     d.Username,
		PasswordHash: d.PasswordHash,
		CurrentDate:  ToModelDate(d.CurrentDate),
		DeletedAt:    d.DeletedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOwner converts a stored owner back into the domain type.
func ToDomainOwner(m models.Owner) domain.Owner {
	return domain.Owner{
		OwnerID:      m.OwnerID,
		Username:     m.Username,
		PasswordHash: m.PasswordHash,
		CurrentDate:  ToDomainDate(m.CurrentDate),
		DeletedAt:    m.DeletedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
