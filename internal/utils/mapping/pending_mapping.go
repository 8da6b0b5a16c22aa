package mapping

import (
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/fincast/fincast/internal/models"
)

// ToModelPending converts a domain PendingTransaction to its storage representation.
func ToModelPending(d domain.PendingTransaction) models.PendingTransaction {
	return models.PendingTransaction{
		PendingID:        d.PendingID,
		OwnerID:          d.OwnerID,
		DefinitionID:     d.DefinitionID,
		Description:      d.Description,
		EstimatedAmount:  d.EstimatedAmount,
		ActualAmount:     d.ActualAmount,
		DueDate:          ToModelDate(d.DueDate),
		AccountID:        d.AccountID,
		RelatedAccountID: d.RelatedAccountID,
		CategoryID:       d.CategoryID,
		Status:           string(d.Status),
		Kind:             string(d.Kind),
		ResolvedAt:       d.ResolvedAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPending converts a stored pending transaction back into the domain type.
func ToDomainPending(m models.PendingTransaction) domain.PendingTransaction {
	return domain.PendingTransaction{
		PendingID:        m.PendingID,
		OwnerID:          m.OwnerID,
		DefinitionID:     m.DefinitionID,
		Description:      m.Description,
		EstimatedAmount:  m.EstimatedAmount,
		ActualAmount:     m.ActualAmount,
		DueDate:          ToDomainDate(m.DueDate),
		AccountID:        m.AccountID,
		RelatedAccountID: m.RelatedAccountID,
		CategoryID:       m.CategoryID,
		Status:           domain.PendingStatus(m.Status),
		Kind:             domain.PendingKind(m.Kind),
		ResolvedAt:       m.ResolvedAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
