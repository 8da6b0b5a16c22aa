package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
)

// SaveDefinition persists a new recurring definition.
func (s *Store) SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.recurring[def.DefinitionID]; exists {
		return fmt.Errorf("%w: recurring definition %s already exists", apperrors.ErrDuplicate, def.DefinitionID)
	}
	s.recurring[def.DefinitionID] = def
	return nil
}

// FindDefinitionByID retrieves a recurring definition by its ID.
func (s *Store) FindDefinitionByID(ctx context.Context, definitionID string) (*domain.RecurringDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.recurring[definitionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &def, nil
}

// ListDefinitions returns all definitions for an owner, optionally filtered by
// kind.
func (s *Store) ListDefinitions(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]domain.RecurringDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	defs := []domain.RecurringDefinition{}
	for _, def := range s.recurring {
		if def.OwnerID != ownerID {
			continue
		}
		if kind != "" && def.Kind != kind {
			continue
		}
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].DueDay != defs[j].DueDay {
			return defs[i].DueDay < defs[j].DueDay
		}
		return defs[i].Description < defs[j].Description
	})
	return defs, nil
}

// UpdateDefinition updates user-editable fields. The last-processed date only
// moves inside a posting commit.
func (s *Store) UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.recurring[def.DefinitionID]
	if !ok || existing.OwnerID != def.OwnerID {
		return apperrors.NewNotFoundError("recurring definition " + def.DefinitionID + " not found for update")
	}
	existing.Description = def.Description
	existing.Amount = def.Amount
	existing.IsVariable = def.IsVariable
	existing.EstimatedAmount = def.EstimatedAmount
	existing.AccountID = def.AccountID
	existing.DueDay = def.DueDay
	existing.CategoryID = def.CategoryID
	existing.LastUpdatedAt = def.LastUpdatedAt
	existing.LastUpdatedBy = def.LastUpdatedBy
	s.recurring[def.DefinitionID] = existing
	return nil
}

// DeleteDefinition removes a definition. Already-posted occurrences stay in
// the ledger.
func (s *Store) DeleteDefinition(ctx context.Context, ownerID, definitionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	def, ok := s.recurring[definitionID]
	if !ok || def.OwnerID != ownerID {
		return apperrors.NewNotFoundError("recurring definition " + definitionID + " not found for delete")
	}
	delete(s.recurring, definitionID)
	return nil
}
