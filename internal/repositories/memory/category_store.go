package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
)

// SaveCategory persists a new expense category. Names are unique per owner.
func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.categories[category.CategoryID]; exists {
		return fmt.Errorf("%w: category with ID %s already exists", apperrors.ErrDuplicate, category.CategoryID)
	}
	for _, existing := range s.categories {
		if existing.OwnerID == category.OwnerID && existing.Name == category.Name {
			return fmt.Errorf("%w: category named %q already exists for owner %s", apperrors.ErrDuplicate, category.Name, category.OwnerID)
		}
	}
	s.categories[category.CategoryID] = category
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (s *Store) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

// FindCategoriesByIDs retrieves multiple categories keyed by ID. Missing IDs
// are simply absent from the result.
func (s *Store) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]domain.Category, len(categoryIDs))
	for _, id := range categoryIDs {
		if category, ok := s.categories[id]; ok {
			result[id] = category
		}
	}
	return result, nil
}

// FindDefaultCategory retrieves the owner's default category.
func (s *Store) FindDefaultCategory(ctx context.Context, ownerID string) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, category := range s.categories {
		if category.OwnerID == ownerID && category.IsDefault {
			return &category, nil
		}
	}
	return nil, apperrors.NewNotFoundError("default category not found for owner " + ownerID)
}

// ListCategories retrieves all categories for an owner, default first.
func (s *Store) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := []domain.Category{}
	for _, category := range s.categories {
		if category.OwnerID == ownerID {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].IsDefault != categories[j].IsDefault {
			return categories[i].IsDefault
		}
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// UpdateCategory updates a category's mutable fields.
func (s *Store) UpdateCategory(ctx context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories[category.CategoryID]
	if !ok {
		return apperrors.NewNotFoundError("category " + category.CategoryID + " not found for update")
	}
	for _, other := range s.categories {
		if other.CategoryID != category.CategoryID && other.OwnerID == existing.OwnerID && other.Name == category.Name {
			return fmt.Errorf("%w: category named %q already exists for owner %s", apperrors.ErrDuplicate, category.Name, existing.OwnerID)
		}
	}
	existing.Name = category.Name
	existing.Color = category.Color
	existing.IsMonthly = category.IsMonthly
	existing.LastUpdatedAt = category.LastUpdatedAt
	existing.LastUpdatedBy = category.LastUpdatedBy
	s.categories[category.CategoryID] = existing
	return nil
}

// DeleteCategory removes a category after reassigning every reference to
// reassignToID. All moves happen under one lock so a scheduled posting never
// observes a dangling category.
func (s *Store) DeleteCategory(ctx context.Context, ownerID, categoryID, reassignToID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	category, ok := s.categories[categoryID]
	if !ok || category.OwnerID != ownerID {
		return apperrors.ErrNotFound
	}

	reassign := func(ref *string) *string {
		if ref != nil && *ref == categoryID {
			moved := reassignToID
			return &moved
		}
		return ref
	}

	for i := range s.entries {
		if s.entries[i].OwnerID == ownerID {
			s.entries[i].CategoryID = reassign(s.entries[i].CategoryID)
		}
	}
	for id, def := range s.recurring {
		if def.OwnerID == ownerID {
			def.CategoryID = reassign(def.CategoryID)
			s.recurring[id] = def
		}
	}
	for id, pending := range s.pending {
		if pending.OwnerID == ownerID {
			pending.CategoryID = reassign(pending.CategoryID)
			s.pending[id] = pending
		}
	}

	delete(s.categories, categoryID)
	return nil
}
