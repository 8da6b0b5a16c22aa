package repositories

import (
	"context"

	"github.com/fincast/fincast/internal/core/domain"
)

// CategoryReader defines read operations for expense categories.
type CategoryReader interface {
	// FindCategoryByID retrieves a category by its unique identifier.
	FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error)

	// FindCategoriesByIDs retrieves multiple categories keyed by ID.
	FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error)

	// FindDefaultCategory retrieves the owner's default category.
	FindDefaultCategory(ctx context.Context, ownerID string) (*domain.Category, error)

	// ListCategories retrieves all categories for an owner, default first.
	ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error)
}

// CategoryWriter defines write operations for expense categories.
type CategoryWriter interface {
	// SaveCategory persists a new category. A duplicate name within the owner
	// fails with apperrors.ErrDuplicate.
	SaveCategory(ctx context.Context, category domain.Category) error

	// UpdateCategory updates a category's name, color and monthly flag.
	UpdateCategory(ctx context.Context, category domain.Category) error

	// DeleteCategory removes a category after reassigning every ledger entry,
	// recurring definition and pending transaction that references it to
	// reassignToID, all in one storage transaction.
	DeleteCategory(ctx context.Context, ownerID, categoryID, reassignToID string) error
}

// CategoryRepositoryFacade combines category read and write operations.
type CategoryRepositoryFacade interface {
	CategoryReader
	CategoryWriter
}
