package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/dto"
	"github.com/fincast/fincast/internal/platform/logging"
)

// defaultCategoryColor is used when a new category omits a color.
const defaultCategoryColor = "#6366f1"

// defaultCategory describes one entry of the starter set every owner gets at
// registration. "Uncategorized" is the default: it absorbs the entries of any
// category that is later deleted and cannot itself be removed.
type defaultCategory struct {
	name      string
	color     string
	isDefault bool
}

var defaultCategories = []defaultCategory{
	{name: "Uncategorized", color: "#6b7280", isDefault: true},
	{name: "Food & Dining", color: "#ef4444"},
	{name: "Transportation", color: "#f59e0b"},
	{name: "Housing", color: "#8b5cf6"},
	{name: "Utilities", color: "#3b82f6"},
	{name: "Entertainment", color: "#ec4899"},
	{name: "Shopping", color: "#10b981"},
	{name: "Healthcare", color: "#14b8a6"},
	{name: "Personal", color: "#f97316"},
	{name: "Other", color: "#6366f1"},
}

// categoryService is the expense category registry.
type categoryService struct {
	categoryRepo portsrepo.CategoryRepositoryFacade
	ledgerRepo   portsrepo.LedgerRepositoryFacade
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(categoryRepo portsrepo.CategoryRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portssvc.CategorySvcFacade {
	return &categoryService{
		categoryRepo: categoryRepo,
		ledgerRepo:   ledgerRepo,
	}
}

var _ portssvc.CategorySvcFacade = (*categoryService)(nil)

// CreateCategory adds a category to the owner's registry.
func (s *categoryService) CreateCategory(ctx context.Context, ownerID string, req dto.CreateCategoryRequest) (*domain.Category, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	color := req.Color
	if color == "" {
		color = defaultCategoryColor
	}

	now := time.Now().UTC()
	category := domain.Category{
		CategoryID: uuid.NewString(),
		OwnerID:    ownerID,
		Name:       req.Name,
		Color:      color,
		IsMonthly:  req.IsMonthly,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.categoryRepo.SaveCategory(ctx, category); err != nil {
		logger.Error("Failed to save category", slog.String("error", err.Error()), slog.String("owner_id", ownerID))
		return nil, fmt.Errorf("failed to save category: %w", err)
	}

	logger.Info("Category created", slog.String("category_id", category.CategoryID), slog.String("name", category.Name))
	return &category, nil
}

// ListCategories retrieves the owner's categories, default first.
func (s *categoryService) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	return s.categoryRepo.ListCategories(ctx, ownerID)
}

// UpdateCategory changes a category's name, color or monthly flag. The
// default category keeps its name so deletions always have a target.
func (s *categoryService) UpdateCategory(ctx context.Context, ownerID, categoryID string, req dto.UpdateCategoryRequest) (*domain.Category, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	category, err := s.findOwnedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil && *req.Name != "" && *req.Name != category.Name {
		if category.IsDefault {
			return nil, fmt.Errorf("%w: the default category cannot be renamed", apperrors.ErrValidation)
		}
		category.Name = *req.Name
		updated = true
	}
	if req.Color != nil {
		category.Color = *req.Color
		updated = true
	}
	if req.IsMonthly != nil {
		category.IsMonthly = *req.IsMonthly
		updated = true
	}
	if !updated {
		return category, nil
	}

	now := time.Now().UTC()
	category.LastUpdatedAt = now
	category.LastUpdatedBy = ownerID

	if err := s.categoryRepo.UpdateCategory(ctx, *category); err != nil {
		logger.Error("Failed to update category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category; everything that referenced it moves to
// the owner's default category first.
func (s *categoryService) DeleteCategory(ctx context.Context, ownerID, categoryID string) error {
	logger := logging.FromCtx(ctx)

	category, err := s.findOwnedCategory(ctx, ownerID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return fmt.Errorf("%w: the default category cannot be deleted", apperrors.ErrValidation)
	}

	fallback, err := s.categoryRepo.FindDefaultCategory(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to find default category: %w", err)
	}

	if err := s.categoryRepo.DeleteCategory(ctx, ownerID, categoryID, fallback.CategoryID); err != nil {
		logger.Error("Failed to delete category", slog.String("error", err.Error()), slog.String("category_id", categoryID))
		return fmt.Errorf("failed to delete category: %w", err)
	}

	logger.Info("Category deleted", slog.String("category_id", categoryID), slog.String("reassigned_to", fallback.CategoryID))
	return nil
}

// SetGroupCategory relabels the debit entries of a posted group, or clears
// the label when categoryID is nil.
func (s *categoryService) SetGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string) error {
	logger := logging.FromCtx(ctx)

	group, err := s.ledgerRepo.FindGroupByID(ctx, groupID)
	if err != nil {
		return fmt.Errorf("failed to find group %s: %w", groupID, err)
	}
	if group.OwnerID != ownerID {
		// Obscure existence across owners.
		return apperrors.ErrNotFound
	}

	if categoryID != nil {
		if _, err := s.findOwnedCategory(ctx, ownerID, *categoryID); err != nil {
			return err
		}
	}

	updated, err := s.ledgerRepo.UpdateGroupCategory(ctx, ownerID, groupID, categoryID, ownerID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to update group category", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return fmt.Errorf("failed to update category of group %s: %w", groupID, err)
	}
	if updated == 0 {
		return apperrors.NewNotFoundError("group " + groupID + " has no debit entries to categorize")
	}

	logger.Info("Group category updated", slog.String("group_id", groupID), slog.Int("entries", updated))
	return nil
}

// findOwnedCategory retrieves a category and verifies it belongs to the owner.
func (s *categoryService) findOwnedCategory(ctx context.Context, ownerID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
		}
		return nil, fmt.Errorf("failed to find category %s: %w", categoryID, err)
	}
	if category.OwnerID != ownerID {
		// Obscure existence across owners.
		return nil, fmt.Errorf("%w: category %s", apperrors.ErrNotFound, categoryID)
	}
	return category, nil
}
