package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const categoryColumns = `category_id, owner_id, name, color, is_default, is_monthly,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxCategoryRepository struct {
	BaseRepository
}

// newPgxCategoryRepository creates a new repository for expense categories.
func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (*models.Category, error) {
	var m models.Category
	err := row.Scan(
		&m.CategoryID,
		&m.OwnerID,
		&m.Name,
		&m.Color,
		&m.IsDefault,
		&m.IsMonthly,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveCategory inserts a new expense category.
func (r *PgxCategoryRepository) SaveCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)

	query := `
		INSERT INTO expense_categories (` + categoryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.OwnerID,
		m.Name,
		m.Color,
		m.IsDefault,
		m.IsMonthly,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category named %q already exists for owner %s", apperrors.ErrDuplicate, m.Name, m.OwnerID)
		}
		return fmt.Errorf("failed to save category %s: %w", m.CategoryID, err)
	}
	return nil
}

// FindCategoryByID retrieves a category by its ID.
func (r *PgxCategoryRepository) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM expense_categories WHERE category_id = $1;`

	m, err := scanCategory(r.Pool.QueryRow(ctx, query, categoryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find category by ID %s: %w", categoryID, err)
	}

	cat := mapping.ToDomainCategory(*m)
	return &cat, nil
}

// FindCategoriesByIDs retrieves multiple categories by their IDs.
func (r *PgxCategoryRepository) FindCategoriesByIDs(ctx context.Context, categoryIDs []string) (map[string]domain.Category, error) {
	if len(categoryIDs) == 0 {
		return map[string]domain.Category{}, nil
	}

	query := `SELECT ` + categoryColumns + ` FROM expense_categories WHERE category_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories by IDs: %w", err)
	}
	defer rows.Close()

	categories := make(map[string]domain.Category)
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row during batch fetch: %w", err)
		}
		categories[m.CategoryID] = mapping.ToDomainCategory(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows during batch fetch: %w", err)
	}
	return categories, nil
}

// FindDefaultCategory retrieves the owner's default category.
func (r *PgxCategoryRepository) FindDefaultCategory(ctx context.Context, ownerID string) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM expense_categories WHERE owner_id = $1 AND is_default = TRUE;`

	m, err := scanCategory(r.Pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("default category not found for owner " + ownerID)
		}
		return nil, fmt.Errorf("failed to find default category for owner %s: %w", ownerID, err)
	}

	cat := mapping.ToDomainCategory(*m)
	return &cat, nil
}

// ListCategories retrieves all categories for an owner, default first.
func (r *PgxCategoryRepository) ListCategories(ctx context.Context, ownerID string) ([]domain.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM expense_categories
		WHERE owner_id = $1
		ORDER BY is_default DESC, name;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		m, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row for owner %s: %w", ownerID, err)
		}
		categories = append(categories, mapping.ToDomainCategory(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category rows for owner %s: %w", ownerID, err)
	}
	return categories, nil
}

// UpdateCategory updates a category's mutable fields.
func (r *PgxCategoryRepository) UpdateCategory(ctx context.Context, category domain.Category) error {
	m := mapping.ToModelCategory(category)

	query := `
		UPDATE expense_categories
		SET name = $2, color = $3, is_monthly = $4, last_updated_at = $5, last_updated_by = $6
		WHERE category_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CategoryID,
		m.Name,
		m.Color,
		m.IsMonthly,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: category named %q already exists for owner %s", apperrors.ErrDuplicate, m.Name, m.OwnerID)
		}
		return fmt.Errorf("failed to execute update category %s: %w", m.CategoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category after reassigning everything that
// references it to reassignToID. Entries, recurring definitions and pending
// transactions move in the same transaction so a scheduled posting never
// carries a dangling category.
func (r *PgxCategoryRepository) DeleteCategory(ctx context.Context, ownerID, categoryID, reassignToID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	reassignments := []string{
		`UPDATE ledger_entries SET category_id = $3 WHERE owner_id = $1 AND category_id = $2;`,
		`UPDATE recurring_definitions SET category_id = $3 WHERE owner_id = $1 AND category_id = $2;`,
		`UPDATE pending_transactions SET category_id = $3 WHERE owner_id = $1 AND category_id = $2;`,
	}
	for _, query := range reassignments {
		if _, err := tx.Exec(ctx, query, ownerID, categoryID, reassignToID); err != nil {
			return fmt.Errorf("failed to reassign references of category %s: %w", categoryID, err)
		}
	}

	cmdTag, err := tx.Exec(ctx,
		`DELETE FROM expense_categories WHERE owner_id = $1 AND category_id = $2;`,
		ownerID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete category %s: %w", categoryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}
