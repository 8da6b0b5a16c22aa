package pgsql

import (
	"context"
	"errors"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const recurringColumns = `definition_id, owner_id, kind, description, amount, is_variable,
	estimated_amount, account_id, due_day, category_id, last_processed_date,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurringRepository struct {
	BaseRepository
}

// newPgxRecurringRepository creates a new repository for recurring definitions.
func newPgxRecurringRepository(pool *pgxpool.Pool) *PgxRecurringRepository {
	return &PgxRecurringRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRepositoryFacade = (*PgxRecurringRepository)(nil)

func scanRecurring(row pgx.Row) (*models.RecurringDefinition, error) {
	var m models.RecurringDefinition
	err := row.Scan(
		&m.DefinitionID,
		&m.OwnerID,
		&m.Kind,
		&m.Description,
		&m.Amount,
		&m.IsVariable,
		&m.EstimatedAmount,
		&m.AccountID,
		&m.DueDay,
		&m.CategoryID,
		&m.LastProcessed,
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

// SaveDefinition persists a new recurring definition.
func (r *PgxRecurringRepository) SaveDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	m := mapping.ToModelRecurring(def)
	query := `
		INSERT INTO recurring_definitions (` + recurringColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DefinitionID,
		m.OwnerID,
		m.Kind,
		m.Description,
		m.Amount,
		m.IsVariable,
		m.EstimatedAmount,
		m.AccountID,
		m.DueDay,
		m.CategoryID,
		m.LastProcessed,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to save recurring definition "+m.DefinitionID, err)
	}
	return nil
}

// FindDefinitionByID retrieves a recurring definition by its ID.
func (r *PgxRecurringRepository) FindDefinitionByID(ctx context.Context, definitionID string) (*domain.RecurringDefinition, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_definitions WHERE definition_id = $1;`

	m, err := scanRecurring(r.Pool.QueryRow(ctx, query, definitionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find recurring definition by ID "+definitionID, err)
	}

	def := mapping.ToDomainRecurring(*m)
	return &def, nil
}

// ListDefinitions returns all definitions for an owner, optionally filtered by
// kind.
func (r *PgxRecurringRepository) ListDefinitions(ctx context.Context, ownerID string, kind domain.RecurringKind) ([]domain.RecurringDefinition, error) {
	query := `SELECT ` + recurringColumns + ` FROM recurring_definitions WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if kind != "" {
		args = append(args, string(kind))
		query += ` AND kind = $2`
	}
	query += ` ORDER BY due_day, description;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list recurring definitions for owner "+ownerID, err)
	}
	defer rows.Close()

	defs := []domain.RecurringDefinition{}
	for rows.Next() {
		m, err := scanRecurring(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring definition row", err)
		}
		defs = append(defs, mapping.ToDomainRecurring(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring definition rows", err)
	}

	return defs, nil
}

// UpdateDefinition updates user-editable fields. The last-processed date is
// deliberately left out; it only moves inside a posting commit.
func (r *PgxRecurringRepository) UpdateDefinition(ctx context.Context, def domain.RecurringDefinition) error {
	m := mapping.ToModelRecurring(def)
	query := `
		UPDATE recurring_definitions
		SET description = $2, amount = $3, is_variable = $4, estimated_amount = $5,
		    account_id = $6, due_day = $7, category_id = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE definition_id = $1 AND owner_id = $11;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.DefinitionID,
		m.Description,
		m.Amount,
		m.IsVariable,
		m.EstimatedAmount,
		m.AccountID,
		m.DueDay,
		m.CategoryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.OwnerID,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update recurring definition "+m.DefinitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring definition " + m.DefinitionID + " not found for update")
	}
	return nil
}

// DeleteDefinition removes a definition. Already-posted occurrences stay in
// the ledger.
func (r *PgxRecurringRepository) DeleteDefinition(ctx context.Context, ownerID, definitionID string) error {
	query := `DELETE FROM recurring_definitions WHERE definition_id = $1 AND owner_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, definitionID, ownerID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete recurring definition "+definitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring definition " + definitionID + " not found for delete")
	}
	return nil
}
