package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ownerColumns = `owner_id, username, password_hash, current_date_value, deleted_at,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxOwnerRepository struct {
	BaseRepository
}

// newPgxOwnerRepository creates a new repository for owners.
func newPgxOwnerRepository(pool *pgxpool.Pool) *PgxOwnerRepository {
	return &PgxOwnerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.OwnerRepositoryFacade = (*PgxOwnerRepository)(nil)

func scanOwner(row pgx.Row) (*models.Owner, error) {
	var m models.Owner
	err := row.Scan(
		&m.OwnerID,
		&m.Username,
		&m.PasswordHash,
		&m.CurrentDate,
		&m.DeletedAt,
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

// SaveOwner persists a new owner.
func (r *PgxOwnerRepository) SaveOwner(ctx context.Context, owner domain.Owner) error {
	m := mapping.ToModelOwner(owner)
	query := `
		INSERT INTO owners (` + ownerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.OwnerID,
		m.Username,
		m.PasswordHash,
		m.CurrentDate,
		m.DeletedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username %s already taken", apperrors.ErrDuplicate, m.Username)
		}
		return apperrors.NewAppError(500, "failed to save owner "+m.OwnerID, err)
	}
	return nil
}

// FindOwnerByID retrieves an owner by ID. Soft-deleted owners are invisible.
func (r *PgxOwnerRepository) FindOwnerByID(ctx context.Context, ownerID string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE owner_id = $1 AND deleted_at IS NULL;`

	m, err := scanOwner(r.Pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find owner by ID "+ownerID, err)
	}

	owner := mapping.ToDomainOwner(*m)
	return &owner, nil
}

// FindOwnerByUsername retrieves an owner by username. Soft-deleted owners are
// invisible.
func (r *PgxOwnerRepository) FindOwnerByUsername(ctx context.Context, username string) (*domain.Owner, error) {
	query := `SELECT ` + ownerColumns + ` FROM owners WHERE username = $1 AND deleted_at IS NULL;`

	m, err := scanOwner(r.Pool.QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find owner by username", err)
	}

	owner := mapping.ToDomainOwner(*m)
	return &owner, nil
}

// ListOwnerIDs returns the IDs of all live owners.
func (r *PgxOwnerRepository) ListOwnerIDs(ctx context.Context) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT owner_id FROM owners WHERE deleted_at IS NULL ORDER BY created_at;`)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list owner IDs", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan owner ID row", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating owner ID rows", err)
	}
	return ids, nil
}

// UpdateCurrentDate persists the owner's simulated "today".
func (r *PgxOwnerRepository) UpdateCurrentDate(ctx context.Context, ownerID string, date domain.Date, updatedAt time.Time) error {
	query := `
		UPDATE owners
		SET current_date_value = $2, last_updated_at = $3, last_updated_by = $1
		WHERE owner_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, mapping.ToModelDate(date), updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update current date for owner "+ownerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("owner " + ownerID + " not found for update")
	}
	return nil
}

// DeleteOwner soft-deletes the owner and removes all dependent rows in one
// transaction.
func (r *PgxOwnerRepository) DeleteOwner(ctx context.Context, ownerID string, deletedAt time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	cmdTag, err := tx.Exec(ctx, `
		UPDATE owners
		SET deleted_at = $2, last_updated_at = $2, last_updated_by = $1
		WHERE owner_id = $1 AND deleted_at IS NULL;
	`, ownerID, deletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to delete owner "+ownerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("owner " + ownerID + " not found for delete")
	}

	// Ledger entries before groups, payments before loans, pending before
	// definitions.
	dependentDeletes := []string{
		`DELETE FROM ledger_entries WHERE owner_id = $1;`,
		`DELETE FROM transaction_groups WHERE owner_id = $1;`,
		`DELETE FROM loan_payments WHERE owner_id = $1;`,
		`DELETE FROM loans WHERE owner_id = $1;`,
		`DELETE FROM pending_transactions WHERE owner_id = $1;`,
		`DELETE FROM recurring_definitions WHERE owner_id = $1;`,
		`DELETE FROM expense_categories WHERE owner_id = $1;`,
		`DELETE FROM accounts WHERE owner_id = $1;`,
	}
	for _, query := range dependentDeletes {
		if _, err := tx.Exec(ctx, query, ownerID); err != nil {
			return apperrors.NewAppError(500, "failed to delete dependent rows for owner "+ownerID, err)
		}
	}

	return r.Commit(ctx, tx)
}
