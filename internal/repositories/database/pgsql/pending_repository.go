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

const pendingColumns = `pending_id, owner_id, definition_id, description, estimated_amount,
	actual_amount, due_date, account_id, related_account_id, category_id, status, kind,
	resolved_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxPendingRepository struct {
	BaseRepository
}

// newPgxPendingRepository creates a new repository for pending transactions.
func newPgxPendingRepository(pool *pgxpool.Pool) *PgxPendingRepository {
	return &PgxPendingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PendingRepositoryFacade = (*PgxPendingRepository)(nil)

func scanPending(row pgx.Row) (*models.PendingTransaction, error) {
	var m models.PendingTransaction
	err := row.Scan(
		&m.PendingID,
		&m.OwnerID,
		&m.DefinitionID,
		&m.Description,
		&m.EstimatedAmount,
		&m.ActualAmount,
		&m.DueDate,
		&m.AccountID,
		&m.RelatedAccountID,
		&m.CategoryID,
		&m.Status,
		&m.Kind,
		&m.ResolvedAt,
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

func insertPending(ctx context.Context, tx pgx.Tx, m models.PendingTransaction) error {
	query := `
		INSERT INTO pending_transactions (` + pendingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.PendingID,
		m.OwnerID,
		m.DefinitionID,
		m.Description,
		m.EstimatedAmount,
		m.ActualAmount,
		m.DueDate,
		m.AccountID,
		m.RelatedAccountID,
		m.CategoryID,
		m.Status,
		m.Kind,
		m.ResolvedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: pending transaction %s already exists", apperrors.ErrDuplicate, m.PendingID)
		}
		return apperrors.NewAppError(500, "failed to save pending transaction "+m.PendingID, err)
	}
	return nil
}

// SavePending persists a new pending record.
func (r *PgxPendingRepository) SavePending(ctx context.Context, pending domain.PendingTransaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertPending(ctx, tx, mapping.ToModelPending(pending)); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SavePendingWithProgress persists a pending record and advances its
// definition's last-processed date in one commit, so the occurrence can
// neither be queued twice nor lost.
func (r *PgxPendingRepository) SavePendingWithProgress(ctx context.Context, pending domain.PendingTransaction, progress portsrepo.RecurringProgress) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertPending(ctx, tx, mapping.ToModelPending(pending)); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE recurring_definitions
		SET last_processed_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE definition_id = $1;
	`, progress.DefinitionID, mapping.ToModelDate(progress.ProcessedThrough), pending.CreatedAt, pending.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to advance recurring definition "+progress.DefinitionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("recurring definition " + progress.DefinitionID + " not found while queueing pending")
	}

	return r.Commit(ctx, tx)
}

// SavePendingWithStamp persists a pending interest charge and stamps the
// card's last-interest date in one commit.
func (r *PgxPendingRepository) SavePendingWithStamp(ctx context.Context, pending domain.PendingTransaction, stamp portsrepo.InterestStamp) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertPending(ctx, tx, mapping.ToModelPending(pending)); err != nil {
		return err
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET last_interest_date = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`, stamp.AccountID, mapping.ToModelDate(stamp.Date), pending.CreatedAt, pending.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to stamp interest date on account "+stamp.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("account " + stamp.AccountID + " not found while queueing interest charge")
	}

	return r.Commit(ctx, tx)
}

// FindPendingByID retrieves a pending transaction by its ID.
func (r *PgxPendingRepository) FindPendingByID(ctx context.Context, pendingID string) (*domain.PendingTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_transactions WHERE pending_id = $1;`

	m, err := scanPending(r.Pool.QueryRow(ctx, query, pendingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pending transaction by ID "+pendingID, err)
	}

	pending := mapping.ToDomainPending(*m)
	return &pending, nil
}

// ListPending returns an owner's pending records, oldest due date first.
func (r *PgxPendingRepository) ListPending(ctx context.Context, ownerID string, status domain.PendingStatus) ([]domain.PendingTransaction, error) {
	query := `SELECT ` + pendingColumns + ` FROM pending_transactions WHERE owner_id = $1`
	args := []interface{}{ownerID}
	if status != "" {
		args = append(args, string(status))
		query += ` AND status = $2`
	}
	query += ` ORDER BY due_date, created_at;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list pending transactions for owner "+ownerID, err)
	}
	defer rows.Close()

	pendings := []domain.PendingTransaction{}
	for rows.Next() {
		m, err := scanPending(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan pending transaction row", err)
		}
		pendings = append(pendings, mapping.ToDomainPending(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating pending transaction rows", err)
	}

	return pendings, nil
}

// ResolvePending transitions a record out of PENDING without posting anything.
func (r *PgxPendingRepository) ResolvePending(ctx context.Context, ownerID, pendingID string, status domain.PendingStatus, resolvedAt time.Time) error {
	query := `
		UPDATE pending_transactions
		SET status = $3, resolved_at = $4, last_updated_at = $4, last_updated_by = $2
		WHERE pending_id = $1 AND owner_id = $2 AND status = 'PENDING';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, pendingID, ownerID, string(status), resolvedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to resolve pending transaction "+pendingID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing record from one already resolved.
		if _, findErr := r.FindPendingByID(ctx, pendingID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: pending transaction %s", apperrors.ErrAlreadyResolved, pendingID)
	}
	return nil
}

// ExpirePendingBefore expires every pending record due strictly before cutoff.
func (r *PgxPendingRepository) ExpirePendingBefore(ctx context.Context, ownerID string, cutoff domain.Date, resolvedAt time.Time) (int, error) {
	query := `
		UPDATE pending_transactions
		SET status = 'EXPIRED', resolved_at = $3, last_updated_at = $3, last_updated_by = $1
		WHERE owner_id = $1 AND status = 'PENDING' AND due_date < $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, mapping.ToModelDate(cutoff), resolvedAt)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to expire pending transactions for owner "+ownerID, err)
	}
	return int(cmdTag.RowsAffected()), nil
}
