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
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, owner_id, name, account_type, balance, credit_limit, annual_rate,
	last_interest_date, is_system, is_active, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (*models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.OwnerID,
		&m.Name,
		&m.AccountType,
		&m.Balance,
		&m.CreditLimit,
		&m.AnnualRate,
		&m.LastInterestDate,
		&m.IsSystem,
		&m.IsActive,
		&m.Version,
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

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.OwnerID,
		m.Name,
		m.AccountType,
		m.Balance,
		m.CreditLimit,
		m.AnnualRate,
		m.LastInterestDate,
		m.IsSystem,
		m.IsActive,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}

	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// FindAccountsByIDs retrieves multiple accounts by their IDs.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row during batch fetch: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows during batch fetch: %w", err)
	}

	// Missing IDs are simply absent from the map; the service layer decides
	// whether that is an error.
	return accounts, nil
}

// FindSystemAccount retrieves the owner's provisioned system account of a type.
func (r *PgxAccountRepository) FindSystemAccount(ctx context.Context, ownerID string, accountType domain.AccountType) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE owner_id = $1 AND account_type = $2 AND is_system = TRUE;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, ownerID, string(accountType)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError(string(accountType) + " system account not found for owner " + ownerID)
		}
		return nil, fmt.Errorf("failed to find %s system account for owner %s: %w", accountType, ownerID, err)
	}

	acc := mapping.ToDomainAccount(*m)
	return &acc, nil
}

// ListAccounts retrieves all accounts for an owner, active ones first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, ownerID string, includeInactive bool) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1`
	if !includeInactive {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY is_active DESC, name;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for owner %s: %w", ownerID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows for owner %s: %w", ownerID, err)
	}
	return accounts, nil
}

// UpdateAccount updates an account's mutable metadata. The cached balance and
// version are deliberately untouched; they move only inside SaveGroup.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $2, credit_limit = $3, annual_rate = $4, last_updated_at = $5, last_updated_by = $6
		WHERE account_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.CreditLimit,
		m.AnnualRate,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount marks an account as inactive.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, accountID string, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, accountID, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already inactive.
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s is already inactive", apperrors.ErrValidation, accountID)
	}
	return nil
}

// findAccountsForUpdate retrieves accounts by IDs with their rows locked.
// Must be called within a transaction.
func findAccountsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for update: %w", err)
	}
	defer rows.Close()

	accounts := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[m.AccountID] = mapping.ToDomainAccount(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accounts) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accounts[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not lock accounts %v", apperrors.ErrNotFound, missing)
	}
	return accounts, nil
}
