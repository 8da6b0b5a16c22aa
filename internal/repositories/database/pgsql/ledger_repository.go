package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/models"
	"github.com/fincast/fincast/internal/utils/accounting"
	"github.com/fincast/fincast/internal/utils/mapping"
	"github.com/fincast/fincast/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for transaction groups and
// ledger entries.
func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveGroup appends a group, its entries and the cached-balance deltas in one
// database transaction, together with any extras. Account rows are locked
// first and balance updates are version-checked, so two concurrent postings
// against the same account cannot interleave.
func (r *PgxLedgerRepository) SaveGroup(ctx context.Context, group domain.TransactionGroup, entries []domain.LedgerEntry, balanceChanges map[string]decimal.Decimal, extras *portsrepo.SaveGroupExtras) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelGroup(group)
	groupQuery := `
		INSERT INTO transaction_groups (
			group_id, owner_id, group_date, description, kind, status, amount,
			is_reversal, original_group_id, reversing_group_id,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, groupQuery,
		m.GroupID,
		m.OwnerID,
		m.GroupDate,
		m.Description,
		m.Kind,
		m.Status,
		m.Amount,
		m.IsReversal,
		m.OriginalGroupID,
		m.ReversingGroupID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert group "+m.GroupID, err)
	}

	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	sort.Strings(accountIDs) // Stable lock order avoids deadlocks between concurrent postings

	lockedAccounts, err := findAccountsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}

	if err := updateBalancesInTx(ctx, tx, lockedAccounts, balanceChanges, group.CreatedBy, group.CreatedAt); err != nil {
		return err
	}

	// Insert entries with running balances folded from the pre-update
	// balances, per account, in entry order.
	runningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for accID, acc := range lockedAccounts {
		runningBalances[accID] = acc.Balance
	}

	batch := &pgx.Batch{}
	entryQuery := `
		INSERT INTO ledger_entries (
			entry_id, group_id, owner_id, account_id, side, amount, description,
			category_id, running_balance, group_date,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	for _, entry := range entries {
		acc, ok := lockedAccounts[entry.AccountID]
		if !ok {
			return apperrors.NewAppError(500, "locked account "+entry.AccountID+" missing during entry insert", nil)
		}
		signed, err := accounting.SignedAmount(entry.Side, entry.Amount, acc.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to sign entry "+entry.EntryID, err)
		}
		runningBalances[entry.AccountID] = runningBalances[entry.AccountID].Add(signed)
		entry.RunningBalance = runningBalances[entry.AccountID]

		me := mapping.ToModelEntry(entry)
		batch.Queue(entryQuery,
			me.EntryID,
			me.GroupID,
			me.OwnerID,
			me.AccountID,
			me.Side,
			me.Amount,
			me.Description,
			me.CategoryID,
			me.RunningBalance,
			me.GroupDate,
			me.CreatedAt,
			me.CreatedBy,
			me.LastUpdatedAt,
			me.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewAppError(500, "failed to insert entries for group "+m.GroupID, err)
	}

	if extras != nil {
		if err := applyExtras(ctx, tx, group, extras); err != nil {
			return err
		}
	}

	return r.Commit(ctx, tx)
}

// updateBalancesInTx applies the signed deltas to cached balances with an
// optimistic version check on top of the row locks.
func updateBalancesInTx(ctx context.Context, tx pgx.Tx, lockedAccounts map[string]domain.Account, balanceChanges map[string]decimal.Decimal, updatedBy string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND version = $5;
	`
	for accountID, delta := range balanceChanges {
		if delta.IsZero() {
			continue
		}
		acc := lockedAccounts[accountID]
		cmdTag, err := tx.Exec(ctx, query, accountID, delta, now, updatedBy, acc.Version)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update balance for account "+accountID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s changed underneath the posting", apperrors.ErrConcurrencyConflict, accountID)
		}
	}
	return nil
}

// applyExtras commits the side effects that must land with the group.
func applyExtras(ctx context.Context, tx pgx.Tx, group domain.TransactionGroup, extras *portsrepo.SaveGroupExtras) error {
	now := group.CreatedAt
	actor := group.CreatedBy

	if p := extras.Progress; p != nil {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE recurring_definitions
			SET last_processed_date = $2, last_updated_at = $3, last_updated_by = $4
			WHERE definition_id = $1;
		`, p.DefinitionID, mapping.ToModelDate(p.ProcessedThrough), now, actor)
		if err != nil {
			return apperrors.NewAppError(500, "failed to advance recurring definition "+p.DefinitionID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("recurring definition " + p.DefinitionID + " not found while committing progress")
		}
	}

	if res := extras.Resolution; res != nil {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE pending_transactions
			SET status = $2, actual_amount = $3, resolved_at = $4, last_updated_at = $5, last_updated_by = $6
			WHERE pending_id = $1 AND status = 'PENDING';
		`, res.PendingID, string(res.Status), res.ActualAmount, res.ResolvedAt, now, actor)
		if err != nil {
			return apperrors.NewAppError(500, "failed to resolve pending transaction "+res.PendingID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("%w: pending transaction %s", apperrors.ErrAlreadyResolved, res.PendingID)
		}
	}

	if lu := extras.LoanUpdate; lu != nil {
		loan := mapping.ToModelLoan(lu.Loan)
		cmdTag, err := tx.Exec(ctx, `
			UPDATE loans
			SET outstanding = $2, status = $3, next_due_date = $4, last_updated_at = $5, last_updated_by = $6
			WHERE loan_id = $1;
		`, loan.LoanID, loan.Outstanding, loan.Status, loan.NextDueDate, now, actor)
		if err != nil {
			return apperrors.NewAppError(500, "failed to update loan "+loan.LoanID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("loan " + loan.LoanID + " not found while committing payment")
		}

		payment := mapping.ToModelLoanPayment(lu.Payment)
		payment.GroupID = group.GroupID
		_, err = tx.Exec(ctx, `
			INSERT INTO loan_payments (
				payment_id, loan_id, owner_id, group_id, payment_date, total,
				principal_part, interest_part, remaining_balance,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
		`,
			payment.PaymentID,
			payment.LoanID,
			payment.OwnerID,
			payment.GroupID,
			payment.PaymentDate,
			payment.Total,
			payment.PrincipalPart,
			payment.InterestPart,
			payment.RemainingBalance,
			payment.CreatedAt,
			payment.CreatedBy,
			payment.LastUpdatedAt,
			payment.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert payment for loan "+loan.LoanID, err)
		}
	}

	if stamp := extras.InterestStamp; stamp != nil {
		cmdTag, err := tx.Exec(ctx, `
			UPDATE accounts
			SET last_interest_date = $2, last_updated_at = $3, last_updated_by = $4
			WHERE account_id = $1;
		`, stamp.AccountID, mapping.ToModelDate(stamp.Date), now, actor)
		if err != nil {
			return apperrors.NewAppError(500, "failed to stamp interest date on account "+stamp.AccountID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError("account " + stamp.AccountID + " not found while stamping interest date")
		}
	}

	return nil
}

// UpdateGroupStatusAndLinks marks a group reversed and records the linkage.
func (r *PgxLedgerRepository) UpdateGroupStatusAndLinks(ctx context.Context, groupID string, status domain.GroupStatus, reversingGroupID *string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transaction_groups
		SET status = $2, reversing_group_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE group_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, groupID, string(status), reversingGroupID, updatedAt, updatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status for group "+groupID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("group " + groupID + " not found for update")
	}
	return nil
}

// UpdateGroupCategory relabels the debit entries of an owner's group with a
// new category and reports how many entries changed. Credit entries keep a nil
// category; only the spend side is categorized.
func (r *PgxLedgerRepository) UpdateGroupCategory(ctx context.Context, ownerID, groupID string, categoryID *string, updatedBy string, updatedAt time.Time) (int, error) {
	query := `
		UPDATE ledger_entries
		SET category_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE owner_id = $1 AND group_id = $2 AND side = 'DEBIT';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, ownerID, groupID, categoryID, updatedAt, updatedBy)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to update category for group "+groupID, err)
	}
	return int(cmdTag.RowsAffected()), nil
}

const groupColumns = `group_id, owner_id, group_date, description, kind, status, amount,
	is_reversal, original_group_id, reversing_group_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanGroup(row pgx.Row) (*models.TransactionGroup, error) {
	var m models.TransactionGroup
	err := row.Scan(
		&m.GroupID,
		&m.OwnerID,
		&m.GroupDate,
		&m.Description,
		&m.Kind,
		&m.Status,
		&m.Amount,
		&m.IsReversal,
		&m.OriginalGroupID,
		&m.ReversingGroupID,
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

// FindGroupByID retrieves a group by its ID.
func (r *PgxLedgerRepository) FindGroupByID(ctx context.Context, groupID string) (*domain.TransactionGroup, error) {
	query := `SELECT ` + groupColumns + ` FROM transaction_groups WHERE group_id = $1;`

	m, err := scanGroup(r.Pool.QueryRow(ctx, query, groupID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find group by ID "+groupID, err)
	}

	group := mapping.ToDomainGroup(*m)
	return &group, nil
}

const entryColumns = `entry_id, group_id, owner_id, account_id, side, amount, description,
	category_id, running_balance, group_date,
	created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.GroupID,
		&m.OwnerID,
		&m.AccountID,
		&m.Side,
		&m.Amount,
		&m.Description,
		&m.CategoryID,
		&m.RunningBalance,
		&m.GroupDate,
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

// FindEntriesByGroupID retrieves all entries of one group in insertion order.
func (r *PgxLedgerRepository) FindEntriesByGroupID(ctx context.Context, groupID string) ([]domain.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE group_id = $1 ORDER BY created_at, entry_id;`

	rows, err := r.Pool.Query(ctx, query, groupID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query entries for group "+groupID, err)
	}
	defer rows.Close()

	modelEntries := []models.LedgerEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan entry row for group "+groupID, err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating entry rows for group "+groupID, err)
	}

	return mapping.ToDomainEntrySlice(modelEntries), nil
}

// ListEntries pages through an owner's ledger, newest group date first with
// creation time and entry ID as tie-breakers, using token-based cursor
// pagination.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, ownerID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to know whether another page exists.
	fetchLimit := limit + 1

	baseQuery := `
		SELECT e.entry_id, e.group_id, e.owner_id, e.account_id, e.side, e.amount, e.description,
		       e.category_id, e.running_balance, e.group_date,
		       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
		FROM ledger_entries e
		JOIN transaction_groups g ON e.group_id = g.group_id
	`
	filterClause := `WHERE e.owner_id = $1`
	args := []interface{}{ownerID}

	if !filter.IncludeReversals {
		filterClause += ` AND g.status = 'POSTED' AND g.is_reversal = FALSE`
	}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		filterClause += ` AND e.account_id = $` + strconv.Itoa(len(args))
	}
	if filter.From != nil && !filter.From.IsZero() {
		args = append(args, mapping.ToModelDate(*filter.From))
		filterClause += ` AND e.group_date >= $` + strconv.Itoa(len(args))
	}
	if filter.To != nil && !filter.To.IsZero() {
		args = append(args, mapping.ToModelDate(*filter.To))
		filterClause += ` AND e.group_date <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastEntryID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Entries of one group share created_at, so the entry ID completes the
		// tuple; a two-column cursor would skip the group's remaining entries
		// when a page boundary falls inside it.
		args = append(args, lastDate, lastCreatedAt, lastEntryID)
		filterClause += ` AND (e.group_date, e.created_at, e.entry_id) < ($` + strconv.Itoa(len(args)-2) + `, $` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	orderByClause := `ORDER BY e.group_date DESC, e.created_at DESC, e.entry_id DESC`
	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query entries for owner "+ownerID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan entry row for owner "+ownerID, err)
		}
		modelEntries = append(modelEntries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating entry rows for owner "+ownerID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		token := pagination.EncodeToken(last.GroupDate, last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		results = modelEntries[:limit]
	}

	return mapping.ToDomainEntrySlice(results), nextTokenVal, nil
}

// SumEntries folds an account's entries into the raw debit-minus-credit
// total. A zero asOf applies no upper bound.
func (r *PgxLedgerRepository) SumEntries(ctx context.Context, ownerID, accountID string, asOf domain.Date) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN side = 'DEBIT' THEN amount ELSE -amount END), 0)
		FROM ledger_entries
		WHERE owner_id = $1 AND account_id = $2
	`
	args := []interface{}{ownerID, accountID}
	if !asOf.IsZero() {
		args = append(args, mapping.ToModelDate(asOf))
		query += ` AND group_date <= $3`
	}

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query+";", args...).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to fold entries for account "+accountID, err)
	}
	return sum, nil
}
