package pgsql

import (
	"context"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	"github.com/fincast/fincast/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for report aggregates.
func newPgxReportingRepository(pool *pgxpool.Pool) *PgxReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ReportingRepositoryFacade = (*PgxReportingRepository)(nil)

// Reports read only groups that are still standing: reversal groups and the
// groups they undid cancel out of every statement.
const reportedGroupFilter = `g.status = 'POSTED' AND g.is_reversal = FALSE`

// GetRevenueLines sums credits to income accounts grouped by description.
func (r *PgxReportingRepository) GetRevenueLines(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error) {
	query := `
		SELECT e.description, SUM(e.amount) AS total
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		JOIN transaction_groups g ON g.group_id = e.group_id
		WHERE e.owner_id = $1
		  AND e.side = 'CREDIT'
		  AND a.account_type = 'INCOME'
		  AND e.group_date BETWEEN $2 AND $3
		  AND ` + reportedGroupFilter + `
		GROUP BY e.description
		ORDER BY total DESC, e.description;
	`
	return r.queryReportLines(ctx, query, ownerID, from, to)
}

// GetExpensesByCategory sums debits to expense accounts grouped by category
// name. Entries without a category land under "Uncategorized".
func (r *PgxReportingRepository) GetExpensesByCategory(ctx context.Context, ownerID string, from, to domain.Date) ([]domain.ReportLine, error) {
	query := `
		SELECT COALESCE(c.name, 'Uncategorized') AS category_name, SUM(e.amount) AS total
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		JOIN transaction_groups g ON g.group_id = e.group_id
		LEFT JOIN expense_categories c ON c.category_id = e.category_id
		WHERE e.owner_id = $1
		  AND e.side = 'DEBIT'
		  AND a.account_type IN ('EXPENSE', 'INTEREST_EXPENSE')
		  AND e.group_date BETWEEN $2 AND $3
		  AND ` + reportedGroupFilter + `
		GROUP BY category_name
		ORDER BY total DESC, category_name;
	`
	return r.queryReportLines(ctx, query, ownerID, from, to)
}

func (r *PgxReportingRepository) queryReportLines(ctx context.Context, query, ownerID string, from, to domain.Date) ([]domain.ReportLine, error) {
	rows, err := r.Pool.Query(ctx, query, ownerID, mapping.ToModelDate(from), mapping.ToModelDate(to))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query report lines for owner "+ownerID, err)
	}
	defer rows.Close()

	lines := []domain.ReportLine{}
	for rows.Next() {
		var line domain.ReportLine
		if err := rows.Scan(&line.Name, &line.Amount); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan report line for owner "+ownerID, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating report lines for owner "+ownerID, err)
	}
	return lines, nil
}

// SumSidesByTypes totals the debits and credits booked against accounts of
// the given types over the period.
func (r *PgxReportingRepository) SumSidesByTypes(ctx context.Context, ownerID string, types []domain.AccountType, from, to domain.Date) (decimal.Decimal, decimal.Decimal, error) {
	typeNames := make([]string, len(types))
	for i, t := range types {
		typeNames[i] = string(t)
	}

	query := `
		SELECT
			COALESCE(SUM(CASE WHEN e.side = 'DEBIT' THEN e.amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN e.side = 'CREDIT' THEN e.amount ELSE 0 END), 0)
		FROM ledger_entries e
		JOIN accounts a ON a.account_id = e.account_id
		JOIN transaction_groups g ON g.group_id = e.group_id
		WHERE e.owner_id = $1
		  AND a.account_type = ANY($2)
		  AND e.group_date BETWEEN $3 AND $4
		  AND ` + reportedGroupFilter + `;
	`
	var debits, credits decimal.Decimal
	err := r.Pool.QueryRow(ctx, query, ownerID, typeNames, mapping.ToModelDate(from), mapping.ToModelDate(to)).Scan(&debits, &credits)
	if err != nil {
		return decimal.Zero, decimal.Zero, apperrors.NewAppError(500, "failed to sum sides by account type for owner "+ownerID, err)
	}
	return debits, credits, nil
}
