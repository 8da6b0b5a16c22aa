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

const loanColumns = `loan_id, owner_id, account_id, principal, outstanding, annual_rate,
	scheduled_payment, next_due_date, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loans and their payments.
func newPgxLoanRepository(pool *pgxpool.Pool) *PgxLoanRepository {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanLoan(row pgx.Row) (*models.Loan, error) {
	var m models.Loan
	err := row.Scan(
		&m.LoanID,
		&m.OwnerID,
		&m.AccountID,
		&m.Principal,
		&m.Outstanding,
		&m.AnnualRate,
		&m.ScheduledPayment,
		&m.NextDueDate,
		&m.Status,
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

// SaveLoan persists a new loan.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.LoanID,
		m.OwnerID,
		m.AccountID,
		m.Principal,
		m.Outstanding,
		m.AnnualRate,
		m.ScheduledPayment,
		m.NextDueDate,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, m.LoanID)
		}
		return apperrors.NewAppError(500, "failed to save loan "+m.LoanID, err)
	}
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	m, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}

	loan := mapping.ToDomainLoan(*m)
	return &loan, nil
}

// ListLoans returns an owner's loans, active first.
func (r *PgxLoanRepository) ListLoans(ctx context.Context, ownerID string, includePaid bool) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE owner_id = $1`
	if !includePaid {
		query += ` AND status = 'ACTIVE'`
	}
	query += ` ORDER BY status, next_due_date;`

	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list loans for owner "+ownerID, err)
	}
	defer rows.Close()

	loans := []domain.Loan{}
	for rows.Next() {
		m, err := scanLoan(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan row", err)
		}
		loans = append(loans, mapping.ToDomainLoan(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan rows", err)
	}

	return loans, nil
}

// ListPayments returns a loan's payment history, newest first.
func (r *PgxLoanRepository) ListPayments(ctx context.Context, ownerID, loanID string) ([]domain.LoanPayment, error) {
	query := `
		SELECT payment_id, loan_id, owner_id, group_id, payment_date, total,
		       principal_part, interest_part, remaining_balance,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM loan_payments
		WHERE owner_id = $1 AND loan_id = $2
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, ownerID, loanID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list payments for loan "+loanID, err)
	}
	defer rows.Close()

	payments := []domain.LoanPayment{}
	for rows.Next() {
		var m models.LoanPayment
		err := rows.Scan(
			&m.PaymentID,
			&m.LoanID,
			&m.OwnerID,
			&m.GroupID,
			&m.PaymentDate,
			&m.Total,
			&m.PrincipalPart,
			&m.InterestPart,
			&m.RemainingBalance,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan payment row", err)
		}
		payments = append(payments, mapping.ToDomainLoanPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan payment rows", err)
	}

	return payments, nil
}
