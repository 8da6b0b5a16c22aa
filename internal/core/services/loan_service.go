package services

import (
	"context"
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
	"github.com/fincast/fincast/internal/utils/accounting"
	"github.com/fincast/fincast/internal/utils/recurrence"
)

// loanService amortizes loans: each payment is split into interest on the
// outstanding balance and principal, and the balance moves in the same commit
// as the payment's ledger group.
type loanService struct {
	loanRepo    portsrepo.LoanRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ownerRepo   portsrepo.OwnerRepositoryFacade
	poster      *groupPoster
}

// NewLoanService creates a new LoanService.
func NewLoanService(loanRepo portsrepo.LoanRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade, poster *groupPoster) portssvc.LoanSvcFacade {
	return &loanService{
		loanRepo:    loanRepo,
		accountRepo: accountRepo,
		ownerRepo:   ownerRepo,
		poster:      poster,
	}
}

var _ portssvc.LoanSvcFacade = (*loanService)(nil)

// CreateLoan registers a loan against one of the owner's loan accounts.
func (s *loanService) CreateLoan(ctx context.Context, ownerID string, req dto.CreateLoanRequest) (*domain.Loan, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.Principal); err != nil {
		return nil, err
	}
	if err := accounting.ValidateAmount(req.ScheduledPayment); err != nil {
		return nil, err
	}
	if req.AnnualRate.IsNegative() {
		return nil, fmt.Errorf("%w: interest rate cannot be negative", apperrors.ErrInvalidAmount)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", req.AccountID, err)
	}
	if account.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: ID %s", apperrors.ErrUnknownAccount, req.AccountID)
	}
	if account.AccountType != domain.LoanAcct {
		return nil, fmt.Errorf("%w: account %s is not a loan account", apperrors.ErrValidation, req.AccountID)
	}

	now := time.Now().UTC()
	loan := domain.Loan{
		LoanID:           uuid.NewString(),
		OwnerID:          ownerID,
		AccountID:        req.AccountID,
		Principal:        req.Principal,
		Outstanding:      req.Principal,
		AnnualRate:       req.AnnualRate,
		ScheduledPayment: req.ScheduledPayment,
		NextDueDate:      req.NextDueDate,
		Status:           domain.LoanActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	if err := s.loanRepo.SaveLoan(ctx, loan); err != nil {
		logger.Error("Failed to save loan", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save loan: %w", err)
	}

	logger.Info("Loan created",
		slog.String("loan_id", loan.LoanID),
		slog.String("principal", loan.Principal.String()),
		slog.String("rate", loan.AnnualRate.String()))
	return &loan, nil
}

// GetLoanByID retrieves a loan, scoped to the owner.
func (s *loanService) GetLoanByID(ctx context.Context, ownerID, loanID string) (*domain.Loan, error) {
	loan, err := s.loanRepo.FindLoanByID(ctx, loanID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", loanID, err)
	}
	if loan.OwnerID != ownerID {
		return nil, apperrors.ErrNotFound
	}
	return loan, nil
}

// ListLoans returns the owner's loans.
func (s *loanService) ListLoans(ctx context.Context, ownerID string, includePaid bool) ([]domain.Loan, error) {
	return s.loanRepo.ListLoans(ctx, ownerID, includePaid)
}

// ApplyPayment applies one scheduled payment. Interest accrues on the
// outstanding balance at the monthly rate; the remainder reduces principal,
// clamped so the final payment never overshoots. The three-leg group, the
// loan's new balance and the payment audit row commit together.
func (s *loanService) ApplyPayment(ctx context.Context, ownerID, loanID string, req dto.ApplyLoanPaymentRequest) (*dto.LoanPaymentResponse, error) {
	logger := logging.FromCtx(ctx)

	if err := dto.Validate(req); err != nil {
		return nil, err
	}

	loan, err := s.GetLoanByID(ctx, ownerID, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status == domain.LoanPaid || !loan.Outstanding.IsPositive() {
		return nil, fmt.Errorf("%w: loan %s", apperrors.ErrLoanAlreadyPaid, loanID)
	}

	date := loan.NextDueDate
	if req.Date != nil && !req.Date.IsZero() {
		date = *req.Date
	} else if date.IsZero() {
		owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve payment date: %w", err)
		}
		date = owner.CurrentDate
	}

	interest := accounting.MonthlyInterest(loan.Outstanding, loan.AnnualRate)
	principal := loan.ScheduledPayment.Sub(interest)
	if principal.IsNegative() {
		return nil, fmt.Errorf("%w: scheduled payment %s does not cover interest of %s",
			apperrors.ErrValidation, loan.ScheduledPayment.StringFixed(2), interest.StringFixed(2))
	}
	if principal.GreaterThan(loan.Outstanding) {
		// Final payment: pay off exactly what remains.
		principal = loan.Outstanding
	}
	total := principal.Add(interest)

	remaining := loan.Outstanding.Sub(principal)
	updatedLoan := *loan
	updatedLoan.Outstanding = remaining
	updatedLoan.NextDueDate = nextDueDate(loan.NextDueDate)
	now := time.Now().UTC()
	updatedLoan.LastUpdatedAt = now
	updatedLoan.LastUpdatedBy = ownerID
	if remaining.IsZero() {
		updatedLoan.Status = domain.LoanPaid
	}

	account, err := s.accountRepo.FindAccountByID(ctx, loan.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan account: %w", err)
	}

	lines := []entryLine{
		{accountID: loan.AccountID, side: domain.Debit, amount: principal},
		{accountID: req.PaymentAccountID, side: domain.Credit, amount: total},
	}
	if interest.IsPositive() {
		interestExpense, err := s.accountRepo.FindSystemAccount(ctx, ownerID, domain.InterestExpense)
		if err != nil {
			return nil, fmt.Errorf("failed to find interest expense account: %w", err)
		}
		lines = append(lines, entryLine{accountID: interestExpense.AccountID, side: domain.Debit, amount: interest})
	}

	payment := domain.LoanPayment{
		PaymentID:        uuid.NewString(),
		LoanID:           loan.LoanID,
		OwnerID:          ownerID,
		PaymentDate:      date,
		Total:            total,
		PrincipalPart:    principal,
		InterestPart:     interest,
		RemainingBalance: remaining,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}

	group, err := s.poster.post(ctx, ownerID, groupSpec{
		date:        date,
		kind:        domain.KindLoanPayment,
		description: fmt.Sprintf("Loan payment - %s", account.Name),
		lines:       lines,
		extras: &portsrepo.SaveGroupExtras{
			LoanUpdate: &portsrepo.LoanUpdate{
				Loan:    updatedLoan,
				Payment: payment,
			},
		},
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Loan payment applied",
		slog.String("loan_id", loanID),
		slog.String("group_id", group.GroupID),
		slog.String("principal", principal.String()),
		slog.String("interest", interest.String()),
		slog.String("remaining", remaining.String()))

	return &dto.LoanPaymentResponse{
		GroupID:          group.GroupID,
		PaymentDate:      date,
		Total:            total,
		PrincipalPart:    principal,
		InterestPart:     interest,
		RemainingBalance: remaining,
		LoanStatus:       string(updatedLoan.Status),
	}, nil
}

// ListPayments returns a loan's payment history, newest first.
func (s *loanService) ListPayments(ctx context.Context, ownerID, loanID string) ([]domain.LoanPayment, error) {
	if _, err := s.GetLoanByID(ctx, ownerID, loanID); err != nil {
		return nil, err
	}
	return s.loanRepo.ListPayments(ctx, ownerID, loanID)
}

// nextDueDate rolls a due date one month forward, clamping to short months.
func nextDueDate(d domain.Date) domain.Date {
	if d.IsZero() {
		return d
	}
	year, month := d.Year, d.Month
	if month == time.December {
		year, month = year+1, time.January
	} else {
		month++
	}
	return recurrence.OccurrenceOn(year, month, d.Day)
}
