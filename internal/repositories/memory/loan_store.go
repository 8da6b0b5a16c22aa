package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
)

// SaveLoan persists a new loan.
func (s *Store) SaveLoan(ctx context.Context, loan domain.Loan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.loans[loan.LoanID]; exists {
		return fmt.Errorf("%w: loan %s already exists", apperrors.ErrDuplicate, loan.LoanID)
	}
	s.loans[loan.LoanID] = loan
	return nil
}

// FindLoanByID retrieves a loan by its ID.
func (s *Store) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loan, ok := s.loans[loanID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &loan, nil
}

// ListLoans returns an owner's loans, active first.
func (s *Store) ListLoans(ctx context.Context, ownerID string, includePaid bool) ([]domain.Loan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loans := []domain.Loan{}
	for _, loan := range s.loans {
		if loan.OwnerID != ownerID {
			continue
		}
		if loan.Status == domain.LoanPaid && !includePaid {
			continue
		}
		loans = append(loans, loan)
	}
	sort.Slice(loans, func(i, j int) bool {
		if loans[i].Status != loans[j].Status {
			return loans[i].Status == domain.LoanActive
		}
		return loans[i].NextDueDate.Before(loans[j].NextDueDate)
	})
	return loans, nil
}

// ListPayments returns a loan's payment history, newest first.
func (s *Store) ListPayments(ctx context.Context, ownerID, loanID string) ([]domain.LoanPayment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	payments := []domain.LoanPayment{}
	for _, payment := range s.payments {
		if payment.OwnerID == ownerID && payment.LoanID == loanID {
			payments = append(payments, payment)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		if c := payments[i].PaymentDate.Compare(payments[j].PaymentDate); c != 0 {
			return c > 0
		}
		return payments[i].CreatedAt.After(payments[j].CreatedAt)
	})
	return payments, nil
}
