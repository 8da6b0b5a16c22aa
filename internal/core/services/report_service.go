package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	portsrepo "github.com/fincast/fincast/internal/core/ports/repositories"
	portssvc "github.com/fincast/fincast/internal/core/ports/services"
	"github.com/fincast/fincast/internal/platform/logging"
)

var (
	assetTypes     = []domain.AccountType{domain.Checking, domain.Savings, domain.Cash, domain.Investment, domain.FixedAsset}
	liabilityTypes = []domain.AccountType{domain.CreditCard, domain.LoanAcct}
	investingTypes = []domain.AccountType{domain.Investment, domain.FixedAsset}
)

// reportService assembles financial statements from the ledger. Everything is
// derived from entries, never from cached balances, so a statement for any
// past date is as reliable as one for today.
type reportService struct {
	reportingRepo portsrepo.ReportingRepositoryFacade
	accountRepo   portsrepo.AccountRepositoryFacade
	ledgerRepo    portsrepo.LedgerRepositoryFacade
	ownerRepo     portsrepo.OwnerRepositoryFacade
}

// NewReportService creates a new ReportService.
func NewReportService(reportingRepo portsrepo.ReportingRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade, ownerRepo portsrepo.OwnerRepositoryFacade) portssvc.ReportSvcFacade {
	return &reportService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
		ledgerRepo:    ledgerRepo,
		ownerRepo:     ownerRepo,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

// IncomeStatement summarizes revenue by description and expenses by category
// over [from, to].
func (s *reportService) IncomeStatement(ctx context.Context, ownerID string, from, to domain.Date) (*domain.IncomeStatement, error) {
	logger := logging.FromCtx(ctx)

	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	revenue, err := s.reportingRepo.GetRevenueLines(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch revenue lines: %w", err)
	}
	expenses, err := s.reportingRepo.GetExpensesByCategory(ctx, ownerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch expense lines: %w", err)
	}

	totalRevenue := sumLines(revenue)
	totalExpenses := sumLines(expenses)

	logger.Debug("Income statement assembled",
		slog.String("owner_id", ownerID),
		slog.String("total_revenue", totalRevenue.String()),
		slog.String("total_expenses", totalExpenses.String()))

	return &domain.IncomeStatement{
		From:          from,
		To:            to,
		Revenue:       revenue,
		TotalRevenue:  totalRevenue,
		Expenses:      expenses,
		TotalExpenses: totalExpenses,
		NetIncome:     totalRevenue.Sub(totalExpenses),
	}, nil
}

// BalanceSheet states what the owner holds and owes as of a date. Balances
// are folded from entries per account; equity is derived as assets minus
// liabilities so the statement always reconciles.
func (s *reportService) BalanceSheet(ctx context.Context, ownerID string, asOf *domain.Date) (*domain.BalanceSheet, error) {
	date, err := s.resolveAsOf(ctx, ownerID, asOf)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, ownerID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	assetOf := typeSet(assetTypes)
	liabilityOf := typeSet(liabilityTypes)

	sheet := &domain.BalanceSheet{
		AsOf:             date,
		Assets:           []domain.BalanceSheetLine{},
		TotalAssets:      decimal.Zero,
		Liabilities:      []domain.BalanceSheetLine{},
		TotalLiabilities: decimal.Zero,
	}

	for _, account := range accounts {
		if !assetOf[account.AccountType] && !liabilityOf[account.AccountType] {
			continue
		}
		raw, err := s.ledgerRepo.SumEntries(ctx, ownerID, account.AccountID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to fold entries for account %s: %w", account.AccountID, err)
		}
		if raw.IsZero() {
			continue
		}
		if assetOf[account.AccountType] {
			sheet.Assets = append(sheet.Assets, domain.BalanceSheetLine{
				AccountID: account.AccountID,
				Name:      account.Name,
				Balance:   raw,
			})
			sheet.TotalAssets = sheet.TotalAssets.Add(raw)
		} else {
			// Liabilities carry credit balances; report what is owed as a
			// positive number.
			owed := raw.Neg()
			sheet.Liabilities = append(sheet.Liabilities, domain.BalanceSheetLine{
				AccountID: account.AccountID,
				Name:      account.Name,
				Balance:   owed,
			})
			sheet.TotalLiabilities = sheet.TotalLiabilities.Add(owed)
		}
	}

	sheet.Equity = sheet.TotalAssets.Sub(sheet.TotalLiabilities)
	return sheet, nil
}

// CashFlow splits a period's money movement into operating, investing and
// financing activity.
func (s *reportService) CashFlow(ctx context.Context, ownerID string, from, to domain.Date) (*domain.CashFlowStatement, error) {
	if err := validatePeriod(from, to); err != nil {
		return nil, err
	}

	_, incomeCredits, err := s.reportingRepo.SumSidesByTypes(ctx, ownerID, []domain.AccountType{domain.Income}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income activity: %w", err)
	}
	expenseDebits, _, err := s.reportingRepo.SumSidesByTypes(ctx, ownerID, []domain.AccountType{domain.Expense, domain.InterestExpense}, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expense activity: %w", err)
	}
	investDebits, investCredits, err := s.reportingRepo.SumSidesByTypes(ctx, ownerID, investingTypes, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum investing activity: %w", err)
	}
	finDebits, finCredits, err := s.reportingRepo.SumSidesByTypes(ctx, ownerID, liabilityTypes, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum financing activity: %w", err)
	}

	operating := incomeCredits.Sub(expenseDebits)
	// Cash spent building up investments or fixed assets is an outflow, so
	// purchases push the investing figure negative.
	investing := investCredits.Sub(investDebits)
	// Borrowing credits the liability and is an inflow; repayments debit it
	// and flow out. An expense charged to a credit card nets to zero here
	// against its operating debit, since no cash moved yet.
	financing := finCredits.Sub(finDebits)

	return &domain.CashFlowStatement{
		From:      from,
		To:        to,
		Operating: operating,
		Investing: investing,
		Financing: financing,
		NetChange: operating.Add(investing).Add(financing),
	}, nil
}

// resolveAsOf defaults a nil statement date to the owner's simulated "today".
func (s *reportService) resolveAsOf(ctx context.Context, ownerID string, asOf *domain.Date) (domain.Date, error) {
	if asOf != nil {
		if asOf.IsZero() {
			return domain.Date{}, fmt.Errorf("%w: statement date cannot be zero", apperrors.ErrValidation)
		}
		return *asOf, nil
	}
	owner, err := s.ownerRepo.FindOwnerByID(ctx, ownerID)
	if err != nil {
		return domain.Date{}, fmt.Errorf("failed to find owner: %w", err)
	}
	return owner.CurrentDate, nil
}

func validatePeriod(from, to domain.Date) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("%w: report period requires both dates", apperrors.ErrValidation)
	}
	if to.Before(from) {
		return fmt.Errorf("%w: report period ends before it starts", apperrors.ErrValidation)
	}
	return nil
}

func sumLines(lines []domain.ReportLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Amount)
	}
	return total
}

func typeSet(types []domain.AccountType) map[domain.AccountType]bool {
	set := make(map[domain.AccountType]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}
