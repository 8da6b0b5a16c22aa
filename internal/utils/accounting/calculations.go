package accounting

import (
	"fmt"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/fincast/fincast/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Polarity describes how an account type reacts to the two ledger sides.
// Exactly one of the two holds for every type.
type Polarity struct {
	DebitIncreases bool
}

// polarities is the single source of truth for the sign convention:
// debits increase asset- and expense-type accounts, credits increase
// liability-, equity- and income-type accounts.
var polarities = map[domain.AccountType]Polarity{
	domain.Checking:   {DebitIncreases: true},
	domain.Savings:    {DebitIncreases: true},
	domain.Cash:       {DebitIncreases: true},
	domain.FixedAsset: {DebitIncreases: true},
	domain.Investment: {DebitIncreases: true},
	domain.Expense:    {DebitIncreases: true},

	domain.CreditCard:      {DebitIncreases: false},
	domain.LoanAcct:        {DebitIncreases: false},
	domain.Equity:          {DebitIncreases: false},
	domain.Income:          {DebitIncreases: false},
	domain.InterestExpense: {DebitIncreases: true},
}

// PolarityOf looks up the polarity for an account type.
func PolarityOf(accountType domain.AccountType) (Polarity, error) {
	p, ok := polarities[accountType]
	if !ok {
		return Polarity{}, fmt.Errorf("unknown account type %q", accountType)
	}
	return p, nil
}

// SignedAmount converts one ledger line into the signed delta it applies to
// the account's balance under the polarity table.
func SignedAmount(side domain.EntrySide, amount decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	p, err := PolarityOf(accountType)
	if err != nil {
		return decimal.Zero, err
	}
	if (side == domain.Debit) == p.DebitIncreases {
		return amount, nil
	}
	return amount.Neg(), nil
}

// ValidateAmount checks a posting amount: strictly positive with at most two
// decimal places. Monetary values are exact fixed-point decimals throughout.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amount)
	}
	if amount.Exponent() < -2 {
		return fmt.Errorf("%w: amount %s exceeds two decimal places", apperrors.ErrInvalidAmount, amount)
	}
	return nil
}

// ValidateGroupBalance checks the core double-entry property: the sum of
// debit lines equals the sum of credit lines, exactly, with no rounding
// tolerance. Entries are validated for positive two-decimal amounts first.
func ValidateGroupBalance(entries []domain.LedgerEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("%w: transaction group has no entries", apperrors.ErrValidation)
	}

	debits := decimal.Zero
	credits := decimal.Zero
	for _, e := range entries {
		if err := ValidateAmount(e.Amount); err != nil {
			return err
		}
		if e.Side == domain.Debit {
			debits = debits.Add(e.Amount)
		} else {
			credits = credits.Add(e.Amount)
		}
	}

	if !debits.Equal(credits) {
		return fmt.Errorf("%w: debits sum to %s, credits sum to %s",
			apperrors.ErrImbalanced, debits.String(), credits.String())
	}
	return nil
}

// GroupAmount computes the economic value of a balanced group: the total of
// its debit side.
func GroupAmount(entries []domain.LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Side == domain.Debit {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// MonthlyInterest computes one month of interest on a balance at an annual
// rate, rounded to cents.
func MonthlyInterest(balance, annualRate decimal.Decimal) decimal.Decimal {
	return balance.Mul(annualRate.Div(decimal.NewFromInt(12))).Round(2)
}
