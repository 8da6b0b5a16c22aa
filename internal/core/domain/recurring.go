package domain

import "github.com/shopspring/decimal"

// RecurringKind distinguishes recurring expenses from recurring income.
type RecurringKind string

const (
	RecurringExpense RecurringKind = "EXPENSE"
	RecurringIncome  RecurringKind = "INCOME"
)

// RecurringDefinition describes an obligation that becomes due once per month
// on DueDay. Fixed-amount definitions are auto-posted by the scheduler;
// variable ones produce a pending transaction for approval.
//
// LastProcessed is advanced only by the scheduler, exactly once per due
// occurrence, which makes AdvanceTo idempotent. A zero LastProcessed means the
// definition has never been processed.
type RecurringDefinition struct {
	DefinitionID    string           `json:"definitionID"` // Primary key (UUID)
	OwnerID         string           `json:"ownerID"`
	Kind            RecurringKind    `json:"kind"`
	Description     string           `json:"description"`
	Amount          decimal.Decimal  `json:"amount"`
	IsVariable      bool             `json:"isVariable"`
	EstimatedAmount *decimal.Decimal `json:"estimatedAmount,omitempty"` // Variable definitions only
	AccountID       string           `json:"accountID"`                 // Payment account (expense) or deposit account (income)
	DueDay          int              `json:"dueDay"`                    // 1..31, clamped to short months
	CategoryID      *string          `json:"categoryID,omitempty"`
	LastProcessed   Date             `json:"lastProcessed"`
	AuditFields
}

// EffectiveAmount is the amount an occurrence should carry: the estimate for
// variable definitions when present, otherwise the nominal amount.
func (d RecurringDefinition) EffectiveAmount() decimal.Decimal {
	if d.IsVariable && d.EstimatedAmount != nil {
		return *d.EstimatedAmount
	}
	return d.Amount
}
