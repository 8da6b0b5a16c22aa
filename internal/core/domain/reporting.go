package domain

import "github.com/shopspring/decimal"

// ReportLine is one named amount in a report grouping.
type ReportLine struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// IncomeStatement summarizes revenue and spending over a period.
type IncomeStatement struct {
	From          Date            `json:"from"`
	To            Date            `json:"to"`
	Revenue       []ReportLine    `json:"revenue"` // By description
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	Expenses      []ReportLine    `json:"expenses"` // By category
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheetLine is one account's position as of the statement date.
type BalanceSheetLine struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
}

// BalanceSheet states what the owner holds and owes as of a date. Equity is
// derived as assets minus liabilities rather than read from the equity
// account, so revaluations and retained income always reconcile.
type BalanceSheet struct {
	AsOf             Date               `json:"asOf"`
	Assets           []BalanceSheetLine `json:"assets"`
	TotalAssets      decimal.Decimal    `json:"totalAssets"`
	Liabilities      []BalanceSheetLine `json:"liabilities"`
	TotalLiabilities decimal.Decimal    `json:"totalLiabilities"`
	Equity           decimal.Decimal    `json:"equity"`
}

// CashFlowStatement splits a period's money movement into operating,
// investing and financing activity.
type CashFlowStatement struct {
	From      Date            `json:"from"`
	To        Date            `json:"to"`
	Operating decimal.Decimal `json:"operating"`
	Investing decimal.Decimal `json:"investing"` // Negative when cash flowed into assets
	Financing decimal.Decimal `json:"financing"`
	NetChange decimal.Decimal `json:"netChange"`
}
