package core

import "time"

// Totals is the revenue/expense rollup of a set of transactions.
// Balance is always Revenue - Expenses.
type Totals struct {
	Revenue  Money `json:"revenue"`
	Expenses Money `json:"expenses"`
	Balance  Money `json:"balance"`
}

// Add folds one transaction into the totals.
func (t Totals) Add(tx Transaction) Totals {
	switch tx.Type {
	case Revenue:
		t.Revenue = t.Revenue.Add(tx.Amount)
	case Outgo:
		t.Expenses = t.Expenses.Add(tx.Amount)
	}
	t.Balance = t.Revenue.Sub(t.Expenses)
	return t
}

// MonthSummary is the rollup of one calendar month.
type MonthSummary struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int        `json:"count"`
	Totals
}

// Key returns the month as "2006-01".
func (m MonthSummary) Key() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.Local).Format("2006-01")
}

// DaySummary is the rollup of one calendar day with its transactions.
type DaySummary struct {
	Date         Date          `json:"date"`
	Transactions []Transaction `json:"transactions"`
	Totals
}

// YearSummary is the rollup of one calendar year.
type YearSummary struct {
	Year  int `json:"year"`
	Count int `json:"count"`
	Totals
}
