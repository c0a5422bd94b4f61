package app

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	store, err := ledger.NewStore(core.Snapshot{
		Categories: []core.Category{
			{ID: "salary", Name: "Salary"},
			{ID: "groceries", Name: "Groceries", IsDefault: true},
		},
		PaymentMethods: []core.PaymentMethod{
			{ID: "cash", Name: "Cash"},
			{ID: "card", Name: "Card", IsDefault: true},
		},
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return New(store, DefaultConfig(), nil)
}

func mustAdd(t *testing.T, a *App, typ core.TransactionType, date string, cents int64, memo string) core.Transaction {
	t.Helper()
	d, err := core.ParseDate(date)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	created, err := a.Add(context.Background(), core.Draft{Type: typ, Date: d, Amount: core.Money{Cents: cents}, Memo: memo})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	return created
}

func TestTotalsCacheFollowsRevision(t *testing.T) {
	a := newTestApp(t)
	mustAdd(t, a, core.Revenue, "2024-01-15", 10000, "salary")

	first := a.Totals(core.Date{}, core.Date{})
	if first.Balance.Cents != 10000 {
		t.Fatalf("balance = %d, want 10000", first.Balance.Cents)
	}
	if again := a.Totals(core.Date{}, core.Date{}); again != first {
		t.Fatalf("cached totals differ: %+v vs %+v", again, first)
	}

	mustAdd(t, a, core.Outgo, "2024-01-20", 4000, "food")
	after := a.Totals(core.Date{}, core.Date{})
	if after.Expenses.Cents != 4000 || after.Balance.Cents != 6000 {
		t.Fatalf("totals after add = %+v", after)
	}
}

func TestMonthsAndDays(t *testing.T) {
	a := newTestApp(t)
	mustAdd(t, a, core.Revenue, "2024-01-15", 10000, "salary")
	mustAdd(t, a, core.Outgo, "2024-02-03", 500, "bread")
	mustAdd(t, a, core.Outgo, "2024-02-03", 700, "milk")

	months := a.Months(core.NewDate(2024, 1, 1), core.NewDate(2024, 2, 29))
	if len(months) != 2 || months[0].Month != 2 || months[1].Month != 1 {
		t.Fatalf("months = %+v", months)
	}

	days := a.Days(core.MonthRange(2024, 2))
	if len(days) != 1 || len(days[0].Transactions) != 2 || days[0].Expenses.Cents != 1200 {
		t.Fatalf("days = %+v", days)
	}

	// Returned slices are copies.
	days[0].Transactions[0].Memo = "changed"
	again := a.Days(core.MonthRange(2024, 2))
	if again[0].Transactions[0].Memo == "changed" {
		t.Error("Days leaked the cached slice")
	}

	years := a.Years()
	if len(years) != 1 || years[0].Year != 2024 || years[0].Count != 3 {
		t.Fatalf("years = %+v", years)
	}
}

func TestSearch(t *testing.T) {
	a := newTestApp(t)
	mustAdd(t, a, core.Outgo, "2024-01-01", 100, "Weekly groceries")
	mustAdd(t, a, core.Outgo, "2024-01-02", 100, "rent")

	got := a.Search(ledger.Criteria{Text: "GROCER"})
	if len(got) != 1 || got[0].Memo != "Weekly groceries" {
		t.Fatalf("search = %+v", got)
	}
}

func TestDefaults(t *testing.T) {
	a := newTestApp(t)
	cat, method := a.Defaults()
	if cat == nil || cat.ID != "groceries" {
		t.Errorf("default category = %+v", cat)
	}
	if method == nil || method.ID != "card" {
		t.Errorf("default payment method = %+v", method)
	}
}

func TestDeleteClearsEditor(t *testing.T) {
	a := newTestApp(t)
	created := mustAdd(t, a, core.Outgo, "2024-01-01", 100, "coffee")

	if _, err := a.BeginEdit(created.ID); err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	if err := a.Delete(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := a.Editor().Current(); ok {
		t.Error("editor still points at a deleted transaction")
	}
}

func TestBeginEditMissing(t *testing.T) {
	a := newTestApp(t)
	if _, err := a.BeginEdit("nope"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestYearReport(t *testing.T) {
	a := newTestApp(t)
	mustAdd(t, a, core.Outgo, "2024-01-01", 100, "coffee")
	b, err := a.YearReport(2024)
	if err != nil {
		t.Fatalf("YearReport: %v", err)
	}
	// XLSX files are zip archives.
	if len(b) < 4 || string(b[:2]) != "PK" {
		t.Errorf("report does not look like an xlsx file")
	}
}
