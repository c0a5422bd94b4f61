package ledger

import (
	"testing"
	"time"

	"ledger/internal/core"
)

func tx(id string, typ core.TransactionType, date string, cents int64) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{ID: id, Type: typ, Date: d, Amount: core.Money{Cents: cents}}
}

func TestTotals(t *testing.T) {
	tests := []struct {
		name string
		list []core.Transaction
		want core.Totals
	}{
		{
			name: "empty list",
			list: nil,
			want: core.Totals{},
		},
		{
			name: "mixed",
			list: []core.Transaction{
				tx("a", core.Revenue, "2024-01-15", 10000),
				tx("b", core.Outgo, "2024-01-20", 4000),
				tx("c", core.Outgo, "2024-01-21", 7000),
			},
			want: core.Totals{Revenue: core.Money{Cents: 10000}, Expenses: core.Money{Cents: 11000}, Balance: core.Money{Cents: -1000}},
		},
		{
			name: "cents accumulate exactly",
			list: []core.Transaction{
				tx("a", core.Revenue, "2024-01-01", 10),
				tx("b", core.Revenue, "2024-01-01", 20),
			},
			want: core.Totals{Revenue: core.Money{Cents: 30}, Balance: core.Money{Cents: 30}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Totals(tt.list)
			if got != tt.want {
				t.Fatalf("Totals = %+v, want %+v", got, tt.want)
			}
			if got.Balance != got.Revenue.Sub(got.Expenses) {
				t.Fatalf("balance must equal revenue - expenses")
			}
		})
	}
}

func TestMonthlyBreakdownRoundTrip(t *testing.T) {
	list := []core.Transaction{
		tx("a", core.Revenue, "2024-01-15", 10000),
		tx("b", core.Outgo, "2024-01-20", 4000),
		tx("c", core.Revenue, "2024-02-01", 5000),
	}
	start, end := core.YearRange(2024)
	got := MonthlyBreakdown(list, start, end)

	if len(got) != 2 {
		t.Fatalf("expected 2 months, got %d: %+v", len(got), got)
	}
	feb, jan := got[0], got[1]
	if feb.Year != 2024 || feb.Month != time.February {
		t.Fatalf("expected February 2024 first, got %s", feb.Key())
	}
	if feb.Revenue.Cents != 5000 || feb.Expenses.Cents != 0 || feb.Balance.Cents != 5000 {
		t.Fatalf("unexpected February totals %+v", feb.Totals)
	}
	if jan.Month != time.January || jan.Revenue.Cents != 10000 || jan.Expenses.Cents != 4000 || jan.Balance.Cents != 6000 {
		t.Fatalf("unexpected January totals %s %+v", jan.Key(), jan.Totals)
	}
	if jan.Count != 2 || feb.Count != 1 {
		t.Fatalf("unexpected counts jan=%d feb=%d", jan.Count, feb.Count)
	}
}

func TestMonthlyBreakdownOmitsEmptyMonthsAndMatchesTotals(t *testing.T) {
	list := []core.Transaction{
		tx("a", core.Revenue, "2023-12-31", 999),
		tx("b", core.Revenue, "2024-03-10", 1234),
		tx("c", core.Outgo, "2024-07-04", 567),
		tx("d", core.Revenue, "2024-11-30", 89),
		tx("e", core.Outgo, "2025-01-01", 1),
	}
	start, end := core.YearRange(2024)
	months := MonthlyBreakdown(list, start, end)
	if len(months) != 3 {
		t.Fatalf("expected 3 non-empty months, got %d", len(months))
	}

	var revenue, expenses core.Money
	for i, m := range months {
		if m.Count == 0 {
			t.Fatalf("month %s has no transactions", m.Key())
		}
		if i > 0 && m.Key() >= months[i-1].Key() {
			t.Fatalf("months not descending: %s after %s", m.Key(), months[i-1].Key())
		}
		revenue = revenue.Add(m.Revenue)
		expenses = expenses.Add(m.Expenses)
	}
	total := Totals(InRange(list, start, end))
	if revenue != total.Revenue || expenses != total.Expenses {
		t.Fatalf("monthly sums %v/%v differ from totals %+v", revenue, expenses, total)
	}
}

func TestMonthlyBreakdownInclusiveBounds(t *testing.T) {
	list := []core.Transaction{
		tx("a", core.Outgo, "2024-03-01", 100),
		tx("b", core.Outgo, "2024-03-31", 200),
		tx("c", core.Outgo, "2024-04-01", 300),
	}
	start, end := core.MonthRange(2024, 3)
	got := MonthlyBreakdown(list, start, end)
	if len(got) != 1 || got[0].Expenses.Cents != 300 {
		t.Fatalf("expected both boundary days of March, got %+v", got)
	}
	if got := MonthlyBreakdown(nil, start, end); len(got) != 0 {
		t.Fatalf("expected empty breakdown, got %+v", got)
	}
}

func TestDailyBreakdown(t *testing.T) {
	list := []core.Transaction{
		tx("a", core.Outgo, "2024-01-20", 4000),
		tx("b", core.Revenue, "2024-01-15", 10000),
		tx("c", core.Outgo, "2024-01-20", 1000),
		tx("d", core.Outgo, "2024-02-02", 1000),
	}
	start, end := core.MonthRange(2024, 1)
	days := DailyBreakdown(list, start, end)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}
	if days[0].Date.String() != "2024-01-20" || days[1].Date.String() != "2024-01-15" {
		t.Fatalf("expected descending days, got %s, %s", days[0].Date, days[1].Date)
	}
	if len(days[0].Transactions) != 2 || days[0].Transactions[0].ID != "a" || days[0].Transactions[1].ID != "c" {
		t.Fatalf("expected original order within a day, got %+v", days[0].Transactions)
	}
	if days[0].Expenses.Cents != 5000 || days[0].Balance.Cents != -5000 {
		t.Fatalf("unexpected day totals %+v", days[0].Totals)
	}
}

func TestYearlyBreakdown(t *testing.T) {
	list := []core.Transaction{
		tx("a", core.Revenue, "2022-06-01", 100),
		tx("b", core.Outgo, "2024-01-01", 50),
		tx("c", core.Revenue, "2024-12-31", 25),
	}
	years := YearlyBreakdown(list)
	if len(years) != 2 || years[0].Year != 2024 || years[1].Year != 2022 {
		t.Fatalf("unexpected years %+v", years)
	}
	if years[0].Balance.Cents != -25 || years[0].Count != 2 {
		t.Fatalf("unexpected 2024 summary %+v", years[0])
	}
}
