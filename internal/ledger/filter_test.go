package ledger

import (
	"testing"

	"ledger/internal/core"
)

func filterFixture() []core.Transaction {
	list := []core.Transaction{
		tx("1", core.Outgo, "2024-01-03", 2500),
		tx("2", core.Outgo, "2024-01-05", 90000),
		tx("3", core.Outgo, "2024-02-03", 3100),
		tx("4", core.Revenue, "2024-02-10", 250000),
		tx("5", core.Outgo, "2024-03-01", 90000),
	}
	list[0].Category, list[0].Memo = "groceries", "Weekly SHOP at market"
	list[1].Category, list[1].Memo = "rent", "January rent"
	list[2].Category, list[2].Memo = "groceries", "Bakery"
	list[3].Category, list[3].Memo = "salary", "Payroll"
	list[4].Category, list[4].Memo = "rent", "March rent"
	return list
}

func ids(list []core.Transaction) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{name: "no criteria", criteria: Criteria{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "category keeps order", criteria: Criteria{Category: "groceries"}, want: []string{"1", "3"}},
		{name: "text is case-insensitive", criteria: Criteria{Text: "shop"}, want: []string{"1"}},
		{name: "text matches memo only", criteria: Criteria{Text: "groceries"}, want: []string{}},
		{name: "type", criteria: Criteria{Type: core.Revenue}, want: []string{"4"}},
		{
			name:     "date range is inclusive",
			criteria: Criteria{From: core.NewDate(2024, 1, 5), To: core.NewDate(2024, 2, 3)},
			want:     []string{"2", "3"},
		},
		{name: "open upper bound", criteria: Criteria{From: core.NewDate(2024, 2, 10)}, want: []string{"4", "5"}},
		{
			name:     "all criteria combine with and",
			criteria: Criteria{Text: "RENT", Category: "rent", Type: core.Outgo, To: core.NewDate(2024, 1, 31)},
			want:     []string{"2"},
		},
		{name: "nothing matches", criteria: Criteria{Category: "travel"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(filterFixture(), tt.criteria)
			if got == nil {
				t.Fatalf("Filter must return a non-nil slice")
			}
			gotIDs := ids(got)
			if len(gotIDs) != len(tt.want) {
				t.Fatalf("got %v, want %v", gotIDs, tt.want)
			}
			for i := range gotIDs {
				if gotIDs[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", gotIDs, tt.want)
				}
			}
		})
	}
}

func TestFilterUnicodeFolding(t *testing.T) {
	list := []core.Transaction{tx("1", core.Outgo, "2024-01-01", 100)}
	list[0].Memo = "Café Lumière"
	if got := Filter(list, Criteria{Text: "CAFÉ LUM"}); len(got) != 1 {
		t.Fatalf("expected full case folding to match, got %v", ids(got))
	}
}

func TestCriteriaIsEmpty(t *testing.T) {
	if !(Criteria{Text: "  "}).IsEmpty() {
		t.Fatalf("blank text should count as empty")
	}
	if (Criteria{Type: core.Outgo}).IsEmpty() {
		t.Fatalf("type criterion is not empty")
	}
}
