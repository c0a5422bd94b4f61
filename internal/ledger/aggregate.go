package ledger

import (
	"cmp"
	"slices"
	"time"

	"ledger/internal/core"
)

// Totals sums revenue and outgo amounts. Every transaction lands in exactly
// one of the two sums; an empty list yields zeros.
func Totals(list []core.Transaction) core.Totals {
	var t core.Totals
	for _, tx := range list {
		t = t.Add(tx)
	}
	return t
}

// InRange keeps the transactions dated within the closed interval
// [start, end], preserving order. Zero bounds are open.
func InRange(list []core.Transaction, start, end core.Date) []core.Transaction {
	out := make([]core.Transaction, 0, len(list))
	for _, tx := range list {
		if tx.Date.Within(start, end) {
			out = append(out, tx)
		}
	}
	return out
}

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyBreakdown rolls up every calendar month that has at least one
// transaction in [start, end], most recent month first. Months without
// transactions produce no entry.
func MonthlyBreakdown(list []core.Transaction, start, end core.Date) []core.MonthSummary {
	byMonth := make(map[monthKey]*core.MonthSummary)
	for _, tx := range InRange(list, start, end) {
		k := monthKey{year: tx.Date.Year(), month: time.Month(tx.Date.Month())}
		m, ok := byMonth[k]
		if !ok {
			m = &core.MonthSummary{Year: k.year, Month: k.month}
			byMonth[k] = m
		}
		m.Count++
		m.Totals = m.Totals.Add(tx)
	}

	out := make([]core.MonthSummary, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b core.MonthSummary) int {
		if c := cmp.Compare(b.Year, a.Year); c != 0 {
			return c
		}
		return cmp.Compare(b.Month, a.Month)
	})
	return out
}

// DailyBreakdown groups the transactions in [start, end] by calendar day,
// most recent day first. Within a day the original order is kept.
func DailyBreakdown(list []core.Transaction, start, end core.Date) []core.DaySummary {
	var out []core.DaySummary
	index := make(map[string]int)
	for _, tx := range InRange(list, start, end) {
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, core.DaySummary{Date: core.DateOf(tx.Date.Time)})
		}
		out[i].Transactions = append(out[i].Transactions, tx)
		out[i].Totals = out[i].Totals.Add(tx)
	}
	slices.SortStableFunc(out, func(a, b core.DaySummary) int {
		return b.Date.Compare(a.Date)
	})
	if out == nil {
		out = []core.DaySummary{}
	}
	return out
}

// YearlyBreakdown rolls up every year that has transactions, most recent
// year first.
func YearlyBreakdown(list []core.Transaction) []core.YearSummary {
	byYear := make(map[int]*core.YearSummary)
	for _, tx := range list {
		y := tx.Date.Year()
		s, ok := byYear[y]
		if !ok {
			s = &core.YearSummary{Year: y}
			byYear[y] = s
		}
		s.Count++
		s.Totals = s.Totals.Add(tx)
	}
	out := make([]core.YearSummary, 0, len(byYear))
	for _, s := range byYear {
		out = append(out, *s)
	}
	slices.SortFunc(out, func(a, b core.YearSummary) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return out
}
