// Package app composes the ledger store, the editing flow and cached
// summaries into the operations exposed by the HTTP and CLI front ends.
package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"ledger/internal/cache"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/report"
)

type Config struct {
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultConfig() Config {
	return Config{CacheSize: 128, CacheTTL: 10 * time.Minute}
}

// App is the entry point front ends talk to.
type App struct {
	store  *ledger.Store
	editor *Editor
	logger *log.Logger

	totals *cache.LRUCache[core.Totals]
	months *cache.LRUCache[[]core.MonthSummary]
	days   *cache.LRUCache[[]core.DaySummary]
	years  *cache.LRUCache[[]core.YearSummary]
}

func New(store *ledger.Store, cfg Config, logger *log.Logger) *App {
	if logger == nil {
		logger = log.Discard()
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	return &App{
		store:  store,
		editor: NewEditor(store),
		logger: logger.WithComponent(log.ComponentLedger),
		totals: cache.NewLRUCache[core.Totals](cfg.CacheSize, cfg.CacheTTL),
		months: cache.NewLRUCache[[]core.MonthSummary](cfg.CacheSize, cfg.CacheTTL),
		days:   cache.NewLRUCache[[]core.DaySummary](cfg.CacheSize, cfg.CacheTTL),
		years:  cache.NewLRUCache[[]core.YearSummary](cfg.CacheSize, cfg.CacheTTL),
	}
}

// RegisterCaches hands the summary caches to m for periodic expiry sweeps.
func (a *App) RegisterCaches(m *cache.Manager) {
	m.Register(a.totals)
	m.Register(a.months)
	m.Register(a.days)
	m.Register(a.years)
}

func (a *App) Store() *ledger.Store { return a.store }
func (a *App) Editor() *Editor      { return a.editor }

func (a *App) Transactions() []core.Transaction {
	return a.store.Transactions()
}

func (a *App) Search(c ledger.Criteria) []core.Transaction {
	return ledger.Filter(a.store.Transactions(), c)
}

func (a *App) Categories() []core.Category {
	return a.store.Categories()
}

func (a *App) PaymentMethods() []core.PaymentMethod {
	return a.store.PaymentMethods()
}

// Defaults returns the preselected category and payment method; nil means
// no preselection.
func (a *App) Defaults() (*core.Category, *core.PaymentMethod) {
	var (
		cat    *core.Category
		method *core.PaymentMethod
	)
	if c, ok := core.DefaultCategory(a.store.Categories()); ok {
		cat = &c
	}
	if m, ok := core.DefaultPaymentMethod(a.store.PaymentMethods()); ok {
		method = &m
	}
	return cat, method
}

func (a *App) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	return a.store.AddTransaction(ctx, d)
}

func (a *App) Update(ctx context.Context, t core.Transaction) error {
	return a.store.UpdateTransaction(ctx, t)
}

// Delete removes id and drops it from the editor if it was open.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	a.editor.forget(id)
	return nil
}

// BeginEdit opens the stored transaction id in the editor.
func (a *App) BeginEdit(id string) (core.Transaction, error) {
	t, ok := a.store.Transaction(id)
	if !ok {
		return core.Transaction{}, fmt.Errorf("edit %q: %w", id, ledger.ErrNotFound)
	}
	a.editor.Begin(t)
	return t, nil
}

// Totals sums the transactions in [from, to]; zero bounds are open.
func (a *App) Totals(from, to core.Date) core.Totals {
	list, rev := a.store.View()
	return a.totals.GetOrCompute(rangeKey(rev, from, to), func() core.Totals {
		return ledger.Totals(ledger.InRange(list, from, to))
	})
}

func (a *App) Months(from, to core.Date) []core.MonthSummary {
	list, rev := a.store.View()
	out := a.months.GetOrCompute(rangeKey(rev, from, to), func() []core.MonthSummary {
		return ledger.MonthlyBreakdown(list, from, to)
	})
	return slices.Clone(out)
}

func (a *App) Days(from, to core.Date) []core.DaySummary {
	list, rev := a.store.View()
	out := a.days.GetOrCompute(rangeKey(rev, from, to), func() []core.DaySummary {
		return ledger.DailyBreakdown(list, from, to)
	})
	days := slices.Clone(out)
	for i := range days {
		days[i].Transactions = slices.Clone(days[i].Transactions)
	}
	return days
}

func (a *App) Years() []core.YearSummary {
	list, rev := a.store.View()
	out := a.years.GetOrCompute(fmt.Sprintf("%d", rev), func() []core.YearSummary {
		return ledger.YearlyBreakdown(list)
	})
	return slices.Clone(out)
}

// YearReport renders the XLSX workbook for year.
func (a *App) YearReport(year int) ([]byte, error) {
	return report.YearXLSX(a.store.Snapshot(), year)
}

func rangeKey(rev uint64, from, to core.Date) string {
	return fmt.Sprintf("%d|%s|%s", rev, boundKey(from), boundKey(to))
}

func boundKey(d core.Date) string {
	if d.IsZero() {
		return "*"
	}
	return d.String()
}
