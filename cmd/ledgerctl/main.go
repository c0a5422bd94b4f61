package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin"

	"ledger/internal/cli"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/report"
)

var (
	cmdAdd      = kingpin.Command("add", "Record a transaction")
	addType     = cmdAdd.Flag("type", "revenue or outgo").Default("outgo").String()
	addDate     = cmdAdd.Flag("date", "Date as YYYY-MM-DD (default today)").String()
	addCategory = cmdAdd.Flag("category", "Category id (default: the default category)").String()
	addMethod   = cmdAdd.Flag("payment-method", "Payment method id (default: the default method)").String()
	addAmount   = cmdAdd.Arg("amount", "Amount, e.g. 12.50 or 12,50").Required().String()
	addMemo     = cmdAdd.Arg("memo", "Free text note").String()

	cmdList      = kingpin.Command("list", "List transactions")
	listQuery    = cmdList.Flag("query", "Memo substring").Short('q').String()
	listCategory = cmdList.Flag("category", "Category id").String()
	listType     = cmdList.Flag("type", "revenue or outgo").String()
	listFrom     = cmdList.Flag("from", "First day, YYYY-MM-DD").String()
	listTo       = cmdList.Flag("to", "Last day, YYYY-MM-DD").String()

	cmdDelete = kingpin.Command("delete", "Delete a transaction")
	deleteID  = cmdDelete.Arg("id", "Transaction id").Required().String()

	cmdTotals  = kingpin.Command("totals", "Show revenue, expenses and balance")
	totalsYear = cmdTotals.Flag("year", "Restrict to a year").Int()

	cmdMonths  = kingpin.Command("months", "Show the monthly breakdown")
	monthsYear = cmdMonths.Flag("year", "Restrict to a year").Int()

	cmdExport  = kingpin.Command("export", "Write the XLSX report of a year")
	exportYear = cmdExport.Flag("year", "Report year (default current year)").Int()
	exportOut  = cmdExport.Flag("output", "Output directory").Short('o').Default(".").String()
)

func main() {
	cmd := kingpin.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(envOr("LOG_LEVEL", "warn")).WithComponent(log.ComponentCLI)
	cfg := cli.LoadAndValidateConfig(logger, nil)

	ctx := context.Background()
	result := cli.InitBackend(ctx, logger, cfg)

	err := run(ctx, cmd, result.Persister, append(result.Options(), ledger.WithLogger(logger)))
	if cerr := result.Close(); cerr != nil {
		logger.Warn("Backend cleanup failed", log.FieldError, cerr)
	}
	kingpin.FatalIfError(err, "%s", cmd)
}

func run(ctx context.Context, cmd string, p ledger.Persister, opts []ledger.Option) error {
	store, err := ledger.Open(ctx, p, opts...)
	if err != nil {
		return err
	}

	switch cmd {
	case cmdAdd.FullCommand():
		err = add(ctx, store)
	case cmdList.FullCommand():
		err = list(store)
	case cmdDelete.FullCommand():
		err = store.DeleteTransaction(ctx, *deleteID)
	case cmdTotals.FullCommand():
		from, to := yearRange(*totalsYear)
		t := ledger.Totals(ledger.InRange(store.Transactions(), from, to))
		fmt.Printf("Revenue  %12s\nExpenses %12s\nBalance  %12s\n", t.Revenue, t.Expenses, t.Balance)
	case cmdMonths.FullCommand():
		from, to := yearRange(*monthsYear)
		months(store, from, to)
	case cmdExport.FullCommand():
		err = export(store)
	}
	return err
}

func add(ctx context.Context, store *ledger.Store) error {
	in := core.DraftInput{
		Type:          *addType,
		Date:          *addDate,
		Amount:        *addAmount,
		Memo:          *addMemo,
		Category:      *addCategory,
		PaymentMethod: *addMethod,
	}
	if in.Date == "" {
		in.Date = core.Today().String()
	}
	if in.Category == "" {
		if c, ok := core.DefaultCategory(store.Categories()); ok {
			in.Category = c.ID
		}
	}
	if in.PaymentMethod == "" {
		if m, ok := core.DefaultPaymentMethod(store.PaymentMethods()); ok {
			in.PaymentMethod = m.ID
		}
	}
	d, err := in.Parse()
	if err != nil {
		return err
	}
	t, err := store.AddTransaction(ctx, d)
	if err != nil {
		return err
	}
	fmt.Println(t.ID)
	return nil
}

func list(store *ledger.Store) error {
	c := ledger.Criteria{Text: *listQuery, Category: *listCategory}
	var err error
	if *listType != "" {
		if c.Type, err = core.ParseTransactionType(*listType); err != nil {
			return err
		}
	}
	if *listFrom != "" {
		if c.From, err = core.ParseDate(*listFrom); err != nil {
			return err
		}
	}
	if *listTo != "" {
		if c.To, err = core.ParseDate(*listTo); err != nil {
			return err
		}
	}

	categories := store.Categories()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "ID\tDate\tType\tAmount\tCategory\tMemo\t")
	for _, t := range ledger.Filter(store.Transactions(), c) {
		category := ""
		if t.Category != "" {
			category = core.CategoryName(categories, t.Category)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", t.ID, t.Date, t.Type, t.Amount, category, t.Memo)
	}
	return w.Flush()
}

func months(store *ledger.Store, from, to core.Date) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "Month\tCount\tRevenue\tExpenses\tBalance\t")
	for _, m := range ledger.MonthlyBreakdown(store.Transactions(), from, to) {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n", m.Key(), m.Count, m.Revenue, m.Expenses, m.Balance)
	}
	_ = w.Flush()
}

func export(store *ledger.Store) error {
	year := *exportYear
	if year == 0 {
		year = time.Now().Year()
	}
	content, err := report.YearXLSX(store.Snapshot(), year)
	if err != nil {
		return err
	}
	path := filepath.Join(*exportOut, report.FileName(year))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

func yearRange(year int) (core.Date, core.Date) {
	if year == 0 {
		return core.Date{}, core.Date{}
	}
	return core.YearRange(year)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
