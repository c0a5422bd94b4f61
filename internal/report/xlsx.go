// Package report renders ledger data as XLSX workbooks.
package report

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

const (
	SheetMonths       = "Months"
	SheetCategories   = "Categories"
	SheetTransactions = "Transactions"
)

// FileName is the conventional file name of a yearly report.
func FileName(year int) string {
	return fmt.Sprintf("ledger-%d.xlsx", year)
}

// YearXLSX builds the workbook for one calendar year: a monthly summary with
// a totals row, expenses per category, and every transaction of the year in
// date order with catalog names resolved.
func YearXLSX(snap core.Snapshot, year int) ([]byte, error) {
	start, end := core.YearRange(year)
	txs := ledger.InRange(snap.Transactions, start, end)
	slices.SortStableFunc(txs, func(a, b core.Transaction) int { return a.Date.Compare(b.Date) })

	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{Application: "ledger"})
	_ = xlsx.SetDocProps(&excelize.DocProperties{Title: fmt.Sprintf("Ledger %d", year)})

	first := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(first, SheetMonths); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetCategories, SheetTransactions} {
		if _, err := xlsx.NewSheet(name); err != nil {
			return nil, err
		}
	}

	if err := writeMonths(xlsx, txs, start, end); err != nil {
		return nil, fmt.Errorf("months sheet: %w", err)
	}
	if err := writeCategories(xlsx, txs, snap.Categories); err != nil {
		return nil, fmt.Errorf("categories sheet: %w", err)
	}
	if err := writeTransactions(xlsx, txs, snap); err != nil {
		return nil, fmt.Errorf("transactions sheet: %w", err)
	}
	xlsx.SetActiveSheet(0)

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMonths(xlsx *excelize.File, txs []core.Transaction, start, end core.Date) error {
	sheet := SheetMonths
	months := ledger.MonthlyBreakdown(txs, start, end)
	slices.Reverse(months)

	if err := header(xlsx, sheet, "Month", "Count", "Revenue", "Expenses", "Balance"); err != nil {
		return err
	}
	row := 2
	for _, m := range months {
		_ = xlsx.SetCellValue(sheet, cell(1, row), m.Key())
		_ = xlsx.SetCellInt(sheet, cell(2, row), m.Count)
		moneyCells(xlsx, sheet, row, 3, m.Revenue, m.Expenses, m.Balance)
		row++
	}

	_ = xlsx.SetCellValue(sheet, cell(1, row), "Total")
	for col := 2; col <= 5; col++ {
		formula := "0"
		if row > 2 {
			formula = fmt.Sprintf("SUM(%s:%s)", cell(col, 2), cell(col, row-1))
		}
		_ = xlsx.SetCellFormula(sheet, cell(col, row), formula)
	}
	if err := styleRange(xlsx, sheet, cell(1, row), cell(5, row), fontBold(), thinBorder("top")); err != nil {
		return err
	}
	if row > 2 {
		if err := styleRange(xlsx, sheet, cell(3, 2), cell(5, row-1), moneyFormat()); err != nil {
			return err
		}
	}
	if err := styleRange(xlsx, sheet, cell(3, row), cell(5, row), moneyFormat(), fontBold(), thinBorder("top")); err != nil {
		return err
	}
	return xlsx.SetColWidth(sheet, "A", "E", 14)
}

func writeCategories(xlsx *excelize.File, txs []core.Transaction, categories []core.Category) error {
	sheet := SheetCategories
	spent := map[string]core.Money{}
	var order []string
	for _, t := range txs {
		if t.Type != core.Outgo {
			continue
		}
		name := categoryLabel(categories, t.Category)
		if _, ok := spent[name]; !ok {
			order = append(order, name)
		}
		spent[name] = spent[name].Add(t.Amount)
	}
	// largest spend first
	slices.SortFunc(order, func(a, b string) int {
		if c := cmp.Compare(spent[b].Cents, spent[a].Cents); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})

	if err := header(xlsx, sheet, "Category", "Expenses"); err != nil {
		return err
	}
	for i, name := range order {
		row := i + 2
		_ = xlsx.SetCellValue(sheet, cell(1, row), name)
		moneyCells(xlsx, sheet, row, 2, spent[name])
	}
	if len(order) > 0 {
		if err := styleRange(xlsx, sheet, cell(2, 2), cell(2, len(order)+1), moneyFormat()); err != nil {
			return err
		}
	}
	_ = xlsx.SetColWidth(sheet, "A", "A", 30)
	return xlsx.SetColWidth(sheet, "B", "B", 14)
}

func writeTransactions(xlsx *excelize.File, txs []core.Transaction, snap core.Snapshot) error {
	sheet := SheetTransactions
	if err := header(xlsx, sheet, "Date", "Type", "Memo", "Category", "Payment method", "Amount"); err != nil {
		return err
	}
	for i, t := range txs {
		row := i + 2
		amount := t.Amount.Float64()
		if t.Type == core.Outgo {
			amount = -amount
		}
		_ = xlsx.SetCellValue(sheet, cell(1, row), t.Date.String())
		_ = xlsx.SetCellValue(sheet, cell(2, row), string(t.Type))
		_ = xlsx.SetCellValue(sheet, cell(3, row), t.Memo)
		_ = xlsx.SetCellValue(sheet, cell(4, row), categoryLabel(snap.Categories, t.Category))
		_ = xlsx.SetCellValue(sheet, cell(5, row), methodLabel(snap.PaymentMethods, t.PaymentMethod))
		_ = xlsx.SetCellFloat(sheet, cell(6, row), amount, -1, 64)
	}
	if len(txs) > 0 {
		if err := styleRange(xlsx, sheet, cell(6, 2), cell(6, len(txs)+1), moneyFormat()); err != nil {
			return err
		}
	}

	_ = xlsx.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	_ = xlsx.SetColWidth(sheet, "A", "B", 12)
	_ = xlsx.SetColWidth(sheet, "C", "C", 40)
	_ = xlsx.SetColWidth(sheet, "D", "E", 20)
	return xlsx.SetColWidth(sheet, "F", "F", 14)
}

func categoryLabel(list []core.Category, id string) string {
	if id == "" {
		return ""
	}
	return core.CategoryName(list, id)
}

func methodLabel(list []core.PaymentMethod, id string) string {
	if id == "" {
		return ""
	}
	return core.PaymentMethodName(list, id)
}

func header(xlsx *excelize.File, sheet string, titles ...string) error {
	for i, title := range titles {
		_ = xlsx.SetCellValue(sheet, cell(i+1, 1), title)
	}
	return styleRange(xlsx, sheet, cell(1, 1), cell(len(titles), 1), fontBold(), thinBorder("bottom"))
}

func moneyCells(xlsx *excelize.File, sheet string, row, col int, values ...core.Money) {
	for i, v := range values {
		_ = xlsx.SetCellFloat(sheet, cell(col+i, row), v.Float64(), -1, 64)
	}
}

func styleRange(xlsx *excelize.File, sheet, from, to string, parts ...*excelize.Style) error {
	style, err := xlsx.NewStyle(mergeStyles(parts...))
	if err != nil {
		return err
	}
	return xlsx.SetCellStyle(sheet, from, to, style)
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
