package report

import (
	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

// mergeStyles folds the later styles into a fresh copy of the first.
func mergeStyles(parts ...*excelize.Style) *excelize.Style {
	out := &excelize.Style{}
	for _, p := range parts {
		if p == nil {
			continue
		}
		_ = mergo.Merge(out, p, mergo.WithOverride, mergo.WithAppendSlice)
	}
	return out
}

func fontBold() *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Bold: true}}
}

func moneyFormat() *excelize.Style {
	format := "#,##0.00"
	return &excelize.Style{CustomNumFmt: &format}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{Type: w, Color: "#000000", Style: 1})
	}
	return s
}
