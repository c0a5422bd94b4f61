package ledger

import (
	"strings"

	"golang.org/x/text/cases"

	"ledger/internal/core"
)

// fold is stateless and safe for concurrent use.
var fold = cases.Fold()

// Criteria narrows a transaction list. Zero-valued fields impose no
// constraint; the rest are combined with logical AND.
type Criteria struct {
	// Text is matched case-insensitively as a substring of the memo.
	Text     string
	Category string
	Type     core.TransactionType
	From     core.Date
	To       core.Date
}

// IsEmpty reports whether c constrains nothing.
func (c Criteria) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == "" && c.Category == "" && c.Type == "" &&
		c.From.IsZero() && c.To.IsZero()
}

// Filter returns the transactions matching every supplied criterion in their
// original relative order. No match yields an empty, non-nil slice.
func Filter(list []core.Transaction, c Criteria) []core.Transaction {
	needle := fold.String(strings.TrimSpace(c.Text))

	out := make([]core.Transaction, 0)
	for _, tx := range list {
		if c.Category != "" && tx.Category != c.Category {
			continue
		}
		if c.Type != "" && tx.Type != c.Type {
			continue
		}
		if !tx.Date.Within(c.From, c.To) {
			continue
		}
		if needle != "" && !strings.Contains(fold.String(tx.Memo), needle) {
			continue
		}
		out = append(out, tx)
	}
	return out
}
