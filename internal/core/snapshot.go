package core

import (
	"fmt"
	"slices"
)

// Snapshot is a copy of the whole ledger state at a point in time. It is
// also the persisted shape:
//
//	{ "transactions": [...], "categories": [...], "paymentMethods": [...] }
type Snapshot struct {
	Transactions   []Transaction   `json:"transactions"`
	Categories     []Category      `json:"categories"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

// Clone returns a deep copy; callers may mutate it freely.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Transactions:   cloneOrEmpty(s.Transactions),
		Categories:     cloneOrEmpty(s.Categories),
		PaymentMethods: cloneOrEmpty(s.PaymentMethods),
	}
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// Validate checks a snapshot read from storage before it becomes the
// in-memory source of truth.
func (s Snapshot) Validate() error {
	if err := ValidateCatalog(s.Categories, s.PaymentMethods); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(s.Transactions))
	for i, t := range s.Transactions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, ok := seen[t.ID]; ok {
			return fmt.Errorf("transaction %q: %w", t.ID, ErrDuplicateID)
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}
