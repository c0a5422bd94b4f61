package app

import (
	"context"
	"errors"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Editor tracks the transaction currently open in the record form, if any.
// Saving while editing updates that transaction; otherwise it records a new
// one.
type Editor struct {
	store *ledger.Store
	today func() core.Date

	mu      sync.Mutex
	editing *core.Transaction
}

func NewEditor(store *ledger.Store) *Editor {
	return &Editor{store: store, today: core.Today}
}

// Begin opens t for editing, replacing any previous selection.
func (e *Editor) Begin(t core.Transaction) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = &t
}

// Current returns the transaction being edited.
func (e *Editor) Current() (core.Transaction, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing == nil {
		return core.Transaction{}, false
	}
	return *e.editing, true
}

func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.editing = nil
}

// forget clears the selection if it points at id.
func (e *Editor) forget(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing != nil && e.editing.ID == id {
		e.editing = nil
	}
}

// Save stores d and clears the selection on success. On a validation error
// the selection is kept so the form can be corrected and resubmitted; if the
// edited transaction no longer exists the selection is dropped.
func (e *Editor) Save(ctx context.Context, d core.Draft) (core.Transaction, error) {
	current, editing := e.Current()
	if !editing {
		created, err := e.store.AddTransaction(ctx, d)
		if err != nil {
			return core.Transaction{}, err
		}
		return created, nil
	}

	updated := d.WithID(current.ID)
	if err := e.store.UpdateTransaction(ctx, updated); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			e.forget(current.ID)
		}
		return core.Transaction{}, err
	}
	e.forget(current.ID)
	return updated, nil
}

// PrefillDraft returns what the record form should show: the edited
// transaction, or an outgo for today with the default category and payment
// method preselected.
func (e *Editor) PrefillDraft() core.Draft {
	if current, ok := e.Current(); ok {
		return current.Draft()
	}
	d := core.Draft{Type: core.Outgo, Date: e.today()}
	if c, ok := core.DefaultCategory(e.store.Categories()); ok {
		d.Category = c.ID
	}
	if m, ok := core.DefaultPaymentMethod(e.store.PaymentMethods()); ok {
		d.PaymentMethod = m.ID
	}
	return d
}
