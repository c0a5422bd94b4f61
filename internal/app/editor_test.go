package app

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

func TestEditorSaveAddsWhenIdle(t *testing.T) {
	a := newTestApp(t)
	e := a.Editor()

	saved, err := e.Save(context.Background(), core.Draft{
		Type: core.Outgo, Date: core.NewDate(2024, 3, 1), Amount: core.Money{Cents: 250}, Memo: "bus",
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("expected an id for the new transaction")
	}
	if len(a.Transactions()) != 1 {
		t.Errorf("transactions = %d, want 1", len(a.Transactions()))
	}
}

func TestEditorSaveUpdatesAndClears(t *testing.T) {
	a := newTestApp(t)
	created := mustAdd(t, a, core.Outgo, "2024-03-01", 250, "bus")
	e := a.Editor()
	e.Begin(created)

	d := created.Draft()
	d.Amount = core.Money{Cents: 300}
	d.Memo = "tram"
	saved, err := e.Save(context.Background(), d)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID != created.ID {
		t.Errorf("saved id = %s, want %s", saved.ID, created.ID)
	}
	if _, ok := e.Current(); ok {
		t.Error("editor should be cleared after save")
	}
	list := a.Transactions()
	if len(list) != 1 || list[0].Memo != "tram" || list[0].Amount.Cents != 300 {
		t.Errorf("transactions = %+v", list)
	}
}

func TestEditorSaveErrorKeepsSelection(t *testing.T) {
	a := newTestApp(t)
	created := mustAdd(t, a, core.Outgo, "2024-03-01", 250, "bus")
	e := a.Editor()
	e.Begin(created)

	d := created.Draft()
	d.Amount = core.Money{}
	_, err := e.Save(context.Background(), d)
	if !core.IsValidationError(err) {
		t.Fatalf("err = %v, want validation error", err)
	}
	if cur, ok := e.Current(); !ok || cur.ID != created.ID {
		t.Error("selection should survive a failed save")
	}
}

func TestEditorSaveAfterConcurrentDelete(t *testing.T) {
	a := newTestApp(t)
	created := mustAdd(t, a, core.Outgo, "2024-03-01", 250, "bus")
	e := a.Editor()
	e.Begin(created)
	if err := a.Store().DeleteTransaction(context.Background(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := e.Save(context.Background(), created.Draft()); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if _, ok := e.Current(); ok {
		t.Fatal("selection of a vanished transaction should be dropped")
	}

	saved, err := e.Save(context.Background(), created.Draft())
	if err != nil {
		t.Fatalf("next save should record a new transaction: %v", err)
	}
	if saved.ID == created.ID || len(a.Transactions()) != 1 {
		t.Errorf("saved = %+v, transactions = %d", saved, len(a.Transactions()))
	}
}

func TestEditorCancel(t *testing.T) {
	a := newTestApp(t)
	created := mustAdd(t, a, core.Outgo, "2024-03-01", 250, "bus")
	e := a.Editor()
	e.Begin(created)
	e.Cancel()
	if _, ok := e.Current(); ok {
		t.Error("Cancel should clear the selection")
	}
}

func TestPrefillDraft(t *testing.T) {
	a := newTestApp(t)
	e := a.Editor()
	e.today = func() core.Date { return core.NewDate(2024, 6, 15) }

	d := e.PrefillDraft()
	if d.Type != core.Outgo || d.Category != "groceries" || d.PaymentMethod != "card" {
		t.Errorf("empty prefill = %+v", d)
	}
	if d.Date.Compare(core.NewDate(2024, 6, 15)) != 0 {
		t.Errorf("prefill date = %s", d.Date)
	}

	created := mustAdd(t, a, core.Revenue, "2024-01-15", 10000, "salary")
	e.Begin(created)
	d = e.PrefillDraft()
	if d.Type != core.Revenue || d.Memo != "salary" || d.Category != "" {
		t.Errorf("editing prefill = %+v", d)
	}
}

func TestPrefillDraftWithoutDefaults(t *testing.T) {
	store, err := ledger.NewStore(core.Snapshot{})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	d := NewEditor(store).PrefillDraft()
	if d.Category != "" || d.PaymentMethod != "" {
		t.Errorf("prefill without defaults = %+v", d)
	}
}
