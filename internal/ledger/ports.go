package ledger

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// Persister loads the snapshot once at startup and receives a full
	// snapshot after every successful mutation.
	Persister interface {
		Load(ctx context.Context) (core.Snapshot, error)
		Save(ctx context.Context, s core.Snapshot) error
	}

	// Notifier is told about committed mutations. Failures are logged and
	// never undo the mutation.
	Notifier interface {
		TransactionChanged(ctx context.Context, c Change) error
	}
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeCreated ChangeKind = "created"
	ChangeUpdated ChangeKind = "updated"
	ChangeDeleted ChangeKind = "deleted"
)

// Change describes one committed mutation. Years lists every calendar year
// whose summaries are affected (two when an update moves a transaction
// across a year boundary).
type Change struct {
	Kind     ChangeKind
	ID       string
	Years    []int
	Revision uint64
}
