package ledger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"ledger/internal/core"
	"ledger/internal/log"
)

// ErrNotFound is returned when an update targets an id that is not stored.
var ErrNotFound = errors.New("transaction not found")

// Store owns the transaction list. It is the only writer: every mutation
// either fully applies (memory and persisted snapshot) or leaves the state
// untouched.
type Store struct {
	mu             sync.RWMutex
	transactions   []core.Transaction
	categories     []core.Category
	paymentMethods []core.PaymentMethod
	revision       uint64

	persister Persister
	notifier  Notifier
	logger    *log.Logger
	newID     func() string
}

type Option func(*Store)

// WithPersister saves a snapshot after each mutation.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

// WithNotifier publishes committed changes.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

// WithIDGenerator replaces the UUID generator, mainly for tests.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// NewStore builds a store from an initial snapshot, which must be valid.
func NewStore(initial core.Snapshot, opts ...Option) (*Store, error) {
	if err := initial.Validate(); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	snap := initial.Clone()
	s := &Store{
		transactions:   snap.Transactions,
		categories:     snap.Categories,
		paymentMethods: snap.PaymentMethods,
		logger:         log.Discard(),
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Open loads the snapshot from p and returns a store persisting back to it.
func Open(ctx context.Context, p Persister, opts ...Option) (*Store, error) {
	snap, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	s, err := NewStore(snap, append([]Option{WithPersister(p)}, opts...)...)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Ledger loaded",
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"payment_methods", len(snap.PaymentMethods))
	return s, nil
}

// Transactions returns a copy of the current list in insertion order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Transaction returns the transaction with id.
func (s *Store) Transaction(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Transaction{}, false
	}
	return s.transactions[i], true
}

func (s *Store) Categories() []core.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.categories)
}

func (s *Store) PaymentMethods() []core.PaymentMethod {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.paymentMethods)
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotWith(s.transactions)
}

// Revision increments on every committed mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// View returns a copy of the list together with the revision it belongs to.
func (s *Store) View() ([]core.Transaction, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions), s.revision
}

// AddTransaction validates d, assigns a fresh id and appends it.
func (s *Store) AddTransaction(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var created core.Transaction
	err := s.mutate(ctx, log.OpCreate, func() ([]core.Transaction, Change, error) {
		if err := s.checkReferences(d.Category, d.PaymentMethod); err != nil {
			return nil, Change{}, err
		}
		created = d.WithID(s.newID())
		if s.indexOf(created.ID) >= 0 {
			return nil, Change{}, fmt.Errorf("generated id %q already in use", created.ID)
		}
		next := append(slices.Clone(s.transactions), created)
		return next, Change{Kind: ChangeCreated, ID: created.ID, Years: []int{created.Date.Year()}}, nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return created, nil
}

// UpdateTransaction replaces the stored transaction with t.ID, keeping its
// position in the list.
func (s *Store) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Draft().Validate(); err != nil {
		return err
	}

	return s.mutate(ctx, log.OpUpdate, func() ([]core.Transaction, Change, error) {
		i := s.indexOf(t.ID)
		if i < 0 {
			return nil, Change{}, fmt.Errorf("update %q: %w", t.ID, ErrNotFound)
		}
		if err := s.checkReferences(t.Category, t.PaymentMethod); err != nil {
			return nil, Change{}, err
		}
		years := []int{s.transactions[i].Date.Year()}
		if y := t.Date.Year(); y != years[0] {
			years = append(years, y)
		}
		next := slices.Clone(s.transactions)
		next[i] = t
		return next, Change{Kind: ChangeUpdated, ID: t.ID, Years: years}, nil
	})
}

// DeleteTransaction removes the transaction with id. Deleting an absent id
// is a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.mutate(ctx, log.OpDelete, func() ([]core.Transaction, Change, error) {
		i := s.indexOf(id)
		if i < 0 {
			return nil, Change{}, nil
		}
		year := s.transactions[i].Date.Year()
		next := slices.Delete(slices.Clone(s.transactions), i, i+1)
		return next, Change{Kind: ChangeDeleted, ID: id, Years: []int{year}}, nil
	})
}

// mutate runs build under the write lock. A nil list from build means
// nothing to do; otherwise the new list is persisted and swapped in, and the
// notifier runs after the lock is released.
func (s *Store) mutate(ctx context.Context, op string, build func() ([]core.Transaction, Change, error)) error {
	s.mu.Lock()
	next, change, err := build()
	if err != nil || next == nil {
		s.mu.Unlock()
		return err
	}
	if s.persister != nil {
		if err := s.persister.Save(ctx, s.snapshotWith(next)); err != nil {
			s.mu.Unlock()
			log.LogError(ctx, s.logger, "Failed to persist snapshot", err, log.ErrorTypeDatabase, op)
			return fmt.Errorf("persist snapshot: %w", err)
		}
	}
	s.transactions = next
	s.revision++
	change.Revision = s.revision
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Ledger mutation committed",
		log.FieldOperation, op,
		log.FieldTransactionID, change.ID,
		log.FieldRevision, change.Revision)

	if s.notifier != nil {
		if err := s.notifier.TransactionChanged(ctx, change); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish change",
				log.FieldTransactionID, change.ID,
				log.FieldError, err)
		}
	}
	return nil
}

// checkReferences requires non-empty category and payment method ids to
// exist. Empty ids mean "no selection" and are accepted.
func (s *Store) checkReferences(category, method string) error {
	if category != "" && !core.HasCategory(s.categories, category) {
		return &core.ValidationError{Field: "category", Err: core.ErrUnknownCategory}
	}
	if method != "" && !core.HasPaymentMethod(s.paymentMethods, method) {
		return &core.ValidationError{Field: "paymentMethod", Err: core.ErrUnknownPaymentMethod}
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.transactions, func(t core.Transaction) bool { return t.ID == id })
}

func (s *Store) snapshotWith(list []core.Transaction) core.Snapshot {
	return core.Snapshot{
		Transactions:   list,
		Categories:     s.categories,
		PaymentMethods: s.paymentMethods,
	}.Clone()
}
