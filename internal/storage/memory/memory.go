package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

var _ ledger.Persister = (*Store)(nil)

// Store keeps the last saved snapshot in process memory. Nothing survives a
// restart.
type Store struct {
	mu    sync.Mutex
	snap  core.Snapshot
	saves int
}

func New(cats []core.Category, methods []core.PaymentMethod) *Store {
	return &Store{snap: core.Snapshot{Categories: cats, PaymentMethods: methods}.Clone()}
}

// NewFromFiles seeds the catalog from base/seed_categories.txt and
// base/seed_payment_methods.txt, falling back to built-in defaults.
func NewFromFiles(base string) *Store {
	cats, methods := SeedCatalog(base)
	return New(cats, methods)
}

// Load returns a copy of the last saved snapshot.
func (s *Store) Load(_ context.Context) (core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone(), nil
}

// Save replaces the held snapshot.
func (s *Store) Save(_ context.Context, snap core.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// SeedCatalog reads the seed files in base. One entry per line; blank lines
// and lines starting with '#' are skipped; a leading '*' marks the default.
func SeedCatalog(base string) ([]core.Category, []core.PaymentMethod) {
	var cats []core.Category
	for _, e := range readEntries(filepath.Join(base, "seed_categories.txt")) {
		cats = append(cats, core.Category{ID: core.Slug(e.name), Name: e.name, IsDefault: e.isDefault})
	}
	var methods []core.PaymentMethod
	for _, e := range readEntries(filepath.Join(base, "seed_payment_methods.txt")) {
		methods = append(methods, core.PaymentMethod{ID: core.Slug(e.name), Name: e.name, IsDefault: e.isDefault})
	}
	if len(cats) == 0 {
		cats = []core.Category{
			{ID: "groceries", Name: "Groceries", IsDefault: true},
			{ID: "home", Name: "Home"},
			{ID: "transport", Name: "Transport"},
			{ID: "salary", Name: "Salary"},
		}
	}
	if len(methods) == 0 {
		methods = []core.PaymentMethod{
			{ID: "cash", Name: "Cash", IsDefault: true},
			{ID: "card", Name: "Card"},
			{ID: "bank-transfer", Name: "Bank transfer"},
		}
	}
	return cats, methods
}

type seedEntry struct {
	name      string
	isDefault bool
}

func readEntries(path string) []seedEntry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var out []seedEntry
	seen := map[string]struct{}{}
	hasDefault := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e := seedEntry{name: line}
		if rest, ok := strings.CutPrefix(line, "*"); ok {
			e = seedEntry{name: strings.TrimSpace(rest), isDefault: !hasDefault}
			hasDefault = true
		}
		id := core.Slug(e.name)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, e)
	}
	return out
}
