package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
)

var _ ledger.Persister = (*FileRepository)(nil)

// FileRepository persists the snapshot as a single JSON document.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileRepository{path: path}, nil
}

// Load reads the snapshot; a missing file is an empty ledger.
func (r *FileRepository) Load(ctx context.Context) (core.Snapshot, error) {
	b, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.InfoContext(ctx, "No snapshot file yet, starting empty",
			log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpLoad, "path", r.path)
		return core.Snapshot{}.Clone(), nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap core.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", r.path, err)
	}
	return snap.Clone(), nil
}

// Save writes the snapshot to a temporary file and renames it over the old
// one so readers never see a half-written document.
func (r *FileRepository) Save(ctx context.Context, snap core.Snapshot) error {
	b, err := json.MarshalIndent(snap.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved",
		log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpSave,
		"path", r.path, "transactions", len(snap.Transactions))
	return nil
}

// Path returns the snapshot file location.
func (r *FileRepository) Path() string {
	return r.path
}
