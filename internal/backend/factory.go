package backend

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"
	"ledger/internal/storage"
	"ledger/internal/storage/memory"
)

type DefaultFactory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend implements Factory.
func (f *DefaultFactory) CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dataDir := cfg.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	var (
		result *BackendResult
		err    error
	)
	switch cfg.Type {
	case MemoryBackend:
		result = &BackendResult{Persister: memory.NewFromFiles(dataDir)}
		f.logger.InfoContext(ctx, "Initialized memory backend", "data_directory", dataDir)
	case FileBackend:
		result, err = f.createFileBackend(ctx, cfg, dataDir)
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(ctx, cfg, dataDir)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	f.attachNotifier(ctx, cfg, result)
	return result, nil
}

func (f *DefaultFactory) createFileBackend(ctx context.Context, cfg Config, dataDir string) (*BackendResult, error) {
	repo, err := storage.NewFileRepository(cfg.SnapshotFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snapshot file: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized file backend", "path", cfg.SnapshotFile)
	return &BackendResult{Persister: &seededPersister{Persister: repo, seedDir: dataDir}}, nil
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, cfg Config, dataDir string) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}
	f.logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	return &BackendResult{
		Persister: &seededPersister{Persister: repo, seedDir: dataDir},
		Cleanup:   repo.Close,
		Ping:      repo.Ping,
	}, nil
}

// attachNotifier connects to AMQP when configured. A broker that cannot be
// reached only disables change events.
func (f *DefaultFactory) attachNotifier(ctx context.Context, cfg Config, result *BackendResult) {
	if cfg.AMQPURL == "" {
		return
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without change events", "error", err)
		return
	}
	f.logger.InfoContext(ctx, "Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	result.Notifier = client
	prev := result.Cleanup
	result.Cleanup = func() error {
		err := client.Close()
		if prev != nil {
			err = errors.Join(err, prev())
		}
		return err
	}
}

// seededPersister fills an empty catalog from the seed files on first load,
// so a fresh database starts with usable categories and payment methods.
type seededPersister struct {
	ledger.Persister
	seedDir string
}

func (p *seededPersister) Load(ctx context.Context) (core.Snapshot, error) {
	snap, err := p.Persister.Load(ctx)
	if err != nil {
		return snap, err
	}
	if len(snap.Categories) == 0 && len(snap.PaymentMethods) == 0 {
		snap.Categories, snap.PaymentMethods = memory.SeedCatalog(p.seedDir)
	}
	return snap, nil
}
