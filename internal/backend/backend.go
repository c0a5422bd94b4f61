// Package backend builds the persistence and change-notification adapters
// selected by configuration.
package backend

import (
	"context"
	"fmt"

	"ledger/internal/config"
	"ledger/internal/ledger"
)

// BackendType names a persistence adapter.
type BackendType string

const (
	MemoryBackend BackendType = config.BackendMemory
	FileBackend   BackendType = config.BackendFile
	SQLiteBackend BackendType = config.BackendSQLite
)

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases backend resources.
type CleanupFunc func() error

// BackendResult holds the adapters for a ledger.Store. Notifier is nil
// when change events are disabled.
type BackendResult struct {
	Persister ledger.Persister
	Notifier  ledger.Notifier
	Cleanup   CleanupFunc

	// Ping is set for backends with a connection worth probing.
	Ping func(ctx context.Context) error
}

// Ready reports whether the backend can serve requests.
func (r *BackendResult) Ready(ctx context.Context) error {
	if r.Ping == nil {
		return nil
	}
	return r.Ping(ctx)
}

// Options returns the store options wiring r's adapters.
func (r *BackendResult) Options() []ledger.Option {
	opts := []ledger.Option{ledger.WithPersister(r.Persister)}
	if r.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(r.Notifier))
	}
	return opts
}

// Close runs Cleanup if set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, cfg Config) (*BackendResult, error)
}

type Config struct {
	Type BackendType

	// Seed files and default locations live here
	DataDirectory string

	SnapshotFile string
	SQLiteDBPath string

	// Empty AMQPURL disables change events
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// FromAppConfig converts the application config to backend config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}
	bt := BackendType(appConfig.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:          bt,
		DataDirectory: appConfig.DataDir,
		SnapshotFile:  appConfig.SnapshotFile,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		AMQPURL:       appConfig.AMQPURL,
		AMQPExchange:  appConfig.AMQPExchange,
		AMQPQueue:     appConfig.AMQPQueue,
	}, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	switch c.Type {
	case FileBackend:
		if c.SnapshotFile == "" {
			return fmt.Errorf("snapshot file is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	}
	return nil
}
