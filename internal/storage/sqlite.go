package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ledger/internal/core"
	"ledger/internal/ledger"
	"ledger/internal/log"

	_ "modernc.org/sqlite"
)

var _ ledger.Persister = (*SQLiteRepository)(nil)

// SQLiteRepository stores the snapshot in three tables. Each Save rewrites
// them inside one transaction so the database always holds a whole snapshot.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer; avoids SQLITE_BUSY between pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Ping checks the database is still reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements ledger.Persister
func (r *SQLiteRepository) Load(ctx context.Context) (core.Snapshot, error) {
	snap := core.Snapshot{}.Clone()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, is_default FROM categories ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query categories: %w", err)
	}
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.IsDefault); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan category: %w", err)
		}
		snap.Categories = append(snap.Categories, c)
	}
	if err := closeRows(rows); err != nil {
		return snap, fmt.Errorf("read categories: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `SELECT id, name, is_default FROM payment_methods ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query payment methods: %w", err)
	}
	for rows.Next() {
		var m core.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.IsDefault); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan payment method: %w", err)
		}
		snap.PaymentMethods = append(snap.PaymentMethods, m)
	}
	if err := closeRows(rows); err != nil {
		return snap, fmt.Errorf("read payment methods: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, type, date, amount_cents, memo, category, payment_method
		FROM transactions ORDER BY position`)
	if err != nil {
		return snap, fmt.Errorf("query transactions: %w", err)
	}
	for rows.Next() {
		var (
			t    core.Transaction
			typ  string
			date string
		)
		if err := rows.Scan(&t.ID, &typ, &date, &t.Amount.Cents, &t.Memo, &t.Category, &t.PaymentMethod); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan transaction: %w", err)
		}
		t.Type = core.TransactionType(typ)
		if t.Date, err = core.ParseDate(date); err != nil {
			rows.Close()
			return snap, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := closeRows(rows); err != nil {
		return snap, fmt.Errorf("read transactions: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot loaded from SQLite",
		log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpLoad,
		"transactions", len(snap.Transactions),
		"categories", len(snap.Categories),
		"payment_methods", len(snap.PaymentMethods))
	return snap, nil
}

// Save implements ledger.Persister
func (r *SQLiteRepository) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "categories", "payment_methods"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for i, c := range snap.Categories {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, is_default, position) VALUES (?, ?, ?, ?)`,
			c.ID, c.Name, c.IsDefault, i); err != nil {
			return fmt.Errorf("insert category %s: %w", c.ID, err)
		}
	}
	for i, m := range snap.PaymentMethods {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO payment_methods (id, name, is_default, position) VALUES (?, ?, ?, ?)`,
			m.ID, m.Name, m.IsDefault, i); err != nil {
			return fmt.Errorf("insert payment method %s: %w", m.ID, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, type, date, amount_cents, memo, category, payment_method, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer stmt.Close()
	for i, t := range snap.Transactions {
		if _, err := stmt.ExecContext(ctx, t.ID, string(t.Type), t.Date.String(), t.Amount.Cents,
			t.Memo, t.Category, t.PaymentMethod, i); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved to SQLite",
		log.FieldComponent, log.ComponentStorage, log.FieldOperation, log.OpSave,
		"transactions", len(snap.Transactions))
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
