package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/report"
)

// SnapshotLoader is the read side of ledger.Persister.
type SnapshotLoader interface {
	Load(ctx context.Context) (core.Snapshot, error)
}

// ReportWorker keeps one XLSX report per calendar year in dir up to date
// with the persisted ledger.
type ReportWorker struct {
	loader      SnapshotLoader
	dir         string
	concurrency int
	logger      *log.Logger
}

func NewReportWorker(loader SnapshotLoader, dir string, logger *log.Logger) *ReportWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &ReportWorker{
		loader:      loader,
		dir:         dir,
		concurrency: 4,
		logger:      logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange regenerates the reports of every year the change touched.
// It matches the handler signature of amqp.Client.ConsumeTransactionChanges.
func (w *ReportWorker) HandleChange(ctx context.Context, msg *amqp.TransactionChangeMessage) error {
	w.logger.InfoContext(ctx, "Processing transaction change",
		log.FieldTransactionID, msg.ID,
		"kind", msg.Kind,
		"years", msg.Years,
		log.FieldRevision, msg.Revision)

	if len(msg.Years) == 0 {
		return nil
	}
	snap, err := w.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return w.writeYears(ctx, snap, msg.Years)
}

// RebuildAll writes a report for every year present in the ledger.
func (w *ReportWorker) RebuildAll(ctx context.Context) ([]int, error) {
	snap, err := w.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	var years []int
	for _, t := range snap.Transactions {
		if !slices.Contains(years, t.Date.Year()) {
			years = append(years, t.Date.Year())
		}
	}
	slices.Sort(years)
	return years, w.writeYears(ctx, snap, years)
}

func (w *ReportWorker) writeYears(ctx context.Context, snap core.Snapshot, years []int) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, year := range years {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := w.writeYear(snap, year)
			if err != nil {
				return fmt.Errorf("report %d: %w", year, err)
			}
			w.logger.InfoContext(ctx, "Report written", log.FieldYear, year, "path", path)
			return nil
		})
	}
	return g.Wait()
}

func (w *ReportWorker) writeYear(snap core.Snapshot, year int) (string, error) {
	b, err := report.YearXLSX(snap, year)
	if err != nil {
		return "", err
	}
	path := filepath.Join(w.dir, report.FileName(year))
	tmp, err := os.CreateTemp(w.dir, ".report-*.xlsx")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	return path, os.Rename(tmp.Name(), path)
}
