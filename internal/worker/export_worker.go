package worker

import (
	"context"
	"fmt"
	"log/slog"

	"sipfolio/internal/amqp"
	"sipfolio/internal/core"
	"sipfolio/internal/export"
)

// RecordStore is the slice of the repository the worker needs.
type RecordStore interface {
	GetSIP(ctx context.Context, id int64) (core.SIPRecord, error)
	GetPendingExportSIPs(ctx context.Context, limit int) ([]core.SIPRecord, error)
	MarkExported(ctx context.Context, id int64) error
	MarkExportError(ctx context.Context, id int64) error
}

// ExportWorker mirrors newly created SIP records to the export ledger.
type ExportWorker struct {
	store     RecordStore
	exporter  export.RecordExporter
	batchSize int
}

func NewExportWorker(store RecordStore, exporter export.RecordExporter, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.SIPExportMessage) error {
	slog.InfoContext(ctx, "Processing export message",
		"id", msg.ID,
		"version", msg.Version)

	rec, err := w.store.GetSIP(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get sip from storage: %w", err)
	}

	if err := w.exportRecord(ctx, rec); err != nil {
		return fmt.Errorf("export sip: %w", err)
	}

	return nil
}

// ProcessPendingExports sweeps records that were never exported. This is a
// backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.GetPendingExportSIPs(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending sips: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, rec := range pending {
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export sip", "id", rec.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupExportCheck drains the pending backlog at worker startup, useful
// after missed AMQP messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingExportSIPs(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending sips for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, rec := range pending {
		if err := w.exportRecord(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to export sip during startup",
				"id", rec.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)

	return nil
}

func (w *ExportWorker) exportRecord(ctx context.Context, rec core.SIPRecord) error {
	ref, err := w.exporter.Append(ctx, rec)
	if err != nil {
		if markErr := w.store.MarkExportError(ctx, rec.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark export error", "id", rec.ID, "error", markErr)
		}
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.MarkExported(ctx, rec.ID); err != nil {
		// The export itself succeeded; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as exported", "id", rec.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully exported sip",
		"id", rec.ID,
		"ledger_ref", ref,
		"scheme", rec.SchemeName,
		"monthly_amount", rec.MonthlyAmount.Units)

	return nil
}
