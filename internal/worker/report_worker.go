// Package worker turns forecast run events into rows of an xlsx
// report workbook.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"traspasos/internal/amqp"
	"traspasos/internal/storage"
)

// RunGetter fetches a stored forecast run by id.
type RunGetter interface {
	GetRun(ctx context.Context, id int64) (storage.ForecastRun, error)
}

// ReportWorker consumes run-completed events and appends each run to
// the report, flushing on an interval.
type ReportWorker struct {
	client        *amqp.Client
	runs          RunGetter
	report        *Report
	flushInterval time.Duration
}

func NewReportWorker(client *amqp.Client, runs RunGetter, report *Report, flushInterval time.Duration) *ReportWorker {
	if flushInterval <= 0 {
		flushInterval = time.Minute
	}
	return &ReportWorker{
		client:        client,
		runs:          runs,
		report:        report,
		flushInterval: flushInterval,
	}
}

// Run consumes events until the context is cancelled, then flushes the
// report one last time.
func (w *ReportWorker) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := w.client.ConsumeRunCompleted(ctx, func(msg *amqp.RunCompletedMessage) error {
			return w.HandleRunCompleted(ctx, msg)
		})
		if err != nil && ctx.Err() != nil {
			return nil
		}
		return err
	})

	g.Go(func() error {
		ticker := time.NewTicker(w.flushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := w.report.Flush(); err != nil {
					slog.ErrorContext(ctx, "Failed to flush report", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	if flushErr := w.report.Flush(); flushErr != nil {
		slog.Error("Failed to flush report on shutdown", "error", flushErr)
	}
	return err
}

// HandleRunCompleted looks the run up and appends it to the report.
func (w *ReportWorker) HandleRunCompleted(ctx context.Context, msg *amqp.RunCompletedMessage) error {
	run, err := w.runs.GetRun(ctx, msg.RunID)
	if err != nil {
		return fmt.Errorf("load run %d: %w", msg.RunID, err)
	}

	if err := w.report.Append(run); err != nil {
		return fmt.Errorf("append run %d: %w", msg.RunID, err)
	}

	slog.InfoContext(ctx, "Run appended to report",
		"run_id", run.ID, "sheet", run.Sheet, "concepto", run.Concepto, "model", run.Model)
	return nil
}
