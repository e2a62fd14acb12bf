// Package storage persists forecast run history in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ForecastRun is one recorded analysis run.
type ForecastRun struct {
	ID          int64
	Sheet       string
	Concepto    string
	Model       string
	RecordCount int
	Horizon     int
	Elapsed     time.Duration
	CreatedAt   time.Time
}

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the run-history
// database and applies migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

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

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveRun records one completed analysis run and returns its id.
func (r *SQLiteRepository) SaveRun(ctx context.Context, run ForecastRun) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO forecast_runs (sheet, concepto, model, record_count, horizon, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Sheet, run.Concepto, run.Model, run.RecordCount, run.Horizon,
		run.Elapsed.Milliseconds(), run.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("insert forecast run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	slog.InfoContext(ctx, "Forecast run saved",
		"id", id, "sheet", run.Sheet, "concepto", run.Concepto, "model", run.Model)
	return id, nil
}

// GetRun fetches one run by id.
func (r *SQLiteRepository) GetRun(ctx context.Context, id int64) (ForecastRun, error) {
	var run ForecastRun
	var elapsedMS int64
	err := r.db.QueryRowContext(ctx,
		`SELECT id, sheet, concepto, model, record_count, horizon, elapsed_ms, created_at
		 FROM forecast_runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Sheet, &run.Concepto, &run.Model,
			&run.RecordCount, &run.Horizon, &elapsedMS, &run.CreatedAt)
	if err != nil {
		return ForecastRun{}, fmt.Errorf("get forecast run %d: %w", id, err)
	}
	run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
	return run, nil
}

// RecentRuns returns the most recent runs, newest first.
func (r *SQLiteRepository) RecentRuns(ctx context.Context, limit int) ([]ForecastRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sheet, concepto, model, record_count, horizon, elapsed_ms, created_at
		 FROM forecast_runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query forecast runs: %w", err)
	}
	defer rows.Close()

	var runs []ForecastRun
	for rows.Next() {
		var run ForecastRun
		var elapsedMS int64
		if err := rows.Scan(&run.ID, &run.Sheet, &run.Concepto, &run.Model,
			&run.RecordCount, &run.Horizon, &elapsedMS, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan forecast run: %w", err)
		}
		run.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
