package worker

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"traspasos/internal/storage"
)

const reportSheet = "Corridas"

var reportHeader = []interface{}{
	"Fecha", "Hoja", "Descripción del Concepto", "Modelo", "Registros", "Horizonte", "Duración (ms)",
}

// Report accumulates forecast run rows in an xlsx workbook. Rows are
// appended in memory and written to disk on Flush.
type Report struct {
	path string

	mu    sync.Mutex
	file  *excelize.File
	rows  int
	dirty bool
}

// OpenReport opens the workbook at path, creating it with a header row
// when missing.
func OpenReport(path string) (*Report, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return newReport(path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open report %s: %w", path, err)
	}
	rows, err := f.GetRows(reportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("read report sheet: %w", err)
	}
	return &Report{path: path, file: f, rows: len(rows)}, nil
}

func newReport(path string) (*Report, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name report sheet: %w", err)
	}
	if err := f.SetSheetRow(reportSheet, "A1", &reportHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write report header: %w", err)
	}
	return &Report{path: path, file: f, rows: 1, dirty: true}, nil
}

// Append adds one run as a row after the current last row.
func (r *Report) Append(run storage.ForecastRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cell, err := excelize.CoordinatesToCellName(1, r.rows+1)
	if err != nil {
		return fmt.Errorf("report cell: %w", err)
	}
	row := []interface{}{
		run.CreatedAt.Format("2006-01-02 15:04:05"),
		run.Sheet,
		run.Concepto,
		run.Model,
		run.RecordCount,
		run.Horizon,
		run.Elapsed.Milliseconds(),
	}
	if err := r.file.SetSheetRow(reportSheet, cell, &row); err != nil {
		return fmt.Errorf("append report row: %w", err)
	}
	r.rows++
	r.dirty = true
	return nil
}

// Flush writes pending rows to disk. A clean report is a no-op.
func (r *Report) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.dirty {
		return nil
	}
	if err := r.file.SaveAs(r.path); err != nil {
		return fmt.Errorf("save report %s: %w", r.path, err)
	}
	r.dirty = false
	return nil
}

// Rows reports the row count including the header.
func (r *Report) Rows() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows
}

func (r *Report) Close() error {
	if err := r.Flush(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.file.Close()
}
