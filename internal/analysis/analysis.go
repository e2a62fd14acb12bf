// Package analysis runs the per-concepto pipeline: filter a loaded
// sheet, summarize it, forecast it, and combine history with forecast.
package analysis

import (
	"context"
	"fmt"
	"time"

	"traspasos/internal/core"
	"traspasos/internal/dataset"
	"traspasos/internal/forecast"
	"traspasos/internal/log"
)

// FilterByConcepto returns the records whose Concepto equals the label
// exactly, preserving source order. Matching is case-sensitive.
func FilterByConcepto(table core.Table, concepto string) core.Table {
	var out core.Table
	for _, r := range table {
		if r.Concepto == concepto {
			out = append(out, r)
		}
	}
	return out
}

// Combine concatenates the historical points with the forecast points.
// The result always has len(historical)+len(projected) entries.
func Combine(historical, projected []core.Point) []core.Point {
	out := make([]core.Point, 0, len(historical)+len(projected))
	out = append(out, historical...)
	return append(out, projected...)
}

// Result is the full outcome of one analysis run.
type Result struct {
	Sheet     string
	Concepto  string
	Model     forecast.Model
	Records   core.Table
	Stats     core.Stats
	Forecast  []core.Point
	Combined  []core.Point
	Elapsed   time.Duration
	StartedAt time.Time
}

// Analyzer wires a dataset loader to the statistics and forecasting
// stages.
type Analyzer struct {
	loader *dataset.Loader
	logger *log.Logger
}

func New(loader *dataset.Loader, logger *log.Logger) *Analyzer {
	if logger == nil {
		logger = log.New(log.Config{Component: "analysis"})
	}
	return &Analyzer{loader: loader, logger: logger}
}

// Sheets lists the sheets available for analysis.
func (a *Analyzer) Sheets(ctx context.Context) ([]string, error) {
	return a.loader.Sheets(ctx)
}

// Conceptos lists the distinct category labels of one sheet.
func (a *Analyzer) Conceptos(ctx context.Context, sheet string) ([]string, error) {
	table, err := a.loader.Load(ctx, sheet)
	if err != nil {
		return nil, err
	}
	return table.Conceptos(), nil
}

// Records returns the full table of one sheet.
func (a *Analyzer) Records(ctx context.Context, sheet string) (core.Table, error) {
	return a.loader.Load(ctx, sheet)
}

// Run loads the sheet, filters it to the concepto, and produces
// statistics, a 36-month forecast, and the combined series. An empty
// filter result yields core.ErrEmptySeries.
func (a *Analyzer) Run(ctx context.Context, sheet, concepto string, model forecast.Model) (*Result, error) {
	started := time.Now()

	table, err := a.loader.Load(ctx, sheet)
	if err != nil {
		return nil, err
	}

	filtered := FilterByConcepto(table, concepto)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no records for concepto %q in sheet %q", core.ErrEmptySeries, concepto, sheet)
	}

	stats, err := core.Describe(filtered.Values())
	if err != nil {
		return nil, fmt.Errorf("describe %q: %w", concepto, err)
	}

	historical := filtered.Points()
	projected, err := forecast.Forecast(historical, model)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Sheet:     sheet,
		Concepto:  concepto,
		Model:     model,
		Records:   filtered,
		Stats:     stats,
		Forecast:  projected,
		Combined:  Combine(historical, projected),
		Elapsed:   time.Since(started),
		StartedAt: started,
	}
	a.logger.Debug("Analysis complete",
		"sheet", sheet, "concepto", concepto, "model", model,
		"records", len(filtered), "elapsed", res.Elapsed)
	return res, nil
}
