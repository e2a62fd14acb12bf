package dataset

import (
	"context"

	"traspasos/internal/core"
)

// Ports for dataset sources. A source is one workbook-like thing: a local
// xlsx file, a Google spreadsheet, or an in-memory seed.
type (
	// SheetLister enumerates the sheet names of a source.
	SheetLister interface {
		ListSheets(ctx context.Context) ([]string, error)
	}

	// RecordReader reads all records of one named sheet.
	RecordReader interface {
		ReadSheet(ctx context.Context, sheet string) (core.Table, error)
	}

	// Source is a complete dataset backend. ID identifies the underlying
	// workbook (file path, spreadsheet ID, ...) and keys the load cache.
	Source interface {
		SheetLister
		RecordReader
		ID() string
	}
)
