package dataset

import (
	"context"
	"fmt"
	"log/slog"

	"traspasos/internal/cache"
	"traspasos/internal/core"
)

// Loader wraps a Source with process-wide memoization keyed on
// (source ID, sheet name). Repeated loads of the same sheet return the
// cached table without touching the source again; the cache never evicts.
type Loader struct {
	src  Source
	memo *cache.Memo[core.Table]
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src, memo: cache.NewMemo[core.Table]()}
}

// Sheets lists the sheet names of the underlying source.
func (l *Loader) Sheets(ctx context.Context) ([]string, error) {
	return l.src.ListSheets(ctx)
}

// Load returns the record table of the named sheet, memoized.
func (l *Loader) Load(ctx context.Context, sheet string) (core.Table, error) {
	key := l.src.ID() + "\x00" + sheet
	return l.memo.GetOrFill(key, func() (core.Table, error) {
		table, err := l.src.ReadSheet(ctx, sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		slog.DebugContext(ctx, "Sheet loaded", "source", l.src.ID(), "sheet", sheet, "rows", len(table))
		return table, nil
	})
}
