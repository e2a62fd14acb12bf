// Package excel reads transfer record sheets from local .xlsx workbooks.
package excel

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"traspasos/internal/core"
	"traspasos/internal/dataset"
)

const (
	colFecha    = "Fecha"
	colConcepto = "Descripción del Concepto"
	colDatos    = "Datos"
)

// Workbook is a dataset source backed by one xlsx file. The file is opened
// per read; the loader's memoization keeps repeat opens off the hot path.
type Workbook struct {
	path string
}

var _ dataset.Source = (*Workbook)(nil)

func New(path string) *Workbook {
	return &Workbook{path: path}
}

func (w *Workbook) ID() string {
	return w.path
}

// ListSheets returns the workbook's sheet names in file order.
func (w *Workbook) ListSheets(_ context.Context) ([]string, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

// ReadSheet parses all rows of the named sheet. Textual dates must match
// core.FechaLayout; cells that do not (and are not Excel serial dates)
// yield a null date instead of failing the load. Non-numeric Datos cells
// become NaN and surface later as degenerate-series fit failures.
func (w *Workbook) ReadSheet(_ context.Context, sheet string) (core.Table, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		var notExist excelize.ErrSheetNotExist
		if errors.As(err, &notExist) {
			return nil, fmt.Errorf("%w: %s", core.ErrSheetNotFound, sheet)
		}
		return nil, fmt.Errorf("read rows of %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return core.Table{}, nil
	}

	iFecha, iConcepto, iDatos, err := headerIndexes(rows[0])
	if err != nil {
		return nil, err
	}

	table := make(core.Table, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		table = append(table, core.Record{
			Fecha:    parseDateCell(cell(row, iFecha)),
			Concepto: cell(row, iConcepto),
			Datos:    parseDatosCell(cell(row, iDatos)),
		})
	}
	return table, nil
}

func headerIndexes(header []string) (iFecha, iConcepto, iDatos int, err error) {
	iFecha, iConcepto, iDatos = -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case colFecha:
			iFecha = i
		case colConcepto:
			iConcepto = i
		case colDatos:
			iDatos = i
		}
	}
	var missing []string
	if iFecha == -1 {
		missing = append(missing, colFecha)
	}
	if iConcepto == -1 {
		missing = append(missing, colConcepto)
	}
	if iDatos == -1 {
		missing = append(missing, colDatos)
	}
	if len(missing) > 0 {
		return 0, 0, 0, fmt.Errorf("%w: %s", core.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return iFecha, iConcepto, iDatos, nil
}

// parseDateCell handles both textual dates and Excel serial numbers, the
// two shapes the Fecha column arrives in depending on cell formatting.
func parseDateCell(s string) core.Date {
	s = strings.TrimSpace(s)
	if d := core.ParseFecha(s); !d.IsNull() {
		return d
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		// Excel epoch, days since 1899-12-30.
		t := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(serial))
		return core.Date{Time: t}
	}
	return core.Date{}
}

func parseDatosCell(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
