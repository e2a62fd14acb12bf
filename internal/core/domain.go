package core

import (
	"errors"
	"time"
)

// FechaLayout is the accepted textual date format of the Fecha column.
const FechaLayout = "2006-01-02"

type (
	// Date wraps time.Time; the zero value marks an unparseable source date.
	Date struct {
		time.Time
	}

	// Record is one observation from a transfer sheet: the column triple
	// (Fecha, Descripción del Concepto, Datos).
	Record struct {
		Fecha    Date
		Concepto string
		Datos    float64
	}

	// Point is a (date, value) pair, the unit of the historical and
	// forecast series.
	Point struct {
		Fecha Date
		Datos float64
	}

	// Table holds all records of one loaded sheet, in source order.
	Table []Record
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptySeries   = errors.New("empty series")
)

// NewDate creates a Date from year, month, day (UTC, midnight).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseFecha parses a textual Fecha value. Values that do not match
// FechaLayout yield the zero Date rather than an error, so one bad cell
// never fails a whole load.
func ParseFecha(s string) Date {
	t, err := time.Parse(FechaLayout, s)
	if err != nil {
		return Date{}
	}
	return Date{Time: t}
}

// IsNull reports whether the date failed to parse at load time.
func (d Date) IsNull() bool {
	return d.IsZero()
}

// AddMonths returns the date shifted by n calendar months.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

// MonthStart truncates the date to the first day of its month.
func (d Date) MonthStart() Date {
	y, m, _ := d.Date()
	return Date{Time: time.Date(y, m, 1, 0, 0, 0, 0, d.Location())}
}

// String renders the date in the source layout, or empty for null dates.
func (d Date) String() string {
	if d.IsNull() {
		return ""
	}
	return d.Format(FechaLayout)
}

// Conceptos returns the distinct category labels in first-seen order.
func (t Table) Conceptos() []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range t {
		if _, ok := seen[r.Concepto]; ok {
			continue
		}
		seen[r.Concepto] = struct{}{}
		out = append(out, r.Concepto)
	}
	return out
}

// Points projects the table onto its (Fecha, Datos) columns.
func (t Table) Points() []Point {
	pts := make([]Point, len(t))
	for i, r := range t {
		pts[i] = Point{Fecha: r.Fecha, Datos: r.Datos}
	}
	return pts
}

// Values returns the Datos column.
func (t Table) Values() []float64 {
	vals := make([]float64, len(t))
	for i, r := range t {
		vals[i] = r.Datos
	}
	return vals
}

// Equal reports whether two tables hold identical records in the same order.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if !t[i].Fecha.Equal(other[i].Fecha.Time) ||
			t[i].Concepto != other[i].Concepto ||
			t[i].Datos != other[i].Datos {
			return false
		}
	}
	return true
}
