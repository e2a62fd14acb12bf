package excel

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"traspasos/internal/core"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "traspasos.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func TestReadSheet(t *testing.T) {
	path := writeWorkbook(t, "2023", [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
		{"2023-01-01", "Traspasos Afore-Afore", 120.5},
		{"2023-02-01", "Traspasos Afore-Afore", 98.0},
		{"2023-03-01", "Registros", 11.0},
	})

	wb := New(path)
	table, err := wb.ReadSheet(context.Background(), "2023")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("rows: got %d, want 3", len(table))
	}
	if !table[0].Fecha.Equal(core.NewDate(2023, 1, 1).Time) {
		t.Fatalf("fecha: got %v", table[0].Fecha)
	}
	if table[0].Concepto != "Traspasos Afore-Afore" {
		t.Fatalf("concepto: got %q", table[0].Concepto)
	}
	if table[0].Datos != 120.5 {
		t.Fatalf("datos: got %v", table[0].Datos)
	}
}

func TestReadSheetBadDatesBecomeNull(t *testing.T) {
	path := writeWorkbook(t, "Hoja1", [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
		{"2023-01-01", "Registros", 1.0},
		{"no es fecha", "Registros", 2.0},
	})

	table, err := New(path).ReadSheet(context.Background(), "Hoja1")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table))
	}
	if table[0].Fecha.IsNull() {
		t.Fatalf("expected first date parsed")
	}
	if !table[1].Fecha.IsNull() {
		t.Fatalf("expected null date for unparseable cell, got %v", table[1].Fecha)
	}
}

func TestReadSheetNonNumericDatos(t *testing.T) {
	path := writeWorkbook(t, "Hoja1", [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
		{"2023-01-01", "Registros", "n/d"},
	})

	table, err := New(path).ReadSheet(context.Background(), "Hoja1")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if !math.IsNaN(table[0].Datos) {
		t.Fatalf("expected NaN for non-numeric cell, got %v", table[0].Datos)
	}
}

func TestReadSheetMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Hoja1", [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
	})

	_, err := New(path).ReadSheet(context.Background(), "NoExiste")
	if !errors.Is(err, core.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadSheetMissingColumn(t *testing.T) {
	path := writeWorkbook(t, "Hoja1", [][]interface{}{
		{"Fecha", "Datos"},
		{"2023-01-01", 1.0},
	})

	_, err := New(path).ReadSheet(context.Background(), "Hoja1")
	if !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestReadSheetMissingFile(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope.xlsx")).ReadSheet(context.Background(), "Hoja1")
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestListSheets(t *testing.T) {
	path := writeWorkbook(t, "2023", [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
	})
	sheets, err := New(path).ListSheets(context.Background())
	if err != nil {
		t.Fatalf("list sheets: %v", err)
	}
	if len(sheets) != 1 || sheets[0] != "2023" {
		t.Fatalf("sheets: got %v", sheets)
	}
}
