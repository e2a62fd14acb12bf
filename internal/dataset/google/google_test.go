package google

import (
	"context"
	"errors"
	"math"
	"testing"

	"traspasos/internal/core"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"Fecha", "Descripción del Concepto", "Datos"},
		{"2024-01-01", "Traspasos Afore-Afore", "12,345.5"},
		{"no es fecha", "Traspasos Afore-Afore", "abc"},
		{"2024-02-01", "Registros de Cuentas"},
	}

	table, err := parseValues(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table) != 3 {
		t.Fatalf("got %d records, want 3", len(table))
	}

	if table[0].Fecha.String() != "2024-01-01" || table[0].Datos != 12345.5 {
		t.Fatalf("unexpected first record: %+v", table[0])
	}
	if !table[1].Fecha.IsNull() {
		t.Fatalf("bad date should parse as null, got %v", table[1].Fecha)
	}
	if !math.IsNaN(table[1].Datos) {
		t.Fatalf("bad Datos should be NaN, got %v", table[1].Datos)
	}
	if !math.IsNaN(table[2].Datos) {
		t.Fatalf("short row Datos should be NaN, got %v", table[2].Datos)
	}
}

func TestParseValuesMissingColumn(t *testing.T) {
	values := [][]interface{}{
		{"Fecha", "Datos"},
		{"2024-01-01", "100"},
	}
	if _, err := parseValues(values); !errors.Is(err, core.ErrMissingColumn) {
		t.Fatalf("got %v, want ErrMissingColumn", err)
	}
}

func TestParseValuesEmpty(t *testing.T) {
	table, err := parseValues(nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("got %d records, want 0", len(table))
	}
}

func TestNewFromEnvRequiresSpreadsheetID(t *testing.T) {
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error without GOOGLE_SPREADSHEET_ID")
	}
}
