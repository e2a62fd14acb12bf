package memory

import (
	"context"
	"errors"
	"testing"

	"traspasos/internal/core"
)

func TestSeededStore(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	sheets, err := s.ListSheets(ctx)
	if err != nil {
		t.Fatalf("list sheets: %v", err)
	}
	if len(sheets) != 1 || sheets[0] != "Traspasos" {
		t.Fatalf("sheets: got %v", sheets)
	}

	table, err := s.ReadSheet(ctx, "Traspasos")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(table) != 120 {
		t.Fatalf("rows: got %d, want 120", len(table))
	}
	if got := len(table.Conceptos()); got != 2 {
		t.Fatalf("conceptos: got %d, want 2", got)
	}
}

func TestReadMissingSheet(t *testing.T) {
	s := New()
	if _, err := s.ReadSheet(context.Background(), "nope"); !errors.Is(err, core.ErrSheetNotFound) {
		t.Fatalf("expected ErrSheetNotFound, got %v", err)
	}
}

func TestReadSheetReturnsCopy(t *testing.T) {
	s := New()
	s.AddSheet("Hoja1", core.Table{{Fecha: core.NewDate(2023, 1, 1), Concepto: "A", Datos: 1}})

	table, err := s.ReadSheet(context.Background(), "Hoja1")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	table[0].Datos = 99

	again, _ := s.ReadSheet(context.Background(), "Hoja1")
	if again[0].Datos != 1 {
		t.Fatalf("store mutated through returned slice")
	}
}
