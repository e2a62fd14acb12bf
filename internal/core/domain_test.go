package core

import (
	"testing"
	"time"
)

func TestParseFecha(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		null bool
	}{
		{"2023-01-01", NewDate(2023, 1, 1), false},
		{"2019-12-31", NewDate(2019, 12, 31), false},
		{"31/12/2019", Date{}, true}, // wrong layout
		{"not a date", Date{}, true},
		{"", Date{}, true},
	}
	for i, tc := range cases {
		got := ParseFecha(tc.in)
		if got.IsNull() != tc.null {
			t.Fatalf("case %d: null=%v, want %v", i, got.IsNull(), tc.null)
		}
		if !tc.null && !got.Equal(tc.want.Time) {
			t.Fatalf("case %d: got %v, want %v", i, got, tc.want)
		}
	}
}

func TestDateAddMonths(t *testing.T) {
	d := NewDate(2023, 11, 1)
	got := d.AddMonths(3)
	if got.Year() != 2024 || got.Time.Month() != time.February {
		t.Fatalf("expected 2024-02, got %v", got)
	}
}

func TestDateMonthStart(t *testing.T) {
	if got := NewDate(2023, 5, 17).MonthStart(); !got.Equal(NewDate(2023, 5, 1).Time) {
		t.Fatalf("expected month start, got %v", got)
	}
}

func TestTableConceptos(t *testing.T) {
	tbl := Table{
		{Fecha: NewDate(2023, 1, 1), Concepto: "Traspasos Afore-Afore", Datos: 10},
		{Fecha: NewDate(2023, 2, 1), Concepto: "Registros", Datos: 20},
		{Fecha: NewDate(2023, 3, 1), Concepto: "Traspasos Afore-Afore", Datos: 30},
	}
	got := tbl.Conceptos()
	want := []string{"Traspasos Afore-Afore", "Registros"}
	if len(got) != len(want) {
		t.Fatalf("expected %d conceptos, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("concepto %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTableEqual(t *testing.T) {
	a := Table{{Fecha: NewDate(2023, 1, 1), Concepto: "A", Datos: 1}}
	b := Table{{Fecha: NewDate(2023, 1, 1), Concepto: "A", Datos: 1}}
	c := Table{{Fecha: NewDate(2023, 1, 1), Concepto: "A", Datos: 2}}
	if !a.Equal(b) {
		t.Fatalf("expected equal tables")
	}
	if a.Equal(c) {
		t.Fatalf("expected unequal tables")
	}
}
