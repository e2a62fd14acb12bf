// Package memory provides an in-memory dataset source for tests and for
// running the dashboard without a workbook on disk.
package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"traspasos/internal/core"
	"traspasos/internal/dataset"
)

type Store struct {
	mu     sync.Mutex
	sheets map[string]core.Table
	order  []string
}

var _ dataset.Source = (*Store)(nil)

func New() *Store {
	return &Store{sheets: make(map[string]core.Table)}
}

// NewSeeded builds a store with five years of synthetic monthly transfer
// data for two conceptos, enough to exercise both forecast models.
func NewSeeded() *Store {
	s := New()
	conceptos := []struct {
		name  string
		base  float64
		trend float64
		amp   float64
	}{
		{"Traspasos Afore-Afore", 12000, 45, 900},
		{"Registros de Cuentas", 3500, 12, 250},
	}

	var table core.Table
	for _, c := range conceptos {
		for i := 0; i < 60; i++ {
			d := core.NewDate(2019, 1, 1).AddMonths(i)
			season := c.amp * math.Sin(2*math.Pi*float64(i%12)/12)
			table = append(table, core.Record{
				Fecha:    d,
				Concepto: c.name,
				Datos:    c.base + c.trend*float64(i) + season,
			})
		}
	}
	s.AddSheet("Traspasos", table)
	return s
}

// AddSheet registers or replaces a sheet.
func (s *Store) AddSheet(name string, table core.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sheets[name]; !ok {
		s.order = append(s.order, name)
	}
	s.sheets[name] = table
}

func (s *Store) ID() string {
	return "memory"
}

func (s *Store) ListSheets(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...), nil
}

func (s *Store) ReadSheet(_ context.Context, sheet string) (core.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	table, ok := s.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrSheetNotFound, sheet)
	}
	return append(core.Table(nil), table...), nil
}
