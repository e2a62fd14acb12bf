package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndListRuns(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	for i, model := range []string{"sarima", "holtwinters", "sarima"} {
		_, err := repo.SaveRun(ctx, ForecastRun{
			Sheet:       "Traspasos",
			Concepto:    "Traspasos Afore-Afore",
			Model:       model,
			RecordCount: 60,
			Horizon:     36,
			Elapsed:     25 * time.Millisecond,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("save run %d: %v", i, err)
		}
	}

	runs, err := repo.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].Model != "sarima" || runs[1].Model != "holtwinters" {
		t.Fatalf("runs not newest first: %v, %v", runs[0].Model, runs[1].Model)
	}
	if runs[0].Horizon != 36 || runs[0].Elapsed != 25*time.Millisecond {
		t.Fatalf("run fields lost in round trip: %+v", runs[0])
	}
}

func TestGetRun(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.SaveRun(ctx, ForecastRun{
		Sheet:       "Traspasos",
		Concepto:    "Registros de Cuentas",
		Model:       "holtwinters",
		RecordCount: 48,
		Horizon:     36,
		Elapsed:     40 * time.Millisecond,
		CreatedAt:   time.Date(2026, 8, 15, 9, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("save run: %v", err)
	}

	run, err := repo.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Concepto != "Registros de Cuentas" || run.RecordCount != 48 {
		t.Fatalf("unexpected run: %+v", run)
	}

	if _, err := repo.GetRun(ctx, id+100); err == nil {
		t.Fatal("expected error for missing run")
	}
}

func TestRecentRunsEmpty(t *testing.T) {
	repo := newTestRepo(t)
	runs, err := repo.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("got %d runs, want 0", len(runs))
	}
}
