package forecast

import (
	"errors"
	"math"
	"testing"

	"traspasos/internal/core"
)

// monthlySeries generates months of synthetic data with trend and
// yearly seasonality starting January 2019.
func monthlySeries(months int) []core.Point {
	pts := make([]core.Point, months)
	for i := 0; i < months; i++ {
		pts[i] = core.Point{
			Fecha: core.NewDate(2019, 1, 1).AddMonths(i),
			Datos: 10000 + 40*float64(i) + 800*math.Sin(2*math.Pi*float64(i)/12),
		}
	}
	return pts
}

func TestForecastHorizonAndDates(t *testing.T) {
	for _, model := range []Model{ModelSARIMA, ModelHoltWinters} {
		t.Run(string(model), func(t *testing.T) {
			history := monthlySeries(48)
			got, err := Forecast(history, model)
			if err != nil {
				t.Fatalf("forecast: %v", err)
			}
			if len(got) != Horizon {
				t.Fatalf("got %d points, want %d", len(got), Horizon)
			}

			last := history[len(history)-1].Fecha
			if !got[0].Fecha.Equal(last.MonthStart().Time) {
				t.Fatalf("first forecast date = %s, want %s", got[0].Fecha, last)
			}
			for i := 1; i < len(got); i++ {
				want := got[i-1].Fecha.AddMonths(1)
				if !got[i].Fecha.Equal(want.Time) {
					t.Fatalf("point %d: date %s, want %s", i, got[i].Fecha, want)
				}
			}

			for i, p := range got {
				if math.IsNaN(p.Datos) || math.IsInf(p.Datos, 0) {
					t.Fatalf("point %d: non-finite value %v", i, p.Datos)
				}
			}
		})
	}
}

func TestForecastMinimumHistory(t *testing.T) {
	got, err := Forecast(monthlySeries(24), ModelSARIMA)
	if err != nil {
		t.Fatalf("forecast at minimum length: %v", err)
	}
	if len(got) != Horizon {
		t.Fatalf("got %d points, want %d", len(got), Horizon)
	}
}

func TestForecastTooShort(t *testing.T) {
	_, err := Forecast(monthlySeries(23), ModelHoltWinters)
	var fitErr *FitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("got %v, want FitError", err)
	}
}

func TestForecastDegenerateSeries(t *testing.T) {
	constant := monthlySeries(36)
	for i := range constant {
		constant[i].Datos = 42
	}

	withNaN := monthlySeries(36)
	withNaN[5].Datos = math.NaN()

	withNull := monthlySeries(36)
	withNull[10].Fecha = core.Date{}

	for name, pts := range map[string][]core.Point{
		"constant":  constant,
		"nan value": withNaN,
		"null date": withNull,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Forecast(pts, ModelSARIMA)
			var fitErr *FitError
			if !errors.As(err, &fitErr) {
				t.Fatalf("got %v, want FitError", err)
			}
		})
	}
}

func TestHoltWintersExtremeMagnitude(t *testing.T) {
	// Finite inputs around 1e160 overflow the squared one-step errors,
	// so no grid cell has a usable score. That must surface as a
	// FitError, not a crash.
	huge := make([]core.Point, 24)
	for i := range huge {
		huge[i] = core.Point{
			Fecha: core.NewDate(2019, 1, 1).AddMonths(i),
			Datos: 1e160 * math.Sin(float64(i*i)+0.7),
		}
	}

	_, err := Forecast(huge, ModelHoltWinters)
	var fitErr *FitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("got %v, want FitError", err)
	}
}

func TestForecastDeterministic(t *testing.T) {
	history := monthlySeries(60)
	first, err := Forecast(history, ModelSARIMA)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Forecast(history, ModelSARIMA)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("point %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestHoltWintersTracksSeasonality(t *testing.T) {
	history := monthlySeries(60)
	got, err := Forecast(history, ModelHoltWinters)
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}

	// Forecast values of a trending series should stay in the same
	// order of magnitude as the tail of the history.
	lastVal := history[len(history)-1].Datos
	for i, p := range got {
		if p.Datos < lastVal*0.2 || p.Datos > lastVal*5 {
			t.Fatalf("point %d: value %v implausible against last observation %v", i, p.Datos, lastVal)
		}
	}
}

func TestParseModel(t *testing.T) {
	cases := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"sarima", ModelSARIMA, false},
		{"holtwinters", ModelHoltWinters, false},
		{"", ModelSARIMA, false},
		{"prophet", "", true},
	}
	for _, c := range cases {
		got, err := ParseModel(c.in)
		if c.wantErr {
			if err == nil {
				t.Fatalf("ParseModel(%q): expected error", c.in)
			}
			continue
		}
		if err != nil || got != c.want {
			t.Fatalf("ParseModel(%q) = %v, %v; want %v", c.in, got, err, c.want)
		}
	}
}
