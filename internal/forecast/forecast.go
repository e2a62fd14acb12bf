// Package forecast produces 36-month projections of monthly transfer
// series using either a seasonal ARIMA model or additive Holt-Winters
// smoothing, both with a yearly seasonal period.
package forecast

import (
	"fmt"
	"math"

	"traspasos/internal/core"
)

const (
	// Horizon is the number of monthly points every forecast produces.
	Horizon = 36
	// Period is the seasonal period of the monthly series.
	Period = 12
	// minPoints is two full seasonal cycles, the least history either
	// model accepts.
	minPoints = 2 * Period
)

// Model selects the forecasting algorithm.
type Model string

const (
	ModelSARIMA      Model = "sarima"
	ModelHoltWinters Model = "holtwinters"
)

// ParseModel maps a request parameter onto a Model.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelSARIMA, ModelHoltWinters:
		return Model(s), nil
	case "":
		return ModelSARIMA, nil
	}
	return "", fmt.Errorf("unknown forecast model %q", s)
}

// FitError reports a series the chosen model could not be fitted to.
type FitError struct {
	Model  Model
	Reason string
}

func (e *FitError) Error() string {
	return fmt.Sprintf("fit %s: %s", e.Model, e.Reason)
}

// Forecast fits the chosen model to the historical points and returns
// Horizon monthly projections. The first projected point carries the
// month of the last observation; each following point advances one
// month. Points must be in chronological order with parsed dates.
func Forecast(points []core.Point, model Model) ([]core.Point, error) {
	if err := validate(points, model); err != nil {
		return nil, err
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Datos
	}

	var projected []float64
	var err error
	switch model {
	case ModelSARIMA:
		projected, err = sarimaForecast(values, Horizon)
	case ModelHoltWinters:
		projected, err = holtWintersForecast(values, Horizon)
	default:
		return nil, &FitError{Model: model, Reason: "unknown model"}
	}
	if err != nil {
		return nil, err
	}

	start := points[len(points)-1].Fecha.MonthStart()
	out := make([]core.Point, Horizon)
	for h := 0; h < Horizon; h++ {
		out[h] = core.Point{
			Fecha: start.AddMonths(h),
			Datos: projected[h],
		}
	}
	return out, nil
}

func validate(points []core.Point, model Model) error {
	if len(points) < minPoints {
		return &FitError{
			Model:  model,
			Reason: fmt.Sprintf("need at least %d monthly points, got %d", minPoints, len(points)),
		}
	}

	first, constant := points[0].Datos, true
	for _, p := range points {
		if p.Fecha.IsNull() {
			return &FitError{Model: model, Reason: "series contains unparsed dates"}
		}
		if math.IsNaN(p.Datos) || math.IsInf(p.Datos, 0) {
			return &FitError{Model: model, Reason: "series contains non-numeric values"}
		}
		if p.Datos != first {
			constant = false
		}
	}
	if constant {
		return &FitError{Model: model, Reason: "series is constant"}
	}
	return nil
}
