// Package chart renders the dashboard's time series as PNG images.
package chart

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"traspasos/internal/core"
)

const (
	chartWidth  = 900
	chartHeight = 420
)

var (
	historyColor  = drawing.Color{R: 31, G: 119, B: 180, A: 255}
	forecastColor = drawing.Color{R: 214, G: 39, B: 40, A: 255}
)

// History renders the historical series of one concepto as a line chart.
func History(concepto string, points []core.Point) ([]byte, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("render history: %w", core.ErrEmptySeries)
	}

	times, values := split(points)
	graph := chart.Chart{
		Title:      concepto,
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: monthFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Histórico",
				XValues: times,
				YValues: values,
				Style:   chart.Style{StrokeColor: historyColor, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(graph)
}

// Combined renders the historical series as a solid line and the
// forecast as a dashed continuation.
func Combined(concepto string, historical, projected []core.Point) ([]byte, error) {
	if len(historical) < 2 || len(projected) < 2 {
		return nil, fmt.Errorf("render combined: %w", core.ErrEmptySeries)
	}

	histTimes, histValues := split(historical)
	fcTimes, fcValues := split(projected)
	graph := chart.Chart{
		Title:      concepto + " con proyección",
		Width:      chartWidth,
		Height:     chartHeight,
		Background: chart.Style{Padding: chart.Box{Top: 30, Left: 16, Right: 16, Bottom: 10}},
		XAxis:      chart.XAxis{ValueFormatter: monthFormatter},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Histórico",
				XValues: histTimes,
				YValues: histValues,
				Style:   chart.Style{StrokeColor: historyColor, StrokeWidth: 2},
			},
			chart.TimeSeries{
				Name:    "Proyección",
				XValues: fcTimes,
				YValues: fcValues,
				Style: chart.Style{
					StrokeColor:     forecastColor,
					StrokeWidth:     2,
					StrokeDashArray: []float64{6, 4},
				},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return render(graph)
}

func render(graph chart.Chart) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

func split(points []core.Point) ([]time.Time, []float64) {
	times := make([]time.Time, len(points))
	values := make([]float64, len(points))
	for i, p := range points {
		times[i] = p.Fecha.Time
		values[i] = p.Datos
	}
	return times, values
}

func monthFormatter(v interface{}) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format("2006-01")
	case float64:
		return time.Unix(0, int64(t)).Format("2006-01")
	}
	return ""
}
