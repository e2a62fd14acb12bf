package forecast

import "math"

// holtWintersModel is additive triple exponential smoothing with a
// yearly seasonal period. The smoothing factors are chosen by grid
// search over the in-sample sum of squared one-step errors.
type holtWintersModel struct {
	alpha, beta, gamma float64
	level, trend       float64
	seasonal           []float64
}

// holtWintersForecast fits the smoothing factors to values and projects
// steps points ahead.
func holtWintersForecast(values []float64, steps int) ([]float64, error) {
	m, err := fitHoltWinters(values)
	if err != nil {
		return nil, err
	}

	n := len(values)
	out := make([]float64, steps)
	for h := 0; h < steps; h++ {
		out[h] = m.level + float64(h+1)*m.trend + m.seasonal[(n+h)%Period]
	}
	return out, nil
}

// fitHoltWinters searches a coarse grid of smoothing factors, then
// refines around the best cell.
func fitHoltWinters(values []float64) (*holtWintersModel, error) {
	if len(values) < minPoints {
		return nil, &FitError{Model: ModelHoltWinters, Reason: "needs two full seasonal cycles"}
	}

	best := (*holtWintersModel)(nil)
	bestSSE := math.Inf(1)

	try := func(alpha, beta, gamma float64) {
		m, sse := smooth(values, alpha, beta, gamma)
		if math.IsNaN(sse) || math.IsInf(sse, 0) {
			return
		}
		if sse < bestSSE {
			bestSSE = sse
			best = m
		}
	}

	for alpha := 0.1; alpha < 0.95; alpha += 0.1 {
		for beta := 0.1; beta < 0.95; beta += 0.1 {
			for gamma := 0.1; gamma < 0.95; gamma += 0.1 {
				try(alpha, beta, gamma)
			}
		}
	}

	// Every cell overflows on extreme magnitudes; there is nothing to
	// refine around.
	if best == nil {
		return nil, &FitError{Model: ModelHoltWinters, Reason: "smoothing diverged"}
	}

	a0, b0, g0 := best.alpha, best.beta, best.gamma
	for da := -0.08; da <= 0.08; da += 0.02 {
		for db := -0.08; db <= 0.08; db += 0.04 {
			for dg := -0.08; dg <= 0.08; dg += 0.04 {
				alpha := clamp(a0+da, 0.01, 0.99)
				beta := clamp(b0+db, 0.01, 0.99)
				gamma := clamp(g0+dg, 0.01, 0.99)
				try(alpha, beta, gamma)
			}
		}
	}

	if !finiteModel(best) {
		return nil, &FitError{Model: ModelHoltWinters, Reason: "smoothing diverged"}
	}
	return best, nil
}

// smooth runs one additive Holt-Winters pass over values and returns
// the terminal state together with the sum of squared one-step errors.
func smooth(values []float64, alpha, beta, gamma float64) (*holtWintersModel, float64) {
	n := len(values)

	level, trend := initialTrend(values)
	seasonal := initialSeasonal(values)

	sse := 0.0
	for t := 0; t < n; t++ {
		s := seasonal[t%Period]
		predicted := level + trend + s
		err := values[t] - predicted
		sse += err * err

		prevLevel := level
		level = alpha*(values[t]-s) + (1-alpha)*(level+trend)
		trend = beta*(level-prevLevel) + (1-beta)*trend
		seasonal[t%Period] = gamma*(values[t]-level) + (1-gamma)*s
	}

	return &holtWintersModel{
		alpha: alpha, beta: beta, gamma: gamma,
		level: level, trend: trend, seasonal: seasonal,
	}, sse
}

// initialTrend seeds level with the first cycle's mean and trend with
// the average month-on-month change between the first two cycles.
func initialTrend(values []float64) (level, trend float64) {
	level = mean(values[:Period])
	sum := 0.0
	for i := 0; i < Period; i++ {
		sum += (values[Period+i] - values[i]) / Period
	}
	return level, sum / Period
}

// initialSeasonal seeds the seasonal indices with each month's average
// deviation from its cycle mean, over all complete cycles.
func initialSeasonal(values []float64) []float64 {
	cycles := len(values) / Period

	cycleMeans := make([]float64, cycles)
	for c := 0; c < cycles; c++ {
		cycleMeans[c] = mean(values[c*Period : (c+1)*Period])
	}

	seasonal := make([]float64, Period)
	for i := 0; i < Period; i++ {
		sum := 0.0
		for c := 0; c < cycles; c++ {
			sum += values[c*Period+i] - cycleMeans[c]
		}
		seasonal[i] = sum / float64(cycles)
	}
	return seasonal
}

func finiteModel(m *holtWintersModel) bool {
	if math.IsNaN(m.level) || math.IsInf(m.level, 0) ||
		math.IsNaN(m.trend) || math.IsInf(m.trend, 0) {
		return false
	}
	for _, s := range m.seasonal {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return false
		}
	}
	return true
}
