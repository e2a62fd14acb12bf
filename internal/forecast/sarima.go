package forecast

import "math"

// sarimaModel is a seasonal ARIMA of fixed order (1,1,1)(1,1,1) with a
// yearly period, estimated by conditional sum of squares with gradient
// descent and momentum.
type sarimaModel struct {
	ar, ma, sar, sma float64
	intercept        float64
	original         []float64
	diffed           []float64
	residuals        []float64
}

const (
	sarimaMaxIter      = 200
	sarimaTolerance    = 1e-8
	sarimaLearningRate = 0.005
	sarimaMomentum     = 0.9
	sarimaDecay        = 0.99
	sarimaNoImprove    = 20
	coeffBound         = 0.99
)

// sarimaForecast fits the model to values and projects steps points on
// the original scale.
func sarimaForecast(values []float64, steps int) ([]float64, error) {
	m := &sarimaModel{original: values}
	if err := m.fit(); err != nil {
		return nil, err
	}
	return m.predict(steps), nil
}

func (m *sarimaModel) fit() error {
	m.diffed = seasonalDiff(diff(m.original), Period)
	if len(m.diffed) == 0 {
		return &FitError{Model: ModelSARIMA, Reason: "differencing exhausted the series"}
	}

	y := m.diffed
	m.intercept = mean(y)

	// Initial coefficients from the autocorrelation of the stationary
	// series; 0.1 for the MA terms, matching where gradient descent
	// converges reliably.
	m.ar = acfLag(y, 1) * 0.5
	m.sar = acfLag(y, Period) * 0.5
	m.ma = 0.1
	m.sma = 0.1

	m.optimize(y)
	return nil
}

// optimize runs conditional-sum-of-squares gradient descent with
// momentum, tracking the best coefficient set seen.
func (m *sarimaModel) optimize(y []float64) {
	n := len(y)

	startIdx := Period
	if startIdx >= n-10 {
		startIdx = 0
	}

	lr := sarimaLearningRate
	var arMom, maMom, sarMom, smaMom float64

	bestSSE := math.Inf(1)
	bestAR, bestMA, bestSAR, bestSMA := m.ar, m.ma, m.sar, m.sma
	noImprove := 0

	for iter := 0; iter < sarimaMaxIter; iter++ {
		residuals := make([]float64, n)
		sse := 0.0
		for t := startIdx; t < n; t++ {
			residuals[t] = y[t] - m.oneStep(y, residuals, t, n)
			sse += residuals[t] * residuals[t]
		}

		if sse < bestSSE {
			improvement := bestSSE - sse
			bestSSE = sse
			bestAR, bestMA, bestSAR, bestSMA = m.ar, m.ma, m.sar, m.sma
			noImprove = 0
			if iter > 0 && improvement < sarimaTolerance {
				break
			}
		} else {
			noImprove++
			if noImprove > sarimaNoImprove {
				break
			}
		}

		var arGrad, maGrad, sarGrad, smaGrad float64
		for t := startIdx; t < n; t++ {
			if t-1 >= 0 {
				arGrad -= 2 * residuals[t] * (y[t-1] - m.intercept)
				maGrad -= 2 * residuals[t] * residuals[t-1]
			}
			if t-Period >= 0 {
				sarGrad -= 2 * residuals[t] * (y[t-Period] - m.intercept)
				smaGrad -= 2 * residuals[t] * residuals[t-Period]
			}
		}

		nf := float64(n)
		arMom = sarimaMomentum*arMom + lr*arGrad/nf
		maMom = sarimaMomentum*maMom + lr*maGrad/nf
		sarMom = sarimaMomentum*sarMom + lr*sarGrad/nf
		smaMom = sarimaMomentum*smaMom + lr*smaGrad/nf

		m.ar = clamp(m.ar-arMom, -coeffBound, coeffBound)
		m.ma = clamp(m.ma-maMom, -coeffBound, coeffBound)
		m.sar = clamp(m.sar-sarMom, -coeffBound, coeffBound)
		m.sma = clamp(m.sma-smaMom, -coeffBound, coeffBound)

		lr *= sarimaDecay
	}

	m.ar, m.ma, m.sar, m.sma = bestAR, bestMA, bestSAR, bestSMA

	m.residuals = make([]float64, n)
	for t := 0; t < n; t++ {
		m.residuals[t] = y[t] - m.oneStep(y, m.residuals, t, n)
	}
}

// oneStep computes the model's one-step prediction at index t. Residual
// terms past limit are treated as zero, which makes the same code serve
// both fitting (limit = n) and forecasting over the extended series.
func (m *sarimaModel) oneStep(y, residuals []float64, t, limit int) float64 {
	pred := m.intercept
	if t-1 >= 0 {
		pred += m.ar * (y[t-1] - m.intercept)
		if t-1 < limit {
			pred += m.ma * residuals[t-1]
		}
	}
	if t-Period >= 0 {
		pred += m.sar * (y[t-Period] - m.intercept)
		if t-Period < limit {
			pred += m.sma * residuals[t-Period]
		}
	}
	return pred
}

// predict iterates the fitted recurrence on the differenced scale and
// integrates the result back onto the original scale.
func (m *sarimaModel) predict(steps int) []float64 {
	n := len(m.diffed)

	extY := make([]float64, n+steps)
	copy(extY, m.diffed)
	extRes := make([]float64, n+steps)
	copy(extRes, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		extY[t] = m.oneStep(extY, extRes, t, n)
	}

	return m.integrate(extY[n:])
}

// integrate undoes the differencing applied in fit: seasonal first,
// from the last cycle of the non-seasonally differenced history, then
// a cumulative sum anchored on the last original value.
func (m *sarimaModel) integrate(forecasts []float64) []float64 {
	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	nonSeasonal := diff(m.original)
	nDiff := len(nonSeasonal)
	for j := range result {
		if j < Period {
			if idx := nDiff - Period + j; idx >= 0 {
				result[j] += nonSeasonal[idx]
			}
		} else {
			result[j] += result[j-Period]
		}
	}

	last := m.original[len(m.original)-1]
	for j := range result {
		if j == 0 {
			result[j] += last
		} else {
			result[j] += result[j-1]
		}
	}
	return result
}

func diff(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

func seasonalDiff(values []float64, period int) []float64 {
	if len(values) <= period {
		return nil
	}
	out := make([]float64, len(values)-period)
	for i := period; i < len(values); i++ {
		out[i-period] = values[i] - values[i-period]
	}
	return out
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// acfLag returns the autocorrelation of values at the given lag, or 0
// when the lag exceeds the series or the series has no variance.
func acfLag(values []float64, lag int) float64 {
	n := len(values)
	if lag >= n {
		return 0
	}
	mu := mean(values)
	variance := 0.0
	for _, v := range values {
		variance += (v - mu) * (v - mu)
	}
	if variance == 0 {
		return 0
	}
	sum := 0.0
	for i := lag; i < n; i++ {
		sum += (values[i] - mu) * (values[i-lag] - mu)
	}
	return sum / variance
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
