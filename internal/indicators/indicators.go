package indicators

import "math"

// DefaultRSIPeriod is the conventional RSI lookback.
const DefaultRSIPeriod = 14

// Trend labels the moving-average relationship of a series.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// Summary bundles the indicator set computed over one price series.
type Summary struct {
	SMA7    float64
	SMA30   float64
	EMA7    float64
	EMA30   float64
	RSI     float64
	Trend   Trend
	Current float64
}

// SMA returns the mean of the last period values, or 0 when the series is
// shorter than the period.
func SMA(series []float64, period int) float64 {
	if period <= 0 || len(series) < period {
		return 0
	}

	sum := 0.0
	for _, v := range series[len(series)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// EMA computes the recursive exponential moving average seeded at the first
// element and folded across the whole series, not a sliding window. A series
// shorter than the period falls back to its last element.
func EMA(series []float64, period int) float64 {
	if len(series) == 0 {
		return 0
	}
	if period <= 0 || len(series) < period {
		return series[len(series)-1]
	}

	k := 2 / (float64(period) + 1)
	ema := series[0]
	for _, price := range series[1:] {
		ema = price*k + ema*(1-k)
	}
	return ema
}

// RSI computes the Wilder-smoothed relative strength index. Fewer than
// period+1 points yield the neutral default 50; a series with no losses
// yields 100. The result is rounded to two decimals.
func RSI(series []float64, period int) float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(series) < period+1 {
		return 50
	}

	gains := make([]float64, 0, len(series)-1)
	losses := make([]float64, 0, len(series)-1)
	for i := 1; i < len(series); i++ {
		change := series[i] - series[i-1]
		if change > 0 {
			gains = append(gains, change)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -change)
		}
	}

	avgGain := mean(gains[:period])
	avgLoss := mean(losses[:period])

	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return round2(100 - 100/(1+rs))
}

// Compute derives the full indicator summary for a series ordered oldest to
// newest. An empty series yields zero averages, neutral RSI, neutral trend.
func Compute(series []float64) Summary {
	if len(series) == 0 {
		return Summary{RSI: 50, Trend: TrendNeutral}
	}

	current := series[len(series)-1]
	sma7 := SMA(series, 7)
	sma30 := SMA(series, 30)

	trend := TrendNeutral
	switch {
	case current > sma7 && sma7 > sma30:
		trend = TrendBullish
	case current < sma7 && sma7 < sma30:
		trend = TrendBearish
	}

	return Summary{
		SMA7:    round2(sma7),
		SMA30:   round2(sma30),
		EMA7:    round2(EMA(series, 7)),
		EMA30:   round2(EMA(series, 30)),
		RSI:     RSI(series, DefaultRSIPeriod),
		Trend:   trend,
		Current: current,
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
