package indicators

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
	"portfolio-alerts/internal/portfolio"
)

// RSIPoint is one timestamped RSI value for charting.
type RSIPoint struct {
	Time time.Time
	RSI  float64
}

// SynthesizeHistory fabricates a price series of days points ending near the
// current value: a sinusoidal cycle plus a slight upward trend plus random
// noise, applied multiplicatively. The noise makes output non-reproducible by
// design; pass a seeded rng to pin it down in tests. A non-positive current
// value yields an empty series.
func SynthesizeHistory(current float64, days int, rng *rand.Rand) []float64 {
	if current <= 0 || days <= 0 {
		return []float64{}
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	series := make([]float64, 0, days)
	for i := days - 1; i >= 0; i-- {
		factor := float64(i) / float64(days)
		cycle := math.Sin(factor*2*math.Pi) * 0.1
		trend := factor * 0.05
		noise := (rng.Float64() - 0.5) * 0.08

		value := current * (1 + cycle + trend + noise)
		series = append(series, math.Max(0, value))
	}
	return series
}

// PortfolioHistory synthesizes a historical series for the current portfolio
// value. Empty holdings or a zero portfolio value yield an empty series.
func PortfolioHistory(holdings portfolio.Holdings, data market.Data, rate decimal.Decimal, days int, rng *rand.Rand) []float64 {
	if len(holdings) == 0 {
		return []float64{}
	}

	total := decimal.Zero
	for coin, holding := range holdings {
		price, ok := market.PriceFor(data, coin, rate)
		if !ok {
			continue
		}
		total = total.Add(price.Mul(holding.Hodl))
	}
	if !total.IsPositive() {
		return []float64{}
	}

	return SynthesizeHistory(total.InexactFloat64(), days, rng)
}

// RSISeries computes a rolling RSI over the series, one point per day ending
// now. Fewer than period+1 input points yield an empty result.
func RSISeries(values []float64, period int, now time.Time) []RSIPoint {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(values) < period+1 {
		return []RSIPoint{}
	}

	day := 24 * time.Hour
	points := make([]RSIPoint, 0, len(values)-period)
	for i := period; i < len(values); i++ {
		points = append(points, RSIPoint{
			Time: now.Add(-time.Duration(len(values)-1-i) * day),
			RSI:  RSI(values[:i+1], period),
		})
	}
	return points
}
