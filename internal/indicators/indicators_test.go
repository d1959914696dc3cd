package indicators

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSMA(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}

	if got := SMA(series, 5); !almostEqual(got, 3) {
		t.Fatalf("SMA(5) = %v, want 3", got)
	}
	if got := SMA(series, 2); !almostEqual(got, 4.5) {
		t.Fatalf("SMA(2) = %v, want 4.5", got)
	}
}

func TestSMAShortSeriesReturnsZero(t *testing.T) {
	if got := SMA([]float64{1, 2, 3}, 7); got != 0 {
		t.Fatalf("SMA on short series = %v, want 0", got)
	}
	if got := SMA(nil, 7); got != 0 {
		t.Fatalf("SMA on empty series = %v, want 0", got)
	}
}

func TestEMAShortSeriesFallsBackToLast(t *testing.T) {
	// The fallbacks intentionally differ: SMA drops to 0 on a short series,
	// EMA reports the most recent value.
	series := []float64{10, 20, 30}

	if got := EMA(series, 7); !almostEqual(got, 30) {
		t.Fatalf("EMA on short series = %v, want last element 30", got)
	}
	if got := EMA(nil, 7); got != 0 {
		t.Fatalf("EMA on empty series = %v, want 0", got)
	}
}

func TestEMARecursiveSeed(t *testing.T) {
	series := []float64{10, 11, 12}
	k := 2.0 / 3.0 // period 2
	want := (11*k + 10*(1-k))
	want = 12*k + want*(1-k)

	if got := EMA(series, 2); !almostEqual(got, want) {
		t.Fatalf("EMA = %v, want %v", got, want)
	}
}

func TestEMAConstantSeries(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 250
	}
	if got := EMA(series, 7); !almostEqual(got, 250) {
		t.Fatalf("EMA over constant series = %v, want 250", got)
	}
}

func TestRSIShortSeriesIsNeutral(t *testing.T) {
	series := []float64{1, 2, 3, 4, 5}
	if got := RSI(series, DefaultRSIPeriod); got != 50 {
		t.Fatalf("RSI on short series = %v, want 50", got)
	}
}

func TestRSIConstantSeriesIs100(t *testing.T) {
	// No losses at all: RSI saturates at 100. Twenty flat points exceed the
	// period+1 threshold so this is the computed path, not the fallback.
	series := make([]float64, 20)
	for i := range series {
		series[i] = 42
	}
	if got := RSI(series, DefaultRSIPeriod); got != 100 {
		t.Fatalf("RSI over constant series = %v, want 100", got)
	}
}

func TestRSIMonotonicDecline(t *testing.T) {
	series := make([]float64, 20)
	for i := range series {
		series[i] = float64(100 - i)
	}
	if got := RSI(series, DefaultRSIPeriod); got != 0 {
		t.Fatalf("RSI over strict decline = %v, want 0", got)
	}
}

func TestRSIBounded(t *testing.T) {
	series := []float64{44, 44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.1, 45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46}
	got := RSI(series, DefaultRSIPeriod)
	if got < 0 || got > 100 {
		t.Fatalf("RSI = %v, out of [0,100]", got)
	}
	if got == 50 {
		t.Fatal("series is long enough, must not hit the neutral fallback")
	}
}

func TestComputeEmptySeries(t *testing.T) {
	summary := Compute(nil)

	if summary.RSI != 50 {
		t.Fatalf("RSI = %v, want neutral 50", summary.RSI)
	}
	if summary.Trend != TrendNeutral {
		t.Fatalf("trend = %s, want neutral", summary.Trend)
	}
	if summary.SMA7 != 0 || summary.EMA7 != 0 || summary.Current != 0 {
		t.Fatalf("empty series must yield zero values, got %+v", summary)
	}
}

func TestComputeTrendBullish(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 100 + float64(i)
	}

	summary := Compute(series)
	if summary.Trend != TrendBullish {
		t.Fatalf("trend = %s, want bullish for a rising series", summary.Trend)
	}
	if summary.Current != 139 {
		t.Fatalf("current = %v, want 139", summary.Current)
	}
}

func TestComputeTrendBearish(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 200 - float64(i)
	}

	summary := Compute(series)
	if summary.Trend != TrendBearish {
		t.Fatalf("trend = %s, want bearish for a falling series", summary.Trend)
	}
}

func TestComputeTrendNeutralFlat(t *testing.T) {
	series := make([]float64, 40)
	for i := range series {
		series[i] = 75
	}

	summary := Compute(series)
	if summary.Trend != TrendNeutral {
		t.Fatalf("trend = %s, want neutral for a flat series", summary.Trend)
	}
}
