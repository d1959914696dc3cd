package indicators

import "testing"

func TestInterpretRSI(t *testing.T) {
	cases := []struct {
		rsi    float64
		status string
	}{
		{85, "Overbought"},
		{70, "Overbought"},
		{69.99, "Neutral"},
		{50, "Neutral"},
		{30.01, "Neutral"},
		{30, "Oversold"},
		{10, "Oversold"},
	}
	for _, tc := range cases {
		if got := InterpretRSI(tc.rsi); got.Status != tc.status {
			t.Fatalf("InterpretRSI(%v).Status = %q, want %q", tc.rsi, got.Status, tc.status)
		}
	}
}

func TestInterpretTrend(t *testing.T) {
	if got := InterpretTrend(TrendBullish); got.Signal == "" || got.Icon == "" {
		t.Fatalf("bullish interpretation incomplete: %+v", got)
	}
	if InterpretTrend(TrendBullish).Signal == InterpretTrend(TrendBearish).Signal {
		t.Fatal("bullish and bearish must read differently")
	}
	if got := InterpretTrend(Trend("garbage")); got.Signal != InterpretTrend(TrendNeutral).Signal {
		t.Fatalf("unknown trend must fall back to neutral, got %+v", got)
	}
}
