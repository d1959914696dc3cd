package indicators

// Interpretation is a presentation-facing reading of an indicator value.
type Interpretation struct {
	Status string
	Signal string
	Icon   string
}

// InterpretRSI maps an RSI value onto the conventional 30/70 bands.
func InterpretRSI(rsi float64) Interpretation {
	switch {
	case rsi >= 70:
		return Interpretation{Status: "Overbought", Signal: "Consider taking profits", Icon: "▲"}
	case rsi <= 30:
		return Interpretation{Status: "Oversold", Signal: "Potential buying opportunity", Icon: "▼"}
	default:
		return Interpretation{Status: "Neutral", Signal: "Hold current position", Icon: "►"}
	}
}

// InterpretTrend maps a trend label onto a directional reading.
func InterpretTrend(trend Trend) Interpretation {
	switch trend {
	case TrendBullish:
		return Interpretation{Status: "Bullish", Signal: "Upward momentum", Icon: "▲"}
	case TrendBearish:
		return Interpretation{Status: "Bearish", Signal: "Downward pressure", Icon: "▼"}
	default:
		return Interpretation{Status: "Neutral", Signal: "Sideways movement", Icon: "►"}
	}
}
