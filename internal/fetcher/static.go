package fetcher

import (
	"context"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

// Static serves a fixed snapshot and rate. Used by the simulate command and
// in tests.
type Static struct {
	Data market.Data
	Rate decimal.Decimal
}

// FetchTickers returns the fixed snapshot regardless of the coin set.
func (s *Static) FetchTickers(_ context.Context, _ []string) (market.Data, error) {
	if s.Data == nil {
		return market.Data{}, nil
	}
	return s.Data, nil
}

// FetchRate returns the fixed rate, defaulting to 1.
func (s *Static) FetchRate(_ context.Context, _ string) (decimal.Decimal, error) {
	if !s.Rate.IsPositive() {
		return decimal.NewFromInt(1), nil
	}
	return s.Rate, nil
}

var _ MarketFetcher = (*Static)(nil)
var _ RateFetcher = (*Static)(nil)
