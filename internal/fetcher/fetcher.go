package fetcher

import (
	"context"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
)

// MarketFetcher retrieves a spot market snapshot for a set of coins.
type MarketFetcher interface {
	FetchTickers(ctx context.Context, coins []string) (market.Data, error)
}

// RateFetcher retrieves the USD-to-display-currency exchange rate.
type RateFetcher interface {
	FetchRate(ctx context.Context, currency string) (decimal.Decimal, error)
}
