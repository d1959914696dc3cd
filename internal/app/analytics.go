package app

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"portfolio-alerts/internal/market"
	"portfolio-alerts/internal/portfolio"
)

// Analytics computes and prints portfolio analytics from live market data.
func (a *App) Analytics(ctx context.Context) error {
	holdings, data, rate, currency, cleanup, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(holdings) == 0 {
		fmt.Fprintln(os.Stdout, "no holdings found")
		return nil
	}

	analytics := portfolio.Compute(holdings, data, rate)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "Total Value (%s)\t%s\n", currency, analytics.TotalValue.StringFixed(2))
	fmt.Fprintf(writer, "Cost Basis (%s)\t%s\n", currency, analytics.TotalBasis.StringFixed(2))
	fmt.Fprintf(writer, "Total Return (%s)\t%s\n", currency, analytics.TotalReturn.StringFixed(2))
	fmt.Fprintf(writer, "Return %%\t%s\n", analytics.ReturnPercentage.StringFixed(2))
	fmt.Fprintf(writer, "Daily Change %%\t%s\n", analytics.DailyChange.StringFixed(2))
	fmt.Fprintf(writer, "Coins\t%d\n", analytics.CoinCount)
	fmt.Fprintf(writer, "Risk Score\t%d/100\n", analytics.RiskScore)
	if analytics.BestPerformer != nil {
		fmt.Fprintf(writer, "Best Performer\t%s (%s%%)\n", analytics.BestPerformer.Coin, analytics.BestPerformer.ReturnPct.StringFixed(2))
	}
	if analytics.WorstPerformer != nil {
		fmt.Fprintf(writer, "Worst Performer\t%s (%s%%)\n", analytics.WorstPerformer.Coin, analytics.WorstPerformer.ReturnPct.StringFixed(2))
	}
	writer.Flush()

	if len(analytics.Diversification) > 0 {
		fmt.Fprintln(os.Stdout)
		writer = tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(writer, "Coin\tValue\tAllocation %")
		for _, entry := range analytics.Diversification {
			fmt.Fprintf(writer, "%s\t%s\t%s\n", entry.Coin, entry.Value.StringFixed(2), entry.Percentage.StringFixed(2))
		}
		writer.Flush()
	}

	return nil
}

// snapshot loads holdings and fetches the market data needed to price them.
// The returned cleanup is always safe to defer.
func (a *App) snapshot(ctx context.Context) (portfolio.Holdings, market.Data, decimal.Decimal, string, func(), error) {
	backend, closeBackend, err := a.openBackend(ctx)
	if err != nil {
		return nil, nil, decimal.Decimal{}, "", func() {}, err
	}
	cleanup := func() {}
	if closeBackend != nil {
		cleanup = closeBackend
	}

	_, portfolioStore := a.newStores(backend)
	holdings := portfolioStore.Holdings(ctx)
	currency := portfolioStore.Preferences(ctx).Currency

	client := a.newFetcher()

	rate, err := client.FetchRate(ctx, currency)
	if err != nil {
		a.Logger.Warn().Err(err).Str("currency", currency).Msg("fx rate unavailable; falling back to USD")
		rate = decimal.NewFromInt(1)
		currency = "USD"
	}

	coins := make([]string, 0, len(holdings))
	for coin := range holdings {
		coins = append(coins, coin)
	}
	sort.Strings(coins)

	data := market.Data{}
	if len(coins) > 0 {
		fetched, err := client.FetchTickers(ctx, coins)
		if err != nil {
			cleanup()
			return nil, nil, decimal.Decimal{}, "", func() {}, err
		}
		data = fetched
	}

	return holdings, data, rate, currency, cleanup, nil
}
