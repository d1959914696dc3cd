package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"text/tabwriter"

	"portfolio-alerts/internal/indicators"
)

// Indicators synthesizes portfolio history and prints the indicator summary
// with interpretations.
func (a *App) Indicators(ctx context.Context, opts IndicatorOptions) error {
	holdings, data, rate, _, cleanup, err := a.snapshot(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	days := opts.Days
	if days <= 0 {
		days = a.Config.Indicators.HistoryDays
	}

	var rng *rand.Rand
	if opts.Seed != 0 {
		rng = rand.New(rand.NewSource(opts.Seed))
	}

	series := indicators.PortfolioHistory(holdings, data, rate, days, rng)
	if len(series) == 0 {
		fmt.Fprintln(os.Stdout, "no priced holdings; nothing to analyse")
		return nil
	}

	summary := indicators.Compute(series)
	rsiReading := indicators.InterpretRSI(summary.RSI)
	trendReading := indicators.InterpretTrend(summary.Trend)

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "SMA 7\t%.2f\n", summary.SMA7)
	fmt.Fprintf(writer, "SMA 30\t%.2f\n", summary.SMA30)
	fmt.Fprintf(writer, "EMA 7\t%.2f\n", summary.EMA7)
	fmt.Fprintf(writer, "EMA 30\t%.2f\n", summary.EMA30)
	fmt.Fprintf(writer, "RSI (%d)\t%.2f\t%s %s — %s\n", indicators.DefaultRSIPeriod, summary.RSI, rsiReading.Icon, rsiReading.Status, rsiReading.Signal)
	fmt.Fprintf(writer, "Trend\t%s\t%s %s — %s\n", summary.Trend, trendReading.Icon, trendReading.Status, trendReading.Signal)
	writer.Flush()

	return nil
}
