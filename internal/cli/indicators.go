package cli

import (
	"github.com/spf13/cobra"

	"portfolio-alerts/internal/app"
)

var (
	indicatorDays int
	indicatorSeed int64
)

var indicatorsCmd = &cobra.Command{
	Use:   "indicators",
	Short: "Display technical indicators for the portfolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.IndicatorOptions{
			Days: indicatorDays,
			Seed: indicatorSeed,
		}
		return getApp().Indicators(cmd.Context(), opts)
	},
}

func init() {
	indicatorsCmd.Flags().IntVar(&indicatorDays, "days", 0, "Days of history to synthesize (defaults to config)")
	indicatorsCmd.Flags().Int64Var(&indicatorSeed, "seed", 0, "Random seed for reproducible synthetic history")
}
