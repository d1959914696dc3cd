package cli

import (
	"github.com/spf13/cobra"

	"portfolio-alerts/internal/app"
)

var (
	simulateCoin  string
	simulatePrice float64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "模拟一次价格快照并执行告警评估",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.SimulateOptions{
			Coin:  simulateCoin,
			Price: simulatePrice,
		}
		return getApp().Simulate(cmd.Context(), opts)
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulateCoin, "coin", "", "Coin ticker symbol")
	simulateCmd.Flags().Float64Var(&simulatePrice, "price", 0, "Simulated USD price")
}
