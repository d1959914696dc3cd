package cli

import (
	"github.com/spf13/cobra"
)

var (
	holdingCoin      string
	holdingHodl      float64
	holdingCostBasis float64
)

var holdingsCmd = &cobra.Command{
	Use:   "holdings",
	Short: "Manage portfolio positions",
}

var holdingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a position",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SetHolding(cmd.Context(), holdingCoin, holdingHodl, holdingCostBasis)
	},
}

var holdingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all positions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ListHoldings(cmd.Context())
	},
}

var holdingsRemoveCmd = &cobra.Command{
	Use:   "rm <coin>",
	Short: "Delete a position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().RemoveHolding(cmd.Context(), args[0])
	},
}

var currencyCmd = &cobra.Command{
	Use:   "currency <code>",
	Short: "Set the display currency preference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().SetCurrency(cmd.Context(), args[0])
	},
}

func init() {
	holdingsSetCmd.Flags().StringVar(&holdingCoin, "coin", "", "Coin ticker symbol (e.g. btc)")
	holdingsSetCmd.Flags().Float64Var(&holdingHodl, "hodl", 0, "Quantity held")
	holdingsSetCmd.Flags().Float64Var(&holdingCostBasis, "cost-basis", 0, "Average cost basis price in USD")

	holdingsCmd.AddCommand(holdingsSetCmd)
	holdingsCmd.AddCommand(holdingsListCmd)
	holdingsCmd.AddCommand(holdingsRemoveCmd)
}
