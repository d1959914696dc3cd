package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	alertCoin     string
	alertType     string
	alertTarget   float64
	alertCurrency string
)

var alertCmd = &cobra.Command{
	Use:   "alert",
	Short: "Manage price alerts",
}

var alertAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a new price alert",
	RunE: func(cmd *cobra.Command, args []string) error {
		if alertCoin == "" {
			return fmt.Errorf("--coin is required")
		}
		if alertTarget <= 0 {
			return fmt.Errorf("--target must be greater than zero")
		}
		return getApp().AddAlert(cmd.Context(), alertCoin, alertType, alertTarget, alertCurrency)
	},
}

var alertListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display all persisted alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().ListAlerts(cmd.Context())
	},
}

var alertDismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss an active or triggered alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().DismissAlert(cmd.Context(), args[0])
	},
}

var alertRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an alert entirely",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().RemoveAlert(cmd.Context(), args[0])
	},
}

func init() {
	alertAddCmd.Flags().StringVar(&alertCoin, "coin", "", "Coin ticker symbol (e.g. btc)")
	alertAddCmd.Flags().StringVar(&alertType, "type", "above", "Trigger direction: above or below")
	alertAddCmd.Flags().Float64Var(&alertTarget, "target", 0, "Target price")
	alertAddCmd.Flags().StringVar(&alertCurrency, "currency", "USD", "Target price currency")

	alertCmd.AddCommand(alertAddCmd)
	alertCmd.AddCommand(alertListCmd)
	alertCmd.AddCommand(alertDismissCmd)
	alertCmd.AddCommand(alertRemoveCmd)
}
