package cli

import (
	"github.com/spf13/cobra"
)

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Display portfolio analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Analytics(cmd.Context())
	},
}
