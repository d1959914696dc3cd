package cli

import (
	"github.com/spf13/cobra"

	"portfolio-alerts/internal/app"
)

var (
	exportPNGPath   string
	exportCSVPath   string
	exportDays      int
	exportSeed      int64
	exportMaxPoints int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export portfolio history as CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.ExportOptions{
			PNGPath:   exportPNGPath,
			CSVPath:   exportCSVPath,
			Days:      exportDays,
			Seed:      exportSeed,
			MaxPoints: exportMaxPoints,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().IntVar(&exportDays, "days", 0, "Days of history to synthesize (defaults to config)")
	exportCmd.Flags().Int64Var(&exportSeed, "seed", 0, "Random seed for reproducible synthetic history")
	exportCmd.Flags().IntVar(&exportMaxPoints, "max-points", 0, "Maximum data points to export (defaults to config)")
}
