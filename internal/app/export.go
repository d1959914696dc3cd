package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"portfolio-alerts/internal/indicators"
)

// historyRow is one exported day of synthesized portfolio history.
type historyRow struct {
	Time  time.Time
	Value float64
	SMA7  float64 // 0 until enough history exists
	SMA30 float64
	RSI   float64 // 0 until enough history exists; neutral default not applied here
}

// Export renders synthesized portfolio history as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	opts.MaxPoints = a.Config.ResolveMaxPoints(opts.MaxPoints)

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
		a.Logger.Info().Msg("no priced holdings; nothing to export")
		return nil
	}

	rows := buildRows(series, a.Config.Indicators.RSIPeriod, time.Now().UTC())
	rows = downsampleRows(rows, opts.MaxPoints)
	a.Logger.Info().Int("days", len(series)).Int("exported", len(rows)).Msg("exporting portfolio history")

	if opts.CSVPath != "" {
		if err := writeHistoryCSV(opts.CSVPath, rows); err != nil {
			return err
		}
	}

	if opts.PNGPath != "" {
		if err := writeHistoryPNG(opts.PNGPath, rows); err != nil {
			return err
		}
	}

	return nil
}

func buildRows(series []float64, rsiPeriod int, now time.Time) []historyRow {
	day := 24 * time.Hour
	rows := make([]historyRow, len(series))
	for i := range series {
		rows[i] = historyRow{
			Time:  now.Add(-time.Duration(len(series)-1-i) * day),
			Value: series[i],
			SMA7:  indicators.SMA(series[:i+1], 7),
			SMA30: indicators.SMA(series[:i+1], 30),
		}
		if i+1 >= rsiPeriod+1 {
			rows[i].RSI = indicators.RSI(series[:i+1], rsiPeriod)
		}
	}
	return rows
}

func downsampleRows(rows []historyRow, max int) []historyRow {
	if max <= 0 || len(rows) <= max {
		return rows
	}

	result := make([]historyRow, 0, max)
	step := float64(len(rows)-1) / float64(max-1)
	for i := 0; i < max; i++ {
		idx := int(math.Round(step * float64(i)))
		if idx >= len(rows) {
			idx = len(rows) - 1
		}
		result = append(result, rows[idx])
	}
	return result
}

func writeHistoryCSV(path string, rows []historyRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{"date", "portfolio_value", "sma7", "sma30", "rsi"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Time.Format(time.RFC3339),
			fmt.Sprintf("%.2f", row.Value),
			formatOptional(row.SMA7),
			formatOptional(row.SMA30),
			formatOptional(row.RSI),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func formatOptional(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

func writeHistoryPNG(path string, rows []historyRow) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	x := make([]time.Time, len(rows))
	values := make([]float64, len(rows))
	for i, row := range rows {
		x[i] = row.Time
		values[i] = row.Value
	}

	series := []chart.Series{
		chart.TimeSeries{Name: "Portfolio", XValues: x, YValues: values},
	}

	if sx, sy := overlayPoints(rows, func(r historyRow) float64 { return r.SMA7 }); len(sx) > 1 {
		series = append(series, chart.TimeSeries{Name: "SMA 7", XValues: sx, YValues: sy})
	}
	if sx, sy := overlayPoints(rows, func(r historyRow) float64 { return r.SMA30 }); len(sx) > 1 {
		series = append(series, chart.TimeSeries{Name: "SMA 30", XValues: sx, YValues: sy})
	}
	if rx, ry := overlayPoints(rows, func(r historyRow) float64 { return r.RSI }); len(rx) > 1 {
		series = append(series, chart.TimeSeries{Name: "RSI", XValues: rx, YValues: ry, YAxis: chart.YAxisSecondary})
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.2f")
	}
	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name:           "Portfolio Value",
			ValueFormatter: valueFormatter,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "RSI",
			ValueFormatter: valueFormatter,
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// overlayPoints collects the defined (non-zero) sub-range of an indicator.
func overlayPoints(rows []historyRow, pick func(historyRow) float64) ([]time.Time, []float64) {
	x := make([]time.Time, 0, len(rows))
	y := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := pick(row)
		if v == 0 {
			continue
		}
		x = append(x, row.Time)
		y = append(y, v)
	}
	return x, y
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
