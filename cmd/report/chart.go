package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"asset_dashboard/internal/feature/prices/usecase"
)

// writeCharts renders one PNG line chart per asset into dir and returns the
// number written. Assets with fewer than two points are skipped.
func writeCharts(dir string, results []usecase.AssetResult) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, err
	}

	written := 0
	for _, r := range results {
		if !r.OK() || len(r.Series.Points) < 2 {
			continue
		}

		xValues := make([]time.Time, len(r.Series.Points))
		yValues := make([]float64, len(r.Series.Points))
		for i, p := range r.Series.Points {
			xValues[i] = p.Date
			yValues[i] = p.Close
		}

		color := drawing.ColorFromHex("16a34a") // green-600
		if r.Series.ChangePct != nil && *r.Series.ChangePct < 0 {
			color = drawing.ColorFromHex("dc2626") // red-600
		}

		graph := chart.Chart{
			Title:  fmt.Sprintf("%s (%s)", r.Asset.Name, r.Asset.Ticker),
			Width:  900,
			Height: 400,
			Background: chart.Style{
				Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
			},
			XAxis: chart.XAxis{
				TickPosition: chart.TickPositionBetweenTicks,
				ValueFormatter: func(v interface{}) string {
					if t, ok := v.(float64); ok {
						return chart.TimeFromFloat64(t).Format("Jan 2")
					}
					return ""
				},
			},
			Series: []chart.Series{
				chart.TimeSeries{
					Name:    r.Asset.Ticker,
					Style:   chart.Style{StrokeColor: color, StrokeWidth: 2},
					XValues: xValues,
					YValues: yValues,
				},
			},
		}

		path := filepath.Join(dir, chartFileName(r.Asset.Ticker))
		f, err := os.Create(path)
		if err != nil {
			return written, err
		}
		if err := graph.Render(chart.PNG, f); err != nil {
			f.Close()
			return written, fmt.Errorf("render %s: %w", r.Asset.Ticker, err)
		}
		if err := f.Close(); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// chartFileName makes the ticker filesystem-safe: "KRW=X" -> "KRW_X.png".
func chartFileName(ticker string) string {
	repl := strings.NewReplacer("=", "_", "^", "", "/", "_")
	return repl.Replace(ticker) + ".png"
}
