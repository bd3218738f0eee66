package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

// printTable writes a markdown table with one row per asset. Columns are the
// trailing closes labelled D-n..D-0, right-aligned so every row's D-0 is its
// most recent close even when series lengths differ.
func printTable(w io.Writer, results []usecase.AssetResult) {
	width := 0
	for _, r := range results {
		if r.OK() && len(r.Series.Points) > width {
			width = len(r.Series.Points)
		}
	}
	if width == 0 {
		fmt.Fprintln(w, "no data")
		return
	}

	header := []string{"Asset"}
	for i := width - 1; i >= 0; i-- {
		header = append(header, fmt.Sprintf("D-%d", i))
	}
	header = append(header, "Current", "Change")
	fmt.Fprintln(w, "| "+strings.Join(header, " | ")+" |")

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintln(w, "| "+strings.Join(sep, " | ")+" |")

	for _, r := range results {
		row := []string{fmt.Sprintf("%s (%s)", r.Asset.Name, r.Asset.Ticker)}
		if !r.OK() {
			for i := 0; i < width; i++ {
				row = append(row, "-")
			}
			row = append(row, "n/a", "n/a")
			fmt.Fprintln(w, "| "+strings.Join(row, " | ")+" |")
			continue
		}
		points := r.Series.Points
		for i := 0; i < width-len(points); i++ {
			row = append(row, "-")
		}
		for _, p := range points {
			row = append(row, formatClose(r.Asset.Class, p.Close))
		}
		row = append(row, formatClose(r.Asset.Class, r.Series.Current), formatChange(r.Series.ChangePct))
		fmt.Fprintln(w, "| "+strings.Join(row, " | ")+" |")
	}
}

func formatClose(class string, v float64) string {
	switch class {
	case entity.ClassIndex:
		return humanize(v, 0)
	case entity.ClassKRW:
		return strconv.FormatFloat(v, 'f', 2, 64)
	default:
		return "$" + humanize(v, 2)
	}
}

func formatChange(pct *float64) string {
	if pct == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *pct)
}

// humanize formats with thousands separators, e.g. 17042.3 -> "17,042.30".
func humanize(v float64, decimals int) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	intPart, fracPart, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(intPart, "-")
	if neg {
		intPart = intPart[1:]
	}
	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}

func printStats(w io.Writer, stats []entity.TickerStats) {
	fmt.Fprintln(w, "| Ticker | Rows | From | To |")
	fmt.Fprintln(w, "| --- | --- | --- | --- |")
	for _, s := range stats {
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n", s.Ticker, s.Rows, s.Min, s.Max)
	}
}

// writeCSV dumps every series row as asset,ticker,date,close.
func writeCSV(path string, results []usecase.AssetResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"asset", "ticker", "date", "close"}); err != nil {
		return err
	}
	for _, r := range results {
		if !r.OK() {
			continue
		}
		for _, p := range r.Series.Points {
			rec := []string{
				r.Asset.Name,
				r.Asset.Ticker,
				p.Date.Format(entity.DateLayout),
				strconv.FormatFloat(p.Close, 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
