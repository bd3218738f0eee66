package main

import (
	"strings"
	"testing"
	"time"

	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

func testDay(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestFormatClose(t *testing.T) {
	tests := []struct {
		class    string
		value    float64
		expected string
	}{
		{entity.ClassUSD, 1234.5, "$1,234.50"},
		{entity.ClassUSD, 9.8, "$9.80"},
		{entity.ClassKRW, 1391.25, "1391.25"},
		{entity.ClassIndex, 17042.3, "17,042"},
		{"", 0.5, "$0.50"},
	}
	for _, tt := range tests {
		if got := formatClose(tt.class, tt.value); got != tt.expected {
			t.Errorf("formatClose(%q, %v) = %q, want %q", tt.class, tt.value, got, tt.expected)
		}
	}
}

func TestFormatChange(t *testing.T) {
	if got := formatChange(nil); got != "n/a" {
		t.Errorf("formatChange(nil) = %q", got)
	}
	up, down := 2.5, -2.0
	if got := formatChange(&up); got != "+2.50%" {
		t.Errorf("formatChange(+2.5) = %q", got)
	}
	if got := formatChange(&down); got != "-2.00%" {
		t.Errorf("formatChange(-2.0) = %q", got)
	}
}

func TestPrintTable(t *testing.T) {
	pct := -2.0
	results := []usecase.AssetResult{
		{
			Asset: entity.Asset{Name: "X Corp", Ticker: "X", Class: entity.ClassUSD},
			Series: entity.AssetSeries{
				Name:   "X Corp",
				Ticker: "X",
				Points: []entity.PricePoint{
					{Date: testDay(2), Close: 10.0},
					{Date: testDay(3), Close: 10.5},
					{Date: testDay(5), Close: 9.8},
				},
				Current:   9.8,
				ChangePct: &pct,
			},
		},
		{
			// 短いシリーズは右寄せでパディングされる
			Asset: entity.Asset{Name: "Short", Ticker: "S", Class: entity.ClassUSD},
			Series: entity.AssetSeries{
				Name:    "Short",
				Ticker:  "S",
				Points:  []entity.PricePoint{{Date: testDay(5), Close: 1.0}},
				Current: 1.0,
			},
		},
		{
			Asset: entity.Asset{Name: "Broken", Ticker: "B"},
			Err:   usecase.ErrUpstreamUnavailable,
		},
	}

	var sb strings.Builder
	printTable(&sb, results)
	out := sb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")

	if len(lines) != 5 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != "| Asset | D-2 | D-1 | D-0 | Current | Change |" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[2] != "| X Corp (X) | $10.00 | $10.50 | $9.80 | $9.80 | -2.00% |" {
		t.Errorf("row = %q", lines[2])
	}
	if lines[3] != "| Short (S) | - | - | $1.00 | $1.00 | n/a |" {
		t.Errorf("short row = %q", lines[3])
	}
	if lines[4] != "| Broken (B) | - | - | - | n/a | n/a |" {
		t.Errorf("failed row = %q", lines[4])
	}
}

func TestPrintTable_NoData(t *testing.T) {
	var sb strings.Builder
	printTable(&sb, []usecase.AssetResult{
		{Asset: entity.Asset{Name: "Broken", Ticker: "B"}, Err: usecase.ErrUpstreamUnavailable},
	})
	if !strings.Contains(sb.String(), "no data") {
		t.Errorf("output = %q", sb.String())
	}
}
