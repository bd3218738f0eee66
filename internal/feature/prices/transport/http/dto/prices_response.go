// Package dto defines the wire payload for the prices API.
package dto

import (
	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

// AssetPayload は1アセット分の時系列レスポンスです。
type AssetPayload struct {
	Name      string    `json:"name"`
	Ticker    string    `json:"ticker"`
	Class     string    `json:"class,omitempty"`
	Dates     []string  `json:"dates"`
	Close     []float64 `json:"close"`
	Current   float64   `json:"current"`
	ChangePct *float64  `json:"change_pct"`
}

// Meta describes how the request window was resolved and where the data
// came from.
type Meta struct {
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	Period      string `json:"period,omitempty"`
	TradingDays int    `json:"trading_days,omitempty"`
	RangeLabel  string `json:"range_label"`
	Stale       bool   `json:"stale"`
	Source      string `json:"source"`
}

// PricesResponse は/api/pricesのレスポンスです。
type PricesResponse struct {
	Assets []AssetPayload `json:"assets"`
	Meta   Meta           `json:"meta"`
}

// BuildAssets shapes per-asset results into the wire payload, preserving
// input order and dropping assets that produced no rows.
func BuildAssets(results []usecase.AssetResult) []AssetPayload {
	out := make([]AssetPayload, 0, len(results))
	for _, r := range results {
		if !r.OK() {
			continue
		}
		dates := make([]string, 0, len(r.Series.Points))
		closes := make([]float64, 0, len(r.Series.Points))
		for _, p := range r.Series.Points {
			dates = append(dates, p.Date.Format(entity.DateLayout))
			closes = append(closes, p.Close)
		}
		out = append(out, AssetPayload{
			Name:      r.Series.Name,
			Ticker:    r.Series.Ticker,
			Class:     r.Asset.Class,
			Dates:     dates,
			Close:     closes,
			Current:   r.Series.Current,
			ChangePct: r.Series.ChangePct,
		})
	}
	return out
}
