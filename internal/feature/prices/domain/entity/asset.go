package entity

// Format classes for an asset. They drive number formatting in the
// presentation layers only; the core never interprets them.
const (
	ClassUSD   = "usd"
	ClassKRW   = "krw"
	ClassIndex = "index"
)

// Asset maps a display name to an upstream ticker symbol. The asset set is
// configuration handed to each call, never process-wide mutable state.
type Asset struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
	Class  string `json:"class,omitempty"`
}

// AssetSeries is the assembled daily-close series for one asset over a
// resolved window, ordered oldest to newest. It is built fresh per request
// and never persisted.
type AssetSeries struct {
	Name      string
	Ticker    string
	Points    []PricePoint
	Current   float64  // last close in the series
	ChangePct *float64 // nil when the series has fewer than 2 points
}
