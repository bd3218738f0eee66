// Package entity defines the domain models for the prices feature.
package entity

import "time"

// DateLayout is the canonical calendar-date format used throughout the
// prices feature, in storage keys and in the wire payload.
const DateLayout = "2006-01-02"

// PricePoint is a single daily closing-price observation for a ticker.
// At most one point exists per (ticker, date); a later write for the same
// key replaces Close and RecordedAt.
type PricePoint struct {
	Ticker     string    // upstream symbol (e.g. "BTC-USD", "^GSPC")
	Date       time.Time // calendar date, midnight UTC
	Close      float64   // closing price
	RecordedAt time.Time // time of the last write
}

// Day truncates t to its calendar date at midnight UTC so it can be used
// as a (ticker, date) key.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CacheExtent is the minimum and maximum cached date for a ticker. It is
// derived from storage and never persisted. The extent is NOT assumed to be
// contiguous: weekends and market holidays legitimately never appear and
// are not gaps.
type CacheExtent struct {
	Min time.Time
	Max time.Time
}

// TickerStats summarizes the cached rows for one ticker.
type TickerStats struct {
	Ticker string `json:"ticker"`
	Rows   int64  `json:"rows"`
	Min    string `json:"min_date"`
	Max    string `json:"max_date"`
}
