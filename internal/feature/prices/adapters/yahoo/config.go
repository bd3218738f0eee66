// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

import (
	"os"
	"time"
)

// Config holds configuration for the Yahoo Finance chart API client.
type Config struct {
	BaseURL   string        // Base URL for the API (e.g., "https://query1.finance.yahoo.com")
	UserAgent string        // User-Agent header; the chart API rejects empty agents
	Timeout   time.Duration // HTTP request timeout
}

// LoadConfig loads Yahoo client configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("YAHOO_BASE_URL")
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	return Config{
		BaseURL:   base,
		UserAgent: "Mozilla/5.0",
		Timeout:   20 * time.Second,
	}
}
