// Package config loads application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"asset_dashboard/internal/feature/prices/domain/entity"
)

// defaultAssets is the built-in watch list, used when ASSETS_FILE is not set.
// The registry is plain configuration handed to the handlers and usecases at
// startup; nothing mutates it afterwards.
var defaultAssets = []entity.Asset{
	{Name: "IREN", Ticker: "IREN", Class: entity.ClassUSD},
	{Name: "Rocket Lab", Ticker: "RKLB", Class: entity.ClassUSD},
	{Name: "Bitcoin", Ticker: "BTC-USD", Class: entity.ClassUSD},
	{Name: "Ethereum", Ticker: "ETH-USD", Class: entity.ClassUSD},
	{Name: "USD/KRW", Ticker: "KRW=X", Class: entity.ClassKRW},
	{Name: "Gold", Ticker: "GC=F", Class: entity.ClassUSD},
	{Name: "Silver", Ticker: "SI=F", Class: entity.ClassUSD},
	{Name: "Copper", Ticker: "HG=F", Class: entity.ClassUSD},
	{Name: "NASDAQ Composite", Ticker: "^IXIC", Class: entity.ClassIndex},
	{Name: "S&P 500", Ticker: "^GSPC", Class: entity.ClassIndex},
}

// LoadAssets returns the asset registry. When ASSETS_FILE points at a JSON
// file containing [{"name": ..., "ticker": ..., "class": ...}, ...] that list
// replaces the built-in one.
func LoadAssets() ([]entity.Asset, error) {
	path := os.Getenv("ASSETS_FILE")
	if path == "" {
		return defaultAssets, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read assets file: %w", err)
	}
	var assets []entity.Asset
	if err := json.Unmarshal(b, &assets); err != nil {
		return nil, fmt.Errorf("parse assets file: %w", err)
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("assets file %s is empty", path)
	}
	for i, a := range assets {
		if a.Name == "" || a.Ticker == "" {
			return nil, fmt.Errorf("assets file %s: entry %d is missing name or ticker", path, i)
		}
	}
	return assets, nil
}
