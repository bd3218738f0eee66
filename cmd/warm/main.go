// Command warm pre-fetches the full asset registry into the price cache.
// Intended for cron or container init, so the first dashboard request is warm.
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"asset_dashboard/internal/app/config"
	pricesadapters "asset_dashboard/internal/feature/prices/adapters"
	"asset_dashboard/internal/feature/prices/adapters/yahoo"
	pricesusecase "asset_dashboard/internal/feature/prices/usecase"
	"asset_dashboard/internal/platform/db"
	"asset_dashboard/internal/shared/ratelimiter"
)

func main() {
	period := flag.String("period", "1mo", "period tag to warm (7d, 1mo, 3mo, 6mo, 1y)")
	timeout := flag.Duration("timeout", 5*time.Minute, "overall deadline for the warm run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	gormDB, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	assets, err := config.LoadAssets()
	if err != nil {
		slog.Error("failed to load asset registry", "error", err)
		os.Exit(1)
	}

	market := yahoo.NewYahooMarket(yahoo.LoadConfig(), &http.Client{Timeout: 30 * time.Second})
	series := pricesusecase.NewSeriesUsecase(
		pricesadapters.NewPriceRepository(gormDB),
		market,
		ratelimiter.New(5, time.Second),
	)

	window, err := pricesusecase.ResolveWindow(*period, "", "", time.Now())
	if err != nil {
		slog.Error("resolve window", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := series.RefreshAll(ctx, assets, window)
	if err != nil {
		slog.Error("warm failed", "error", err)
		os.Exit(1)
	}

	warmed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			slog.Warn("asset warm failed", "ticker", r.Asset.Ticker, "error", r.Err)
			failed++
			continue
		}
		warmed++
	}
	slog.Info("warm finished", "period", *period, "warmed", warmed, "failed", failed)
	if failed > 0 && warmed == 0 {
		os.Exit(1)
	}
}
