// Command report prints the asset price table to stdout, matching what the
// dashboard shows, with optional CSV and PNG chart export.
package main

import (
	"context"
	"flag"
	"fmt"
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
	period := flag.String("period", "", "period tag (7d, 1mo, 3mo, 6mo, 1y)")
	start := flag.String("start", "", "range start YYYY-MM-DD (with -end)")
	end := flag.String("end", "", "range end YYYY-MM-DD (with -start)")
	tradingDays := flag.Int("trading-days", 0, "last N trading days instead of a calendar range")
	refresh := flag.Bool("refresh", false, "force refetch of the whole window")
	stale := flag.Bool("stale", false, "cache only, no upstream calls")
	dbStats := flag.Bool("db-stats", false, "print per-ticker cache summary and exit")
	chartsDir := flag.String("charts", "", "write one PNG per asset into this directory")
	csvPath := flag.String("csv", "", "write all series rows to this CSV file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, using environment variables")
	}

	gormDB, err := db.Open()
	if err != nil {
		fatal("open database", err)
	}

	market := yahoo.NewYahooMarket(yahoo.LoadConfig(), &http.Client{Timeout: 30 * time.Second})
	series := pricesusecase.NewSeriesUsecase(
		pricesadapters.NewPriceRepository(gormDB),
		market,
		ratelimiter.New(5, time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if *dbStats {
		stats, err := series.Stats(ctx)
		if err != nil {
			fatal("read db stats", err)
		}
		printStats(os.Stdout, stats)
		return
	}

	assets, err := config.LoadAssets()
	if err != nil {
		fatal("load asset registry", err)
	}

	var window pricesusecase.RequestWindow
	if *tradingDays > 0 {
		window = pricesusecase.TradingDayWindow(*tradingDays)
	} else {
		window, err = pricesusecase.ResolveWindow(*period, *start, *end, time.Now())
		if err != nil {
			fatal("resolve window", err)
		}
	}

	policy := pricesusecase.PolicyFromFlags(*refresh, *stale)
	results, err := series.FetchSeries(ctx, assets, window, policy)
	if err != nil {
		fatal("fetch series", err)
	}

	printTable(os.Stdout, results)

	if *csvPath != "" {
		if err := writeCSV(*csvPath, results); err != nil {
			fatal("write csv", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", *csvPath)
	}
	if *chartsDir != "" {
		n, err := writeCharts(*chartsDir, results)
		if err != nil {
			fatal("write charts", err)
		}
		fmt.Fprintf(os.Stderr, "wrote %d charts to %s\n", n, *chartsDir)
	}
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "report: %s: %v\n", msg, err)
	os.Exit(1)
}
