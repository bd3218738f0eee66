package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"asset_dashboard/internal/app/config"
	"asset_dashboard/internal/app/router"
	authadapters "asset_dashboard/internal/feature/auth/adapters"
	authhandler "asset_dashboard/internal/feature/auth/transport/handler"
	authusecase "asset_dashboard/internal/feature/auth/usecase"
	pricesadapters "asset_dashboard/internal/feature/prices/adapters"
	"asset_dashboard/internal/feature/prices/adapters/yahoo"
	priceshandler "asset_dashboard/internal/feature/prices/transport/handler"
	pricesusecase "asset_dashboard/internal/feature/prices/usecase"
	"asset_dashboard/internal/platform/cache"
	"asset_dashboard/internal/platform/db"
	jwtmw "asset_dashboard/internal/platform/jwt"
	"asset_dashboard/internal/platform/redis"
	"asset_dashboard/internal/platform/scheduler"
	"asset_dashboard/internal/shared/ratelimiter"
)

func main() {
	// .envファイルがあれば読み込む（本番環境では環境変数を直接使用）
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	gormDB, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	var prices pricesusecase.PriceRepository = pricesadapters.NewPriceRepository(gormDB)

	// Redisは任意。REDIS_HOST未設定なら素通しでDB直読みになる。
	rdb, err := redis.NewClient()
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if rdb != nil {
		prices = cache.NewCachingPriceRepository(rdb, 0, prices, "")
	}

	market := yahoo.NewYahooMarket(yahoo.LoadConfig(), &http.Client{Timeout: 30 * time.Second})
	limiter := ratelimiter.New(5, time.Second)
	series := pricesusecase.NewSeriesUsecase(prices, market, limiter)

	users := authadapters.NewUserRepository(gormDB)
	generator := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour)
	auth := authusecase.NewAuthUsecase(users, generator)

	assets, err := config.LoadAssets()
	if err != nil {
		slog.Error("failed to load asset registry", "error", err)
		os.Exit(1)
	}

	r := router.New(
		priceshandler.NewPricesHandler(series, assets),
		authhandler.NewAuthHandler(auth),
	)

	// REFRESH_CRON が設定されていればバックグラウンドのウォームを開始する
	if spec := os.Getenv("REFRESH_CRON"); spec != "" {
		warm := func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			window, err := pricesusecase.ResolveWindow("1mo", "", "", time.Now())
			if err != nil {
				slog.Error("scheduled warm window", "error", err)
				return
			}
			if _, err := series.RefreshAll(ctx, assets, window); err != nil {
				slog.Error("scheduled warm failed", "error", err)
			}
		}
		sched, err := scheduler.New(spec, warm)
		if err != nil {
			slog.Error("invalid REFRESH_CRON", "spec", spec, "error", err)
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	port := os.Getenv("WEB_PORT")
	if port == "" {
		port = "8080"
	}
	slog.Info("starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
