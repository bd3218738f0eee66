// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"asset_dashboard/internal/api"
	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/transport/http/dto"
	"asset_dashboard/internal/feature/prices/usecase"
)

// SeriesUsecase は価格シリーズ取得のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type SeriesUsecase interface {
	FetchSeries(ctx context.Context, assets []entity.Asset, window usecase.RequestWindow, policy usecase.RefreshPolicy) ([]usecase.AssetResult, error)
	RefreshAll(ctx context.Context, assets []entity.Asset, window usecase.RequestWindow) ([]usecase.AssetResult, error)
	Stats(ctx context.Context) ([]entity.TickerStats, error)
}

// PricesHandler は価格シリーズAPIのHTTPリクエストを処理します。
// アセットレジストリは設定として注入され、リクエストごとのフィルタ対象になります。
type PricesHandler struct {
	uc       SeriesUsecase
	registry []entity.Asset
}

// NewPricesHandler は指定されたusecaseとアセットレジストリでPricesHandlerを生成します。
func NewPricesHandler(uc SeriesUsecase, registry []entity.Asset) *PricesHandler {
	return &PricesHandler{uc: uc, registry: registry}
}

// GetPrices は価格シリーズ取得APIエンドポイントを処理します。
//
// エンドポイント例:
// GET /api/prices?period=1mo
// GET /api/prices?start=2024-01-01&end=2024-01-31&assets=IREN,BTC-USD
// GET /api/prices?trading_days=7&stale=true
func (h *PricesHandler) GetPrices(c *gin.Context) {
	period := c.Query("period")
	start := c.Query("start")
	end := c.Query("end")
	tradingDaysStr := c.Query("trading_days")
	refresh := c.Query("refresh") == "true"
	stale := c.Query("stale") == "true"

	slog.Info("prices request",
		"period", period, "start", start, "end", end,
		"assets", c.Query("assets"), "trading_days", tradingDaysStr,
		"refresh", refresh, "stale", stale)

	assets := filterAssets(h.registry, c.Query("assets"))

	var window usecase.RequestWindow
	if n, err := strconv.Atoi(tradingDaysStr); tradingDaysStr != "" && err == nil && n > 0 {
		window = usecase.TradingDayWindow(n)
	} else {
		var err error
		window, err = usecase.ResolveWindow(period, start, end, time.Now())
		if errors.Is(err, usecase.ErrInvalidDate) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
			return
		}
	}

	policy := usecase.PolicyFromFlags(refresh, stale)
	results, err := h.uc.FetchSeries(c.Request.Context(), assets, window, policy)
	if err != nil {
		// ストレージ障害はリクエスト全体の致命エラー
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	explicit := start != "" && end != ""
	c.JSON(http.StatusOK, dto.PricesResponse{
		Assets: dto.BuildAssets(results),
		Meta:   buildMeta(window, period, explicit, stale),
	})
}

// Assets はダッシュボードが参照するアセットレジストリを返します。
func (h *PricesHandler) Assets(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry)
}

// Refresh は全アセットの強制再取得を実行する運用エンドポイントです。
// 期間タグ（デフォルト 1mo）の範囲をウォームします。
func (h *PricesHandler) Refresh(c *gin.Context) {
	period := c.DefaultQuery("period", "1mo")
	window, err := usecase.ResolveWindow(period, "", "", time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	results, err := h.uc.RefreshAll(c.Request.Context(), h.registry, window)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}

	refreshed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		refreshed++
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed, "failed": failed})
}

// DBStats はキャッシュDBのティッカーごとの要約を返す運用エンドポイントです。
func (h *PricesHandler) DBStats(c *gin.Context) {
	stats, err := h.uc.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// filterAssets narrows the registry to the requested comma-separated tickers.
// An empty filter selects the whole registry; input order is preserved.
func filterAssets(registry []entity.Asset, filter string) []entity.Asset {
	if strings.TrimSpace(filter) == "" {
		return registry
	}
	requested := map[string]struct{}{}
	for _, t := range strings.Split(filter, ",") {
		if t = strings.TrimSpace(t); t != "" {
			requested[t] = struct{}{}
		}
	}
	out := make([]entity.Asset, 0, len(registry))
	for _, a := range registry {
		if _, ok := requested[a.Ticker]; ok {
			out = append(out, a)
		}
	}
	return out
}

func buildMeta(window usecase.RequestWindow, period string, explicit, stale bool) dto.Meta {
	m := dto.Meta{Stale: stale, Source: "live"}
	if stale {
		m.Source = "cache"
	}
	if window.ByTradingDays() {
		m.TradingDays = window.TradingDays
		m.RangeLabel = fmt.Sprintf("last %d trading days", window.TradingDays)
		return m
	}
	m.Start = window.Start.Format(entity.DateLayout)
	m.End = window.End.Format(entity.DateLayout)
	if explicit {
		m.RangeLabel = "custom range"
		return m
	}
	m.Period = usecase.NormalizePeriod(period)
	m.RangeLabel = m.Period
	return m
}
