package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"asset_dashboard/internal/feature/prices/adapters/yahoo/dto"
	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

// YahooMarket はYahoo Financeチャートエンドポイントから日次終値を取得する
// MarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *http.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定された設定とHTTPクライアントでYahooMarketの新しいインスタンスを生成します。
func NewYahooMarket(cfg Config, client *http.Client) *YahooMarket {
	return &YahooMarket{cfg: cfg, client: client}
}

// GetDailyCloses は [start, endExclusive) に観測された取引日の終値を返します。
// 範囲内に取引日が無い場合は空スライスを返します。ネットワーク障害・銘柄不明
// はエラーとして返し、呼び出し側がアセット単位でスキップします。
func (y *YahooMarket) GetDailyCloses(ctx context.Context, ticker string, start, endExclusive time.Time) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("interval", "1d")
	q.Set("period1", strconv.FormatInt(start.Unix(), 10))
	q.Set("period2", strconv.FormatInt(endExclusive.Unix(), 10))

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", y.cfg.BaseURL, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", y.cfg.UserAgent)

	res, err := y.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body dto.ChartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s (%s)", body.Chart.Error.Description, body.Chart.Error.Code)
	}
	// 休場日のみの範囲では結果が空になるが、これはエラーではない
	if len(body.Chart.Result) == 0 {
		return []entity.PricePoint{}, nil
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []entity.PricePoint{}, nil
	}
	quote := result.Indicators.Quote[0]

	points := make([]entity.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue // null bars (holidays etc.)
		}
		points = append(points, entity.PricePoint{
			Ticker: ticker,
			Date:   entity.Day(time.Unix(ts, 0)),
			Close:  *quote.Close[i],
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}
