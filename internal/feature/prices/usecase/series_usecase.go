package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/shared/ratelimiter"
)

// ErrUpstreamUnavailable は上流プロバイダーの呼び出しが失敗したことを示します。
// この失敗は当該アセットをスキップすることでローカルに回復され、他のアセット
// の処理には影響しません。
var ErrUpstreamUnavailable = errors.New("upstream unavailable")

// maxWarmConcurrency bounds the number of assets refreshed in parallel by
// RefreshAll. Each asset touches only its own store keys, so the limit exists
// to pace upstream calls, not to protect shared state.
const maxWarmConcurrency = 4

// minTradingLookbackDays は取引日数モードで上流から取得する末尾暦日幅の下限です。
// 取引日数は週末・休日のため暦日幅に事前変換できないので、暦日のスーパーセット
// を多めに取得し、件数の充足はストアの再読込で判定します。
const minTradingLookbackDays = 30

// PriceRepository は価格キャッシュの永続化層を抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceRepository interface {
	// UpsertBatch は (ticker, date) をキーに一括で挿入または置換します。空入力はno-opです。
	UpsertBatch(ctx context.Context, points []entity.PricePoint) error
	// FindRange は [start, end]（両端を含む）の行を日付昇順で返します。
	FindRange(ctx context.Context, ticker string, start, end time.Time) ([]entity.PricePoint, error)
	// FindLastN は直近n件の行を日付昇順で返します（n件未満なら存在する分だけ）。
	FindLastN(ctx context.Context, ticker string, n int) ([]entity.PricePoint, error)
	// Extent はキャッシュ済み日付の最小・最大を返します。行が無ければ nil を返します。
	Extent(ctx context.Context, ticker string) (*entity.CacheExtent, error)
	// Stats はティッカーごとのキャッシュ行数の要約を返します。
	Stats(ctx context.Context) ([]entity.TickerStats, error)
}

// MarketRepository は上流の日次終値データソースを抽象化します。
// 外部 API の実装を抽象化します。
type MarketRepository interface {
	// GetDailyCloses は [start, endExclusive) に観測された取引日の終値を返します。
	// 範囲内に取引日が無い場合は空スライスを返し、エラーにはしません。
	GetDailyCloses(ctx context.Context, ticker string, start, endExclusive time.Time) ([]entity.PricePoint, error)
}

// AssetResult is the per-asset outcome of a batch request. A failed upstream
// fetch is recorded here instead of escaping as an error, so sibling assets
// keep processing.
type AssetResult struct {
	Asset  entity.Asset
	Series entity.AssetSeries
	Err    error
}

// OK reports whether the result carries a non-empty series.
func (r AssetResult) OK() bool {
	return r.Err == nil && len(r.Series.Points) > 0
}

// seriesUsecase は範囲解決・ギャップ照合・上流取得・キャッシュ統合を
// アセット単位で編成します。
type seriesUsecase struct {
	prices  PriceRepository
	market  MarketRepository
	limiter ratelimiter.RateLimiterInterface
	now     func() time.Time
}

// NewSeriesUsecase はseriesUsecaseの新しいインスタンスを生成します。
func NewSeriesUsecase(prices PriceRepository, market MarketRepository, limiter ratelimiter.RateLimiterInterface) *seriesUsecase {
	return &seriesUsecase{
		prices:  prices,
		market:  market,
		limiter: limiter,
		now:     time.Now,
	}
}

// FetchSeries は要求されたアセットを入力順に逐次処理し、アセットごとの結果を
// 同じ順序で返します。上流エラーは該当アセットの結果に記録して処理を続行し、
// ストレージエラーは全アセットの照合を無効にするため即座に致命エラーとして
// 返します。
func (su *seriesUsecase) FetchSeries(ctx context.Context, assets []entity.Asset, window RequestWindow, policy RefreshPolicy) ([]AssetResult, error) {
	results := make([]AssetResult, 0, len(assets))
	for _, a := range assets {
		series, err := su.fetchOne(ctx, a, window, policy)
		if err != nil {
			if errors.Is(err, ErrUpstreamUnavailable) {
				slog.Warn("asset skipped", "name", a.Name, "ticker", a.Ticker, "error", err)
				results = append(results, AssetResult{Asset: a, Err: err})
				continue
			}
			return nil, fmt.Errorf("price store, ticker %s: %w", a.Ticker, err)
		}
		results = append(results, AssetResult{Asset: a, Series: series})
	}
	return results, nil
}

// RefreshAll force-refreshes every asset with a bounded level of concurrency
// and returns the results in input order regardless of completion order.
// Used by the cache warmer and the scheduled refresh.
func (su *seriesUsecase) RefreshAll(ctx context.Context, assets []entity.Asset, window RequestWindow) ([]AssetResult, error) {
	results := make([]AssetResult, len(assets))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWarmConcurrency)
	for i, a := range assets {
		g.Go(func() error {
			series, err := su.fetchOne(ctx, a, window, PolicyForceRefresh)
			if err != nil {
				if errors.Is(err, ErrUpstreamUnavailable) {
					slog.Warn("asset skipped", "name", a.Name, "ticker", a.Ticker, "error", err)
					results[i] = AssetResult{Asset: a, Err: err}
					return nil
				}
				return fmt.Errorf("price store, ticker %s: %w", a.Ticker, err)
			}
			results[i] = AssetResult{Asset: a, Series: series}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats はキャッシュDBのティッカーごとの要約を返します。
func (su *seriesUsecase) Stats(ctx context.Context) ([]entity.TickerStats, error) {
	return su.prices.Stats(ctx)
}

func (su *seriesUsecase) fetchOne(ctx context.Context, a entity.Asset, window RequestWindow, policy RefreshPolicy) (entity.AssetSeries, error) {
	if window.ByTradingDays() {
		return su.fetchLastN(ctx, a, window.TradingDays, policy)
	}
	return su.fetchRange(ctx, a, window, policy)
}

// fetchRange handles calendar-window resolution: plan the gaps, fetch them,
// merge into the store, then read the window back from the store as the
// single source of truth.
func (su *seriesUsecase) fetchRange(ctx context.Context, a entity.Asset, window RequestWindow, policy RefreshPolicy) (entity.AssetSeries, error) {
	var extent *entity.CacheExtent
	if policy != PolicyStaleOnly && policy != PolicyForceRefresh {
		var err error
		extent, err = su.prices.Extent(ctx, a.Ticker)
		if err != nil {
			return entity.AssetSeries{}, err
		}
	}

	for _, r := range PlanFetch(window, extent, policy) {
		if err := su.fetchAndStore(ctx, a.Ticker, r.Start, r.End.AddDate(0, 0, 1)); err != nil {
			return entity.AssetSeries{}, err
		}
	}

	rows, err := su.prices.FindRange(ctx, a.Ticker, window.Start, window.End)
	if err != nil {
		return entity.AssetSeries{}, err
	}
	return buildSeries(a, rows), nil
}

// fetchLastN handles last-N-trading-days resolution. When the cached row
// count falls short (or a refresh is forced) it over-fetches a trailing
// calendar superset and lets the re-read decide sufficiency.
func (su *seriesUsecase) fetchLastN(ctx context.Context, a entity.Asset, n int, policy RefreshPolicy) (entity.AssetSeries, error) {
	rows, err := su.prices.FindLastN(ctx, a.Ticker, n)
	if err != nil {
		return entity.AssetSeries{}, err
	}
	if policy == PolicyStaleOnly {
		return buildSeries(a, rows), nil
	}

	if policy == PolicyForceRefresh || len(rows) < n {
		lookback := minTradingLookbackDays
		if 2*n > lookback {
			lookback = 2 * n
		}
		end := entity.Day(su.now()).AddDate(0, 0, 1)
		if err := su.fetchAndStore(ctx, a.Ticker, end.AddDate(0, 0, -lookback), end); err != nil {
			return entity.AssetSeries{}, err
		}
		rows, err = su.prices.FindLastN(ctx, a.Ticker, n)
		if err != nil {
			return entity.AssetSeries{}, err
		}
	}
	return buildSeries(a, rows), nil
}

// fetchAndStore は [start, endExclusive) を上流から取得してストアへ統合します。
// 空の結果はエラーではありません（休場日のみの範囲がありえます）。
func (su *seriesUsecase) fetchAndStore(ctx context.Context, ticker string, start, endExclusive time.Time) error {
	su.limiter.WaitIfNeeded()
	points, err := su.market.GetDailyCloses(ctx, ticker, start, endExclusive)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if len(points) == 0 {
		return nil
	}
	// 取得したデータにティッカーを設定
	for i := range points {
		points[i].Ticker = ticker
	}
	return su.prices.UpsertBatch(ctx, points)
}

func buildSeries(a entity.Asset, rows []entity.PricePoint) entity.AssetSeries {
	s := entity.AssetSeries{Name: a.Name, Ticker: a.Ticker, Points: rows}
	if len(rows) == 0 {
		return s
	}
	s.Current = rows[len(rows)-1].Close
	if len(rows) >= 2 {
		first := rows[0].Close
		pct := (s.Current - first) / first * 100
		s.ChangePct = &pct
	}
	return s
}
