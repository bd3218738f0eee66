// Package usecase は価格シリーズ取得のビジネスロジックを実装します。
package usecase

import (
	"errors"
	"fmt"
	"time"

	"asset_dashboard/internal/feature/prices/domain/entity"
)

// ErrInvalidDate は明示指定された日付文字列がパースできないときに返されます。
// デフォルトにフォールバックするか中断するかは呼び出し側が決めます。
var ErrInvalidDate = errors.New("invalid date")

// DefaultPeriod は期間タグが未指定または未知のときに使われるタグです。
const DefaultPeriod = "7d"

// periodDays maps a period tag to its calendar-day span.
var periodDays = map[string]int{
	"7d":  7,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
}

// RequestWindow は解決済みのクエリ範囲です。Start/End（両端を含む暦日区間）
// または TradingDays（直近N取引日）のどちらか一方だけが有効です。
// 市場は毎日取引されるわけではないため、取引日数は暦日区間に変換されません。
type RequestWindow struct {
	Start       time.Time
	End         time.Time
	TradingDays int
}

// ByTradingDays reports whether the window is a last-N-trading-days request.
func (w RequestWindow) ByTradingDays() bool { return w.TradingDays > 0 }

// ResolveWindow は期間タグまたは明示的な start/end からリクエスト範囲を解決します。
// start と end が両方指定されていれば期間タグより常に優先されます。
func ResolveWindow(period, start, end string, now time.Time) (RequestWindow, error) {
	if start != "" && end != "" {
		s, err := parseDate(start)
		if err != nil {
			return RequestWindow{}, err
		}
		e, err := parseDate(end)
		if err != nil {
			return RequestWindow{}, err
		}
		return RequestWindow{Start: s, End: e}, nil
	}

	days, ok := periodDays[period]
	if !ok {
		days = periodDays[DefaultPeriod]
	}
	endDate := entity.Day(now)
	return RequestWindow{Start: endDate.AddDate(0, 0, -days), End: endDate}, nil
}

// NormalizePeriod は未知・未指定の期間タグをデフォルトへ丸めます。
func NormalizePeriod(period string) string {
	if _, ok := periodDays[period]; !ok {
		return DefaultPeriod
	}
	return period
}

// TradingDayWindow は直近N取引日モードのリクエスト範囲を返します。nは1以上に補正されます。
func TradingDayWindow(n int) RequestWindow {
	if n < 1 {
		n = 1
	}
	return RequestWindow{TradingDays: n}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
