package usecase

import (
	"time"

	"asset_dashboard/internal/feature/prices/domain/entity"
)

// RefreshPolicy は上流データソースへの問い合わせ方針です。
type RefreshPolicy int

const (
	// PolicyLive はギャップを通常どおり照合し、直近日だけを常に再取得します。
	PolicyLive RefreshPolicy = iota
	// PolicyForceRefresh はキャッシュ状態に関係なく要求範囲全体を再取得します。
	PolicyForceRefresh
	// PolicyStaleOnly は上流を一切呼ばず、キャッシュのみから応答します。
	PolicyStaleOnly
)

// PolicyFromFlags maps the transport-level refresh/stale flags onto a policy.
// stale wins: a stale read never reaches upstream.
func PolicyFromFlags(forceRefresh, staleOnly bool) RefreshPolicy {
	switch {
	case staleOnly:
		return PolicyStaleOnly
	case forceRefresh:
		return PolicyForceRefresh
	default:
		return PolicyLive
	}
}

// liveRecheckDays is the lookback always refetched under PolicyLive so that a
// revised or late-finalized most recent close is picked up.
const liveRecheckDays = 1

// DateRange is an inclusive fetch sub-window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// PlanFetch はカレンダー範囲リクエストに対して、キャッシュが応答可能になる
// 前に上流から取得すべきサブ範囲を順序付きで返します。extent はキャッシュが
// 空のとき nil です。サブ範囲同士の重複は許容されます（ストアの upsert が
// 冪等なため）。
func PlanFetch(window RequestWindow, extent *entity.CacheExtent, policy RefreshPolicy) []DateRange {
	if policy == PolicyStaleOnly {
		return nil
	}
	if policy == PolicyForceRefresh {
		return appendRange(nil, window.Start, window.End)
	}

	recheck := window.End.AddDate(0, 0, -liveRecheckDays)
	if window.Start.After(recheck) {
		recheck = window.Start
	}
	ranges := appendRange(nil, recheck, window.End)

	if extent == nil {
		return appendRange(ranges, window.Start, window.End)
	}
	if extent.Min.After(window.Start) {
		ranges = appendRange(ranges, window.Start, extent.Min.AddDate(0, 0, -1))
	}
	if extent.Max.Before(window.End) {
		ranges = appendRange(ranges, extent.Max.AddDate(0, 0, 1), window.End)
	}
	return ranges
}

// appendRange drops inverted ranges instead of appending them.
func appendRange(ranges []DateRange, start, end time.Time) []DateRange {
	if start.After(end) {
		return ranges
	}
	return append(ranges, DateRange{Start: start, End: end})
}
