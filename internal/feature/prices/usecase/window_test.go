package usecase_test

import (
	"errors"
	"testing"
	"time"

	"asset_dashboard/internal/feature/prices/usecase"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestResolveWindow は期間タグと明示的なstart/endからの範囲解決をテストします。
func TestResolveWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 45, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		period        string
		start         string
		end           string
		expectedStart time.Time
		expectedEnd   time.Time
		expectedErr   error
	}{
		{
			name:          "period tag 7d",
			period:        "7d",
			expectedStart: day(2024, 3, 8),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:          "period tag 1mo",
			period:        "1mo",
			expectedStart: day(2024, 2, 14),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:          "period tag 1y",
			period:        "1y",
			expectedStart: day(2023, 3, 16),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:          "empty period falls back to 7d",
			period:        "",
			expectedStart: day(2024, 3, 8),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:          "unknown period falls back to 7d",
			period:        "42q",
			expectedStart: day(2024, 3, 8),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:          "explicit range wins over period",
			period:        "1y",
			start:         "2024-01-01",
			end:           "2024-01-31",
			expectedStart: day(2024, 1, 1),
			expectedEnd:   day(2024, 1, 31),
		},
		{
			name:          "start only is ignored, period applies",
			period:        "7d",
			start:         "2024-01-01",
			expectedStart: day(2024, 3, 8),
			expectedEnd:   day(2024, 3, 15),
		},
		{
			name:        "unparseable start",
			start:       "01/02/2024",
			end:         "2024-01-31",
			expectedErr: usecase.ErrInvalidDate,
		},
		{
			name:        "unparseable end",
			start:       "2024-01-01",
			end:         "not-a-date",
			expectedErr: usecase.ErrInvalidDate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w, err := usecase.ResolveWindow(tc.period, tc.start, tc.end, now)
			if tc.expectedErr != nil {
				if !errors.Is(err, tc.expectedErr) {
					t.Fatalf("expected error %v, got %v", tc.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !w.Start.Equal(tc.expectedStart) || !w.End.Equal(tc.expectedEnd) {
				t.Errorf("window = [%s, %s], want [%s, %s]",
					w.Start, w.End, tc.expectedStart, tc.expectedEnd)
			}
			if w.ByTradingDays() {
				t.Errorf("calendar window should not report ByTradingDays")
			}
		})
	}
}

// TestTradingDayWindow は取引日数モードの範囲生成をテストします。
func TestTradingDayWindow(t *testing.T) {
	w := usecase.TradingDayWindow(7)
	if !w.ByTradingDays() || w.TradingDays != 7 {
		t.Errorf("TradingDayWindow(7) = %+v", w)
	}

	// 0以下は1に補正される
	w = usecase.TradingDayWindow(0)
	if w.TradingDays != 1 {
		t.Errorf("TradingDayWindow(0).TradingDays = %d, want 1", w.TradingDays)
	}
	w = usecase.TradingDayWindow(-5)
	if w.TradingDays != 1 {
		t.Errorf("TradingDayWindow(-5).TradingDays = %d, want 1", w.TradingDays)
	}
}

func TestNormalizePeriod(t *testing.T) {
	if got := usecase.NormalizePeriod("3mo"); got != "3mo" {
		t.Errorf("NormalizePeriod(3mo) = %q", got)
	}
	if got := usecase.NormalizePeriod(""); got != usecase.DefaultPeriod {
		t.Errorf("NormalizePeriod(empty) = %q", got)
	}
	if got := usecase.NormalizePeriod("2w"); got != usecase.DefaultPeriod {
		t.Errorf("NormalizePeriod(2w) = %q", got)
	}
}
