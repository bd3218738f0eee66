// Package adapters はpricesフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

// priceGorm はPriceRepositoryインターフェースのGORM実装です。
// SQLiteとPostgreSQLの両方で動作します。
type priceGorm struct {
	db *gorm.DB
}

// priceGormがPriceRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.PriceRepository = (*priceGorm)(nil)

// NewPriceRepository は指定されたgorm.DB接続でpriceGormの新しいインスタンスを生成します。
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PricePointModel is the persisted row. Dates are stored as "YYYY-MM-DD"
// strings so that range scans and descending limits order correctly on every
// engine; the composite unique index enforces one row per (ticker, date).
type PricePointModel struct {
	ID         uint      `gorm:"primaryKey"`
	Ticker     string    `gorm:"size:32;not null;uniqueIndex:price_ticker_date,priority:1"`
	Date       string    `gorm:"size:10;not null;uniqueIndex:price_ticker_date,priority:2"`
	Close      float64   `gorm:"not null"`
	RecordedAt time.Time `gorm:"not null"`
}

func (PricePointModel) TableName() string {
	return "asset_prices"
}

func toModel(p entity.PricePoint, recordedAt time.Time) PricePointModel {
	return PricePointModel{
		Ticker:     p.Ticker,
		Date:       p.Date.Format(entity.DateLayout),
		Close:      p.Close,
		RecordedAt: recordedAt,
	}
}

func toEntity(m PricePointModel) entity.PricePoint {
	d, _ := time.Parse(entity.DateLayout, m.Date)
	return entity.PricePoint{
		Ticker:     m.Ticker,
		Date:       d,
		Close:      m.Close,
		RecordedAt: m.RecordedAt,
	}
}

// UpsertBatch は (ticker, date) をキーに一括で挿入または置換します。
// 同じキーへの再適用はストアの状態を変えません（冪等）。
func (r *priceGorm) UpsertBatch(ctx context.Context, points []entity.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	now := time.Now()
	ms := make([]PricePointModel, 0, len(points))
	for _, p := range points {
		ms = append(ms, toModel(p, now))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"close", "recorded_at"}),
	}).Create(&ms).Error
}

// FindRange は [start, end]（両端を含む）の行を日付昇順で返します。
func (r *priceGorm) FindRange(ctx context.Context, ticker string, start, end time.Time) ([]entity.PricePoint, error) {
	var rows []PricePointModel
	err := r.db.WithContext(ctx).
		Where("ticker = ? AND date BETWEEN ? AND ?",
			ticker, start.Format(entity.DateLayout), end.Format(entity.DateLayout)).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// FindLastN は直近n件の行を日付昇順で返します。
func (r *priceGorm) FindLastN(ctx context.Context, ticker string, n int) ([]entity.PricePoint, error) {
	var rows []PricePointModel
	err := r.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("date DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	// 降順で取得した行を昇順へ反転
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return toEntities(rows), nil
}

// Extent はキャッシュ済み日付の最小・最大を返します。行が無ければ nil を返します。
func (r *priceGorm) Extent(ctx context.Context, ticker string) (*entity.CacheExtent, error) {
	var agg struct {
		MinDate *string
		MaxDate *string
	}
	err := r.db.WithContext(ctx).
		Model(&PricePointModel{}).
		Select("MIN(date) AS min_date, MAX(date) AS max_date").
		Where("ticker = ?", ticker).
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	if agg.MinDate == nil || agg.MaxDate == nil {
		return nil, nil
	}
	minD, err := time.Parse(entity.DateLayout, *agg.MinDate)
	if err != nil {
		return nil, err
	}
	maxD, err := time.Parse(entity.DateLayout, *agg.MaxDate)
	if err != nil {
		return nil, err
	}
	return &entity.CacheExtent{Min: minD, Max: maxD}, nil
}

// Stats はティッカーごとの行数と日付範囲をティッカー昇順で返します。
func (r *priceGorm) Stats(ctx context.Context) ([]entity.TickerStats, error) {
	var stats []entity.TickerStats
	err := r.db.WithContext(ctx).
		Model(&PricePointModel{}).
		Select(`ticker, COUNT(*) AS "rows", MIN(date) AS "min", MAX(date) AS "max"`).
		Group("ticker").
		Order("ticker ASC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func toEntities(rows []PricePointModel) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}
