// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"asset_dashboard/internal/feature/prices/domain/entity"
	"asset_dashboard/internal/feature/prices/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching of
// the two hot read patterns (range scan and last-N). Extent and Stats always
// read through: they feed gap planning and must reflect the store exactly.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses
// "prices". A nil client makes every operation pass through.
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch writes through to the store and invalidates every cached read
// for the affected tickers.
func (c *CachingPriceRepository) UpsertBatch(ctx context.Context, points []entity.PricePoint) error {
	if err := c.inner.UpsertBatch(ctx, points); err != nil {
		return err
	}
	if c.rdb == nil || len(points) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, p := range points {
		prefix := c.tickerPrefix(p.Ticker)
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		_ = c.deleteByPattern(ctx, prefix+"*") // Best effort: don't fail the upsert on cache errors
	}
	return nil
}

// FindRange retrieves a window, checking the cache first then falling back
// to the store.
func (c *CachingPriceRepository) FindRange(ctx context.Context, ticker string, start, end time.Time) ([]entity.PricePoint, error) {
	key := fmt.Sprintf("%srange:%s:%s", c.tickerPrefix(ticker),
		start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	return c.cachedRead(ctx, key, func() ([]entity.PricePoint, error) {
		return c.inner.FindRange(ctx, ticker, start, end)
	})
}

// FindLastN retrieves the n most recent rows, checking the cache first.
func (c *CachingPriceRepository) FindLastN(ctx context.Context, ticker string, n int) ([]entity.PricePoint, error) {
	key := fmt.Sprintf("%slastn:%d", c.tickerPrefix(ticker), n)
	return c.cachedRead(ctx, key, func() ([]entity.PricePoint, error) {
		return c.inner.FindLastN(ctx, ticker, n)
	})
}

// Extent always reads through to the store.
func (c *CachingPriceRepository) Extent(ctx context.Context, ticker string) (*entity.CacheExtent, error) {
	return c.inner.Extent(ctx, ticker)
}

// Stats always reads through to the store.
func (c *CachingPriceRepository) Stats(ctx context.Context) ([]entity.TickerStats, error) {
	return c.inner.Stats(ctx)
}

func (c *CachingPriceRepository) cachedRead(ctx context.Context, key string, load func() ([]entity.PricePoint, error)) ([]entity.PricePoint, error) {
	if c.rdb == nil {
		return load()
	}

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to the store
	out, err := load()
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

func (c *CachingPriceRepository) tickerPrefix(ticker string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(ticker))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys. Tickers like
// "KRW=X" or "^GSPC" pass through unchanged; only separators are rewritten.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
