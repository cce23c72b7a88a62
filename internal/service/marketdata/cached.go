package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	"StockCast/pkg/cache"
	"StockCast/pkg/logger"
	"StockCast/pkg/util"
)

// CachedSource wraps a MarketData source with an explicit TTL cache keyed by
// symbol and date range. A NotFound result is never cached, so a symbol that
// starts trading is picked up on the next request.
type CachedSource struct {
	src    repository.MarketData
	cache  cache.Service
	ttl    time.Duration
	logger *logger.Logger
}

// NewCachedSource wraps src with caching.
func NewCachedSource(src repository.MarketData, c cache.Service, ttl time.Duration, l *logger.Logger) *CachedSource {
	return &CachedSource{src: src, cache: c, ttl: ttl, logger: l}
}

func (s *CachedSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	key := s.key(symbol, start, end)

	var cached models.PriceSeries
	if err := s.cache.Get(ctx, key, &cached); err == nil && len(cached.Bars) > 0 {
		return &cached, nil
	} else if err != nil && !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("price cache read failed", logger.Error(err), logger.String("key", key))
	}

	series, err := s.src.Fetch(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, series, s.ttl); err != nil {
		s.logger.Warn("price cache write failed", logger.Error(err), logger.String("key", key))
	}
	return series, nil
}

// Invalidate drops every cached range for the symbol.
func (s *CachedSource) Invalidate(ctx context.Context, symbol string) error {
	return s.cache.DeleteByPattern(ctx, fmt.Sprintf("prices:%s:*", symbol))
}

func (s *CachedSource) key(symbol string, start, end time.Time) string {
	return fmt.Sprintf("prices:%s:%s:%s", symbol, util.DayKey(start), util.DayKey(end))
}

var _ repository.MarketData = (*CachedSource)(nil)
