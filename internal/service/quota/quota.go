// Package quota tracks per-user daily request counters on top of the cache
// service. Counters live under a key derived from the user id and the current
// UTC day and expire shortly after midnight, so a new day always starts from
// zero without an explicit reset job.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/repository"
	"StockCast/pkg/cache"
	"StockCast/pkg/util"
)

type Tracker struct {
	cache cache.Service
	now   func() time.Time
}

type Option func(*Tracker)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(c cache.Service, opts ...Option) *Tracker {
	t := &Tracker{cache: c, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Consume records one request for the user and reports whether it fits within
// limit. The counter is incremented before the check, so a rejected request
// still counts toward the day; this matches the accounting for accepted ones
// and keeps the operation a single round trip.
func (t *Tracker) Consume(ctx context.Context, userID string, limit int) (bool, error) {
	key := t.key(userID)
	count, err := t.cache.Increment(ctx, key)
	if err != nil {
		return false, fmt.Errorf("increment quota counter: %w", err)
	}
	if count == 1 {
		// First request of the day; expire the counter at the next UTC
		// midnight plus a grace hour for clock skew.
		if _, err := t.cache.Expire(ctx, key, t.untilReset()); err != nil {
			return false, fmt.Errorf("set quota counter ttl: %w", err)
		}
	}
	return count <= int64(limit), nil
}

// Used returns the number of requests recorded for the user today.
func (t *Tracker) Used(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := t.cache.Get(ctx, t.key(userID), &count)
	if errors.Is(err, cache.ErrCacheMiss) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (t *Tracker) key(userID string) string {
	return fmt.Sprintf("quota:%s:%s", userID, util.DayKey(t.now().UTC()))
}

func (t *Tracker) untilReset() time.Duration {
	now := t.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return midnight.Sub(now) + time.Hour
}

var _ repository.Quota = (*Tracker)(nil)
