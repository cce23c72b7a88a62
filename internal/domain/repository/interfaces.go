package repository

import (
	"context"
	"time"

	"StockCast/internal/domain/models"
)

// MarketData supplies daily price bars for a symbol over [start, end].
// An empty result is reported as models.ErrNoData, never as a partial series.
type MarketData interface {
	Fetch(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error)
}

// ForecastStore persists forecast results keyed by the requesting user.
type ForecastStore interface {
	Save(ctx context.Context, userID string, result *models.ForecastResult) error
	List(ctx context.Context, userID string, limit int) ([]*models.ForecastResult, error)
	Health(ctx context.Context) error
}

// Publisher emits forecast-completed events for downstream consumers.
type Publisher interface {
	PublishForecast(ctx context.Context, userID string, result *models.ForecastResult) error
	Close() error
}

// Quota tracks per-user daily request counts against a tier limit.
type Quota interface {
	// Consume records one request and reports whether the caller is still
	// within limit for the current day.
	Consume(ctx context.Context, userID string, limit int) (bool, error)
}

// Metrics records domain-level observability signals.
type Metrics interface {
	RecordForecast(tier, model string)
	RecordRejection(reason string)
	RecordStageLatency(stage string, seconds float64)
	RecordPredictedPrice(symbol string, price float64)
}
