// Package pipeline runs the forecast stage machine: authorize, fetch history,
// build features, split, train, evaluate, forecast, persist. Every run fits a
// fresh model; nothing is cached between requests and nothing partial is
// persisted on failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/domain/repository"
	"StockCast/internal/ml"
	"StockCast/internal/ml/feature"
	"StockCast/internal/policy"
	"StockCast/pkg/logger"
	"StockCast/pkg/util"
)

const testFraction = 0.2

type Pipeline struct {
	source    repository.MarketData
	store     repository.ForecastStore
	publisher repository.Publisher
	quota     repository.Quota
	metrics   repository.Metrics
	logger    *logger.Logger
	now       func() time.Time
}

type Option func(*Pipeline)

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

func New(
	source repository.MarketData,
	store repository.ForecastStore,
	publisher repository.Publisher,
	quota repository.Quota,
	metrics repository.Metrics,
	l *logger.Logger,
	opts ...Option,
) *Pipeline {
	p := &Pipeline{
		source:    source,
		store:     store,
		publisher: publisher,
		quota:     quota,
		metrics:   metrics,
		logger:    l,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one forecast request end to end. Policy checks run before any
// provider call, so a rejected request never touches market data.
func (p *Pipeline) Run(ctx context.Context, req *models.ForecastRequest) (*models.ForecastResult, error) {
	if err := policy.Authorize(req); err != nil {
		return nil, p.reject(req, err)
	}
	if err := p.consumeQuota(ctx, req); err != nil {
		return nil, err
	}

	series, err := p.fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	table, err := p.buildFeatures(req, series)
	if err != nil {
		return nil, err
	}

	result, err := p.trainAndForecast(req, table)
	if err != nil {
		return nil, err
	}

	if err := p.persist(ctx, req, result); err != nil {
		return nil, err
	}

	p.metrics.RecordForecast(string(req.Tier), string(req.Model))
	if n := len(result.Predictions); n > 0 {
		p.metrics.RecordPredictedPrice(result.Symbol, result.Predictions[n-1].Price)
	}
	p.logger.Info("forecast completed",
		logger.String("symbol", req.Symbol),
		logger.String("model", string(req.Model)),
		logger.Int("horizon_days", req.Horizon),
		logger.Float64("r2", result.R2),
		logger.Float64("mae", result.MAE),
	)
	return result, nil
}

func (p *Pipeline) consumeQuota(ctx context.Context, req *models.ForecastRequest) error {
	limit := policy.Limits(req.Tier).RequestsPerDay
	ok, err := p.quota.Consume(ctx, req.UserID, limit)
	if err != nil {
		return p.fail(req, "quota", err)
	}
	if !ok {
		violation := models.NewPolicyViolation(models.ReasonQuotaExceeded,
			"daily limit of %d requests reached for tier %s", limit, req.Tier)
		return p.reject(req, violation)
	}
	return nil
}

func (p *Pipeline) fetch(ctx context.Context, req *models.ForecastRequest) (*models.PriceSeries, error) {
	defer p.stage("fetch")()

	// The window must cover the horizon shift on top of the requested
	// training span, or long horizons would starve the trainable set.
	end := p.now().UTC()
	start := end.AddDate(0, 0, -(req.TrainingWindow + req.Horizon))

	series, err := p.source.Fetch(ctx, req.Symbol, start, end)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			p.metrics.RecordRejection("no_data")
			return nil, err
		}
		return nil, p.fail(req, "fetch", err)
	}
	return series, nil
}

func (p *Pipeline) buildFeatures(req *models.ForecastRequest, series *models.PriceSeries) (*feature.Table, error) {
	defer p.stage("features")()

	table, err := feature.Build(series, req.Horizon)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientHistory) {
			p.metrics.RecordRejection("insufficient_history")
			p.logger.Warn("insufficient history",
				logger.String("symbol", req.Symbol),
				logger.Int("bars", series.Len()),
				logger.Int("horizon_days", req.Horizon),
			)
			return nil, err
		}
		return nil, p.fail(req, "features", err)
	}
	return table, nil
}

func (p *Pipeline) trainAndForecast(req *models.ForecastRequest, table *feature.Table) (*models.ForecastResult, error) {
	defer p.stage("train")()

	strategy, err := ml.NewStrategy(req.Model)
	if err != nil {
		return nil, p.fail(req, "train", err)
	}

	trainIdx, testIdx := ml.TrainTestSplit(len(table.X), testFraction, ml.SplitSeed)
	trainX, trainY := ml.Take(table.X, table.Y, trainIdx)
	testX, testY := ml.Take(table.X, table.Y, testIdx)

	if err := strategy.Fit(trainX, trainY); err != nil {
		return nil, p.fail(req, "train", err)
	}

	eval := ml.Evaluate(testY, strategy.Predict(testX))

	future := strategy.Predict(table.ForecastX)
	predictions := make([]models.Prediction, len(future))
	base := p.now().UTC()
	for i, price := range future {
		predictions[i] = models.Prediction{
			Date:  util.FormatDay(base.AddDate(0, 0, i+1)),
			Price: price,
		}
	}

	return &models.ForecastResult{
		Symbol:      req.Symbol,
		Model:       req.Model,
		Horizon:     req.Horizon,
		Predictions: predictions,
		R2:          eval.R2,
		MAE:         eval.MAE,
		CreatedAt:   base,
	}, nil
}

func (p *Pipeline) persist(ctx context.Context, req *models.ForecastRequest, result *models.ForecastResult) error {
	defer p.stage("persist")()

	if err := p.store.Save(ctx, req.UserID, result); err != nil {
		return p.fail(req, "persist", err)
	}

	// Events are best effort; a broker outage must not fail a forecast
	// that is already persisted.
	if err := p.publisher.PublishForecast(ctx, req.UserID, result); err != nil {
		p.logger.Warn("forecast event publish failed",
			logger.String("symbol", result.Symbol),
			logger.Error(err),
		)
	}
	return nil
}

func (p *Pipeline) reject(req *models.ForecastRequest, err error) error {
	var violation *models.PolicyViolation
	if !errors.As(err, &violation) {
		return p.fail(req, "authorize", err)
	}
	p.metrics.RecordRejection(violation.Reason)
	p.logger.Info("forecast rejected",
		logger.String("reason", violation.Reason),
		logger.String("tier", string(req.Tier)),
		logger.String("model", string(req.Model)),
		logger.Int("horizon_days", req.Horizon),
	)
	return err
}

func (p *Pipeline) fail(req *models.ForecastRequest, stage string, err error) error {
	p.logger.Error("forecast pipeline failure",
		logger.String("stage", stage),
		logger.String("symbol", req.Symbol),
		logger.String("model", string(req.Model)),
		logger.Error(err),
	)
	return fmt.Errorf("%w: %s: %v", models.ErrPipelineFailure, stage, err)
}

func (p *Pipeline) stage(name string) func() {
	start := time.Now()
	return func() {
		p.metrics.RecordStageLatency(name, time.Since(start).Seconds())
	}
}
