package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/pkg/logger"
)

type fakeSource struct {
	calls  int
	series *models.PriceSeries
	err    error
}

func (f *fakeSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.series, nil
}

type fakeStore struct {
	saved []*models.ForecastResult
	err   error
}

func (f *fakeStore) Save(ctx context.Context, userID string, result *models.ForecastResult) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, result)
	return nil
}

func (f *fakeStore) List(ctx context.Context, userID string, limit int) ([]*models.ForecastResult, error) {
	return f.saved, nil
}

func (f *fakeStore) Health(ctx context.Context) error { return nil }

type fakePublisher struct {
	published int
	err       error
}

func (f *fakePublisher) PublishForecast(ctx context.Context, userID string, result *models.ForecastResult) error {
	f.published++
	return f.err
}

func (f *fakePublisher) Close() error { return nil }

type fakeQuota struct {
	allow bool
	err   error
}

func (f *fakeQuota) Consume(ctx context.Context, userID string, limit int) (bool, error) {
	return f.allow, f.err
}

type fakeMetrics struct {
	forecasts  int
	rejections map[string]int
}

func (f *fakeMetrics) RecordForecast(tier, model string) { f.forecasts++ }
func (f *fakeMetrics) RecordRejection(reason string) {
	if f.rejections == nil {
		f.rejections = map[string]int{}
	}
	f.rejections[reason]++
}
func (f *fakeMetrics) RecordStageLatency(stage string, seconds float64) {}
func (f *fakeMetrics) RecordPredictedPrice(symbol string, price float64) {}

type fixture struct {
	pipeline  *Pipeline
	source    *fakeSource
	store     *fakeStore
	publisher *fakePublisher
	quota     *fakeQuota
	metrics   *fakeMetrics
}

func newFixture(bars int) *fixture {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	series := &models.PriceSeries{Symbol: "AAPL"}
	for i := 0; i < bars; i++ {
		series.Bars = append(series.Bars, models.PriceBar{
			Date:  base.AddDate(0, 0, i),
			Close: 150 + 0.5*float64(i),
		})
	}

	f := &fixture{
		source:    &fakeSource{series: series},
		store:     &fakeStore{},
		publisher: &fakePublisher{},
		quota:     &fakeQuota{allow: true},
		metrics:   &fakeMetrics{},
	}
	f.pipeline = New(f.source, f.store, f.publisher, f.quota, f.metrics, logger.NewNop(),
		WithClock(func() time.Time {
			return time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
		}))
	return f
}

func request(model models.ModelID, tier models.Tier, horizon int) *models.ForecastRequest {
	return &models.ForecastRequest{
		UserID:         "user-1",
		Symbol:         "AAPL",
		Model:          model,
		Horizon:        horizon,
		TrainingWindow: 100,
		Tier:           tier,
	}
}

func TestRunProducesDatedPredictions(t *testing.T) {
	f := newFixture(120)

	result, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Predictions) != 5 {
		t.Fatalf("got %d predictions, want 5", len(result.Predictions))
	}
	wantDates := []string{"2026-01-16", "2026-01-17", "2026-01-18", "2026-01-19", "2026-01-20"}
	for i, p := range result.Predictions {
		if p.Date != wantDates[i] {
			t.Errorf("prediction %d dated %s, want %s", i, p.Date, wantDates[i])
		}
		if p.Price <= 0 {
			t.Errorf("prediction %d has non-positive price %v", i, p.Price)
		}
	}
	if result.Model != models.ModelLinear || result.Symbol != "AAPL" || result.Horizon != 5 {
		t.Fatalf("result header mismatch: %+v", result)
	}

	if len(f.store.saved) != 1 {
		t.Fatalf("saved %d results, want 1", len(f.store.saved))
	}
	if f.publisher.published != 1 {
		t.Fatalf("published %d events, want 1", f.publisher.published)
	}
	if f.metrics.forecasts != 1 {
		t.Fatalf("recorded %d forecasts, want 1", f.metrics.forecasts)
	}
}

func TestRunLinearIsDeterministic(t *testing.T) {
	first := newFixture(120)
	second := newFixture(120)

	a, err := first.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := second.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if a.R2 != b.R2 || a.MAE != b.MAE {
		t.Fatalf("diagnostics differ between identical runs: %v/%v vs %v/%v", a.R2, a.MAE, b.R2, b.MAE)
	}
	for i := range a.Predictions {
		if a.Predictions[i] != b.Predictions[i] {
			t.Fatalf("prediction %d differs: %+v vs %+v", i, a.Predictions[i], b.Predictions[i])
		}
	}
}

func TestRunRejectsModelBeforeFetch(t *testing.T) {
	f := newFixture(120)

	_, err := f.pipeline.Run(context.Background(), request(models.ModelBoostedTrees, models.TierFree, 5))
	if !models.IsPolicyViolation(err) {
		t.Fatalf("got %v, want policy violation", err)
	}
	if f.source.calls != 0 {
		t.Fatal("rejected request reached the market data provider")
	}
	if len(f.store.saved) != 0 {
		t.Fatal("rejected request was persisted")
	}
	if f.metrics.rejections[models.ReasonModelNotPermitted] != 1 {
		t.Fatalf("rejections = %v, want one %s", f.metrics.rejections, models.ReasonModelNotPermitted)
	}
}

func TestRunRejectsHorizonOverTierLimit(t *testing.T) {
	f := newFixture(120)

	_, err := f.pipeline.Run(context.Background(), request(models.ModelBoostedTrees, models.TierEnterprise, 90))
	if !models.IsPolicyViolation(err) {
		t.Fatalf("got %v, want policy violation", err)
	}
	if f.metrics.rejections[models.ReasonHorizonExceedsTier] != 1 {
		t.Fatalf("rejections = %v, want one %s", f.metrics.rejections, models.ReasonHorizonExceedsTier)
	}
}

func TestRunRejectsOverQuota(t *testing.T) {
	f := newFixture(120)
	f.quota.allow = false

	_, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if !models.IsPolicyViolation(err) {
		t.Fatalf("got %v, want policy violation", err)
	}
	var violation *models.PolicyViolation
	if !errors.As(err, &violation) || violation.Reason != models.ReasonQuotaExceeded {
		t.Fatalf("got %v, want %s", err, models.ReasonQuotaExceeded)
	}
	if f.source.calls != 0 {
		t.Fatal("over-quota request reached the market data provider")
	}
}

func TestRunNoDataNothingPersisted(t *testing.T) {
	f := newFixture(0)
	f.source.err = models.ErrNoData

	_, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if !errors.Is(err, models.ErrNoData) {
		t.Fatalf("got %v, want ErrNoData", err)
	}
	if len(f.store.saved) != 0 || f.publisher.published != 0 {
		t.Fatal("failed run left persisted state")
	}
}

func TestRunInsufficientHistory(t *testing.T) {
	// 6 bars cannot support a 5-day horizon (needs at least 7).
	f := newFixture(6)

	_, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if !errors.Is(err, models.ErrInsufficientHistory) {
		t.Fatalf("got %v, want ErrInsufficientHistory", err)
	}
	if len(f.store.saved) != 0 {
		t.Fatal("failed run left persisted state")
	}
}

func TestRunStoreFailureIsPipelineFailure(t *testing.T) {
	f := newFixture(120)
	f.store.err = errors.New("connection refused")

	_, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if !errors.Is(err, models.ErrPipelineFailure) {
		t.Fatalf("got %v, want ErrPipelineFailure", err)
	}
	if f.publisher.published != 0 {
		t.Fatal("event published for a result that was never persisted")
	}
}

func TestRunPublishFailureDoesNotFailRun(t *testing.T) {
	f := newFixture(120)
	f.publisher.err = errors.New("broker down")

	result, err := f.pipeline.Run(context.Background(), request(models.ModelLinear, models.TierFree, 5))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result == nil || len(f.store.saved) != 1 {
		t.Fatal("forecast not persisted despite publish being best effort")
	}
}

func TestRunEachPermittedModel(t *testing.T) {
	for _, model := range models.AllModels() {
		t.Run(string(model), func(t *testing.T) {
			f := newFixture(200)
			result, err := f.pipeline.Run(context.Background(), request(model, models.TierEnterprise, 7))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(result.Predictions) != 7 {
				t.Fatalf("got %d predictions, want 7", len(result.Predictions))
			}
		})
	}
}
