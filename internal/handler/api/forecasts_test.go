package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockCast/internal/domain/models"
	"StockCast/internal/pipeline"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	series *models.PriceSeries
	err    error
}

func (s *stubSource) Fetch(ctx context.Context, symbol string, start, end time.Time) (*models.PriceSeries, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.series, nil
}

type stubStore struct {
	saved []*models.ForecastResult
}

func (s *stubStore) Save(ctx context.Context, userID string, result *models.ForecastResult) error {
	s.saved = append(s.saved, result)
	return nil
}

func (s *stubStore) List(ctx context.Context, userID string, limit int) ([]*models.ForecastResult, error) {
	if len(s.saved) > limit {
		return s.saved[:limit], nil
	}
	return s.saved, nil
}

func (s *stubStore) Health(ctx context.Context) error { return nil }

type stubPublisher struct{}

func (stubPublisher) PublishForecast(context.Context, string, *models.ForecastResult) error {
	return nil
}
func (stubPublisher) Close() error { return nil }

type stubQuota struct{ allow bool }

func (s stubQuota) Consume(ctx context.Context, userID string, limit int) (bool, error) {
	return s.allow, nil
}

type stubMetrics struct{}

func (stubMetrics) RecordForecast(string, string)        {}
func (stubMetrics) RecordRejection(string)               {}
func (stubMetrics) RecordStageLatency(string, float64)   {}
func (stubMetrics) RecordPredictedPrice(string, float64) {}

func priceSeries(bars int) *models.PriceSeries {
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	series := &models.PriceSeries{Symbol: "AAPL"}
	for i := 0; i < bars; i++ {
		series.Bars = append(series.Bars, models.PriceBar{
			Date:  base.AddDate(0, 0, i),
			Close: 150 + 0.5*float64(i),
		})
	}
	return series
}

func newTestHandler(source *stubSource) (*ForecastHandler, *stubStore) {
	store := &stubStore{}
	p := pipeline.New(source, store, stubPublisher{}, stubQuota{allow: true}, stubMetrics{}, xlogger.NewNop())
	return NewForecastHandler(xlogger.NewNop(), p, store), store
}

func postForecast(t *testing.T, h *ForecastHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forecasts", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h.Create(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestCreateForecastOK(t *testing.T) {
	h, store := newTestHandler(&stubSource{series: priceSeries(120)})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"AAPL","model":"linear","horizon_days":5,"tier":"free"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Status int                   `json:"status"`
		Data   models.ForecastResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Predictions) != 5 {
		t.Fatalf("got %d predictions, want 5", len(resp.Data.Predictions))
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d results, want 1", len(store.saved))
	}
}

func TestCreateForecastDefaultsHorizon(t *testing.T) {
	h, _ := newTestHandler(&stubSource{series: priceSeries(120)})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"AAPL","model":"linear","tier":"free"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Data models.ForecastResult `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Horizon != 5 {
		t.Fatalf("horizon %d, want default 5", resp.Data.Horizon)
	}
}

func TestCreateForecastForbiddenModel(t *testing.T) {
	h, store := newTestHandler(&stubSource{series: priceSeries(120)})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"AAPL","model":"boosted_trees","horizon_days":5,"tier":"free"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status %d, want 403: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), models.ReasonModelNotPermitted) {
		t.Fatalf("body missing rejection reason: %s", rec.Body.String())
	}
	if len(store.saved) != 0 {
		t.Fatal("rejected request was persisted")
	}
}

func TestCreateForecastUnknownModelIsBadRequest(t *testing.T) {
	h, _ := newTestHandler(&stubSource{series: priceSeries(120)})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"AAPL","model":"prophet","horizon_days":5,"tier":"free"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateForecastNoData(t *testing.T) {
	h, _ := newTestHandler(&stubSource{err: models.ErrNoData})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"ZZZZ","model":"linear","horizon_days":5,"tier":"free"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateForecastInsufficientHistory(t *testing.T) {
	h, _ := newTestHandler(&stubSource{series: priceSeries(4)})

	rec := postForecast(t, h, `{"user_id":"u1","symbol":"AAPL","model":"linear","horizon_days":5,"tier":"free"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", rec.Code, rec.Body.String())
	}
}

func TestHistory(t *testing.T) {
	h, store := newTestHandler(&stubSource{series: priceSeries(120)})
	store.saved = []*models.ForecastResult{
		{Symbol: "AAPL", Model: models.ModelLinear, Horizon: 5},
		{Symbol: "MSFT", Model: models.ModelKNearest, Horizon: 7},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/forecasts?user_id=u1&limit=10", nil)
	rec := httptest.NewRecorder()
	if err := h.History(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			Rows  []models.ForecastResult `json:"rows"`
			Total int64                   `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Total != 2 || len(resp.Data.Rows) != 2 {
		t.Fatalf("got %d/%d rows, want 2", resp.Data.Total, len(resp.Data.Rows))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/forecasts", nil)
	rec = httptest.NewRecorder()
	if err := h.History(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 for missing user_id", rec.Code)
	}
}
