package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"StockCast/internal/domain/models"
	"StockCast/internal/service/indicators"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

func newStocksHandler(source *stubSource) *StocksHandler {
	return NewStocksHandler(xlogger.NewNop(), source, indicators.NewService(source))
}

func getWithSymbol(t *testing.T, target, symbol string, fn echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("symbol")
	c.SetParamValues(symbol)
	if err := fn(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestStockHistory(t *testing.T) {
	h := newStocksHandler(&stubSource{series: priceSeries(30)})

	rec := getWithSymbol(t, "/api/v1/stocks/AAPL?days=30", "AAPL", h.Stock)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data StockResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Count != 30 || len(resp.Data.Bars) != 30 {
		t.Fatalf("got %d/%d bars, want 30", resp.Data.Count, len(resp.Data.Bars))
	}
	if resp.Data.From != "2025-09-01" {
		t.Fatalf("from = %s, want 2025-09-01", resp.Data.From)
	}
}

func TestStockHistoryNotFound(t *testing.T) {
	h := newStocksHandler(&stubSource{err: models.ErrNoData})

	rec := getWithSymbol(t, "/api/v1/stocks/ZZZZ", "ZZZZ", h.Stock)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestIndicatorEndpoint(t *testing.T) {
	h := newStocksHandler(&stubSource{series: priceSeries(60)})

	rec := getWithSymbol(t, "/api/v1/indicators/AAPL?indicator=sma&period=5&days=60", "AAPL", h.Indicators)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data IndicatorResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Data.Indicator != "sma" || resp.Data.Period != 5 {
		t.Fatalf("echoed parameters wrong: %+v", resp.Data)
	}
	if len(resp.Data.Points) != 56 {
		t.Fatalf("got %d points, want 56", len(resp.Data.Points))
	}
}

func TestIndicatorEndpointRejectsUnknown(t *testing.T) {
	h := newStocksHandler(&stubSource{series: priceSeries(60)})

	rec := getWithSymbol(t, "/api/v1/indicators/AAPL?indicator=vwap", "AAPL", h.Indicators)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400: %s", rec.Code, rec.Body.String())
	}
}
