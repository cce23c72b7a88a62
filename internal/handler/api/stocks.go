package api

import (
	"errors"
	"time"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/service/indicators"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// StocksHandler serves raw price history and technical indicators.
type StocksHandler struct {
	logger     *xlogger.Logger
	source     domrepo.MarketData
	indicators *indicators.Service
}

func NewStocksHandler(logger *xlogger.Logger, source domrepo.MarketData, ind *indicators.Service) *StocksHandler {
	return &StocksHandler{logger: logger, source: source, indicators: ind}
}

func (h *StocksHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.GET("/stocks/:symbol", h.Stock)
	g.GET("/indicators/:symbol", h.Indicators)
}

// StockResponse is the payload for GET /stocks/:symbol.
type StockResponse struct {
	Symbol string            `json:"symbol"`
	From   string            `json:"from"`
	To     string            `json:"to"`
	Count  int               `json:"count"`
	Bars   []models.PriceBar `json:"bars"`
}

func (h *StocksHandler) Stock(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol required"))
	}
	req := &models.StockHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -req.Days)
	series, err := h.source.Fetch(c.Request().Context(), symbol, start, end)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no price data for symbol"))
		}
		h.logger.Error("stock history fetch error",
			xlogger.String("symbol", symbol), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	resp := &StockResponse{
		Symbol: series.Symbol,
		Count:  series.Len(),
		Bars:   series.Bars,
	}
	if series.Len() > 0 {
		resp.From = series.Bars[0].Date.Format("2006-01-02")
		resp.To = series.Bars[series.Len()-1].Date.Format("2006-01-02")
	}
	return xhttp.SuccessResponse(c, resp)
}

// IndicatorResponse is the payload for GET /indicators/:symbol.
type IndicatorResponse struct {
	Symbol    string             `json:"symbol"`
	Indicator string             `json:"indicator"`
	Period    int                `json:"period"`
	Points    []indicators.Point `json:"points"`
}

func (h *StocksHandler) Indicators(c echo.Context) error {
	symbol := c.Param("symbol")
	if symbol == "" {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError("symbol required"))
	}
	req := &models.IndicatorHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	points, err := h.indicators.Compute(c.Request().Context(), symbol, req.Indicator, req.Period, req.Days)
	if err != nil {
		if errors.Is(err, models.ErrNoData) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no price data for symbol"))
		}
		h.logger.Error("indicator compute error",
			xlogger.String("symbol", symbol),
			xlogger.String("indicator", req.Indicator),
			xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	return xhttp.SuccessResponse(c, &IndicatorResponse{
		Symbol:    symbol,
		Indicator: req.Indicator,
		Period:    req.Period,
		Points:    points,
	})
}
