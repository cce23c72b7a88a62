package api

import (
	"errors"

	"StockCast/internal/domain/models"
	domrepo "StockCast/internal/domain/repository"
	"StockCast/internal/pipeline"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ForecastHandler exposes the forecast pipeline and its history over HTTP.
type ForecastHandler struct {
	logger   *xlogger.Logger
	pipeline *pipeline.Pipeline
	store    domrepo.ForecastStore
}

func NewForecastHandler(logger *xlogger.Logger, p *pipeline.Pipeline, store domrepo.ForecastStore) *ForecastHandler {
	return &ForecastHandler{logger: logger, pipeline: p, store: store}
}

func (h *ForecastHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1")
	g.POST("/forecasts", h.Create)
	g.GET("/forecasts", h.History)
}

func (h *ForecastHandler) Create(c echo.Context) error {
	req := &models.ForecastHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	result, err := h.pipeline.Run(c.Request().Context(), &models.ForecastRequest{
		UserID:         req.UserID,
		Symbol:         req.Symbol,
		Model:          models.ModelID(req.Model),
		Horizon:        req.HorizonDays,
		TrainingWindow: req.TrainingWindow,
		Tier:           models.Tier(req.Tier),
	})
	if err != nil {
		return xhttp.AppErrorResponse(c, mapDomainError(err))
	}
	return xhttp.SuccessResponse(c, result)
}

func (h *ForecastHandler) History(c echo.Context) error {
	req := &models.HistoryHTTPRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	results, err := h.store.List(c.Request().Context(), req.UserID, req.Limit)
	if err != nil {
		h.logger.Error("forecast history query error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, results, int64(len(results)))
}

// mapDomainError translates pipeline errors into boundary errors without
// leaking provider internals.
func mapDomainError(err error) error {
	var violation *models.PolicyViolation
	switch {
	case errors.As(err, &violation):
		return xhttp.ForbiddenError(violation.Reason, violation.Message)
	case errors.Is(err, models.ErrNoData):
		return xhttp.NotFoundError("no price data for symbol")
	case errors.Is(err, models.ErrInsufficientHistory):
		return xhttp.UnprocessableError("insufficient_history",
			"not enough price history for the requested horizon")
	default:
		return xhttp.InternalError("forecast pipeline failed")
	}
}
