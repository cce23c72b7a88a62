package api

import (
	"net/http"

	domrepo "StockCast/internal/domain/repository"
	xhttp "StockCast/pkg/http"
	xlogger "StockCast/pkg/logger"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports service and storage health.
type HealthHandler struct {
	logger *xlogger.Logger
	store  domrepo.ForecastStore
}

func NewHealthHandler(logger *xlogger.Logger, store domrepo.ForecastStore) *HealthHandler {
	return &HealthHandler{logger: logger, store: store}
}

func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
}

type healthStatus struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
}

func (h *HealthHandler) Health(c echo.Context) error {
	status := healthStatus{Status: "ok", Storage: "ok"}
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Warn("storage health check failed", xlogger.Error(err))
		status.Status = "degraded"
		status.Storage = "unavailable"
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
	}
	return xhttp.SuccessResponse(c, status)
}
