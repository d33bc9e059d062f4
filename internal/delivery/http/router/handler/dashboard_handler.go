package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DashboardHandler serves chart data and headline counts.
type DashboardHandler struct {
	uc usecase.DashboardUsecase
}

// NewDashboardHandler is the constructor for DashboardHandler, injected by Fx.
func NewDashboardHandler(uc usecase.DashboardUsecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Overview returns the chart-ready aggregates.
func (h *DashboardHandler) Overview(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	overview, err := h.uc.Overview(c.Request().Context(), principal)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, overview, "")
}

// Stats returns the headline counts.
func (h *DashboardHandler) Stats(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Request().Context(), principal)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}
