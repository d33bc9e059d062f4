package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HistoryHandler serves the customer assignment and progress logs.
type HistoryHandler struct {
	uc usecase.HistoryUsecase
}

// NewHistoryHandler is the constructor for HistoryHandler, injected by Fx.
func NewHistoryHandler(uc usecase.HistoryUsecase) *HistoryHandler {
	return &HistoryHandler{uc: uc}
}

type listHistoryRequest struct {
	CustomerID string `query:"customerId"`
	entity.Page
}

// ListAssignments returns assignment history, optionally for one customer.
func (h *HistoryHandler) ListAssignments(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listHistoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customerID, err := optionalUUID(req.CustomerID, "customerId")
	if err != nil {
		return err
	}

	result, err := h.uc.ListAssignments(c.Request().Context(), principal, customerID, req.Page)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// ListProgress returns progress history, optionally for one customer.
func (h *HistoryHandler) ListProgress(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listHistoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customerID, err := optionalUUID(req.CustomerID, "customerId")
	if err != nil {
		return err
	}

	result, err := h.uc.ListProgress(c.Request().Context(), principal, customerID, req.Page)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}
