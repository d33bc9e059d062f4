package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PublicPoolHandler holds dependencies for the public customer pool.
type PublicPoolHandler struct {
	uc usecase.PublicPoolUsecase
}

// NewPublicPoolHandler is the constructor for PublicPoolHandler, injected by Fx.
func NewPublicPoolHandler(uc usecase.PublicPoolUsecase) *PublicPoolHandler {
	return &PublicPoolHandler{uc: uc}
}

type assignRequest struct {
	TargetType entity.Role `json:"targetType" validate:"required,oneof=FACTORY_SALES AGENT"`
	TargetID   uuid.UUID   `json:"targetId" validate:"required"`
	Remark     string      `json:"remark" validate:"max=500"`
}

// List returns pooled customers without contact details.
func (h *PublicPoolHandler) List(c echo.Context) error {
	var req listCustomersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.uc.List(c.Request().Context(), req.query())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Assign hands a pooled customer to a sales representative or an agent.
func (h *PublicPoolHandler) Assign(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req assignRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, err := h.uc.Assign(c.Request().Context(), principal, id, usecase.AssignInput{
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Remark:     req.Remark,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "客户分配成功")
}

// Claim takes a pooled customer for the caller.
func (h *PublicPoolHandler) Claim(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	customer, err := h.uc.Claim(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "客户认领成功")
}
