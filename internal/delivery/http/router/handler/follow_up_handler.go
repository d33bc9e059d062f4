package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// FollowUpHandler holds dependencies for follow-up notes.
type FollowUpHandler struct {
	uc usecase.FollowUpUsecase
}

// NewFollowUpHandler is the constructor for FollowUpHandler, injected by Fx.
func NewFollowUpHandler(uc usecase.FollowUpUsecase) *FollowUpHandler {
	return &FollowUpHandler{uc: uc}
}

type listFollowUpsRequest struct {
	CustomerID string `query:"customerId" validate:"required"`
	entity.Page
}

type followUpRequest struct {
	CustomerID uuid.UUID `json:"customerId" validate:"required"`
	Title      string    `json:"title" validate:"required,max=200"`
	Content    string    `json:"content" validate:"required"`
}

func (r followUpRequest) input() usecase.FollowUpInput {
	return usecase.FollowUpInput{
		CustomerID: r.CustomerID,
		Title:      r.Title,
		Content:    r.Content,
	}
}

// List returns the follow-ups of one customer.
func (h *FollowUpHandler) List(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listFollowUpsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customerID, err := optionalUUID(req.CustomerID, "customerId")
	if err != nil {
		return err
	}
	if customerID == nil {
		return domainerrors.ErrValidationFailed.WithDetails("customerId is required")
	}

	result, err := h.uc.List(c.Request().Context(), principal, *customerID, req.Page)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Create records a follow-up on a visible customer.
func (h *FollowUpHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req followUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	record, err := h.uc.Create(c.Request().Context(), principal, req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, record, "跟进记录已创建")
}

// Update edits a follow-up written by the caller.
func (h *FollowUpHandler) Update(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req followUpRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	record, err := h.uc.Update(c.Request().Context(), principal, id, req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, record, "跟进记录已更新")
}

// Delete removes a follow-up.
func (h *FollowUpHandler) Delete(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), principal, id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "跟进记录已删除")
}
