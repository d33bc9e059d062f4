package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// UserHandler holds dependencies for staff account administration.
type UserHandler struct {
	uc usecase.UserUsecase
}

// NewUserHandler is the constructor for UserHandler, injected by Fx.
func NewUserHandler(uc usecase.UserUsecase) *UserHandler {
	return &UserHandler{uc: uc}
}

type listUsersRequest struct {
	Role    entity.Role           `query:"role" validate:"omitempty,oneof=SUPER_ADMIN FACTORY_SALES INVENTORY_MANAGER"`
	Status  entity.ApprovalStatus `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Keyword string                `query:"keyword"`
	entity.Page
}

type createUserRequest struct {
	Username string      `json:"username" validate:"required,max=50"`
	Password string      `json:"password" validate:"required"`
	Phone    string      `json:"phone" validate:"max=30"`
	Role     entity.Role `json:"role" validate:"required,oneof=SUPER_ADMIN FACTORY_SALES INVENTORY_MANAGER"`
}

type updateUserRequest struct {
	Phone    *string      `json:"phone" validate:"omitempty,max=30"`
	Role     *entity.Role `json:"role" validate:"omitempty,oneof=SUPER_ADMIN FACTORY_SALES INVENTORY_MANAGER"`
	Password *string      `json:"password"`
}

// List returns a page of staff accounts.
func (h *UserHandler) List(c echo.Context) error {
	var req listUsersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.uc.List(c.Request().Context(), repository.UserFilter{
		Role:    req.Role,
		Status:  req.Status,
		Keyword: req.Keyword,
		Page:    req.Page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Get returns one staff account.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "")
}

// Create adds an approved staff account.
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.uc.Create(c.Request().Context(), usecase.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "用户创建成功")
}

// Update changes phone, role or password.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.uc.Update(c.Request().Context(), id, usecase.UpdateUserInput{
		Phone:    req.Phone,
		Role:     req.Role,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "用户更新成功")
}

// Approve activates a pending account.
func (h *UserHandler) Approve(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.uc.Approve(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "审核通过")
}

// Reject refuses a pending account with a reason.
func (h *UserHandler) Reject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req rejectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.uc.Reject(c.Request().Context(), id, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, user, "已拒绝")
}

// Delete removes a staff account.
func (h *UserHandler) Delete(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "用户已删除")
}
