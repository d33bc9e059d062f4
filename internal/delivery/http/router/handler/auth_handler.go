package handler

import (
	"log/slog"
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AuthHandler holds dependencies for registration and login handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		logger: logger,
	}
}

type registerUserRequest struct {
	Username string      `json:"username" validate:"required,max=50"`
	Password string      `json:"password" validate:"required"`
	Phone    string      `json:"phone" validate:"max=30"`
	Role     entity.Role `json:"role" validate:"required,oneof=FACTORY_SALES INVENTORY_MANAGER"`
}

type registerAgentRequest struct {
	CompanyName    string     `json:"companyName" validate:"required,max=100"`
	Password       string     `json:"password" validate:"required"`
	ContactPerson  string     `json:"contactPerson" validate:"max=50"`
	Phone          string     `json:"phone" validate:"max=30"`
	RelatedSalesID *uuid.UUID `json:"relatedSalesId"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	UserType string `json:"userType" validate:"omitempty,oneof=user agent"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required"`
}

// RegisterUser handles staff self-registration. The account waits for approval.
func (h *AuthHandler) RegisterUser(c echo.Context) error {
	var req registerUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.uc.RegisterUser(c.Request().Context(), usecase.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Role:     req.Role,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, user, "注册成功，请等待管理员审核")
}

// RegisterAgent handles agent company self-registration.
func (h *AuthHandler) RegisterAgent(c echo.Context) error {
	var req registerAgentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	agent, err := h.uc.RegisterAgent(c.Request().Context(), usecase.RegisterAgentInput{
		CompanyName:    req.CompanyName,
		Password:       req.Password,
		ContactPerson:  req.ContactPerson,
		Phone:          req.Phone,
		RelatedSalesID: req.RelatedSalesID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, agent, "注册成功，请等待管理员审核")
}

// Login handles the login request of users and agents.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	accountType := usecase.AccountTypeUser
	if req.UserType == string(usecase.AccountTypeAgent) {
		accountType = usecase.AccountTypeAgent
	}

	output, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Username:    req.Username,
		Password:    req.Password,
		AccountType: accountType,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, output, "登录成功")
}

// Me returns the profile of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	profile, err := h.uc.Me(c.Request().Context(), principal)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "")
}

// ChangePassword verifies the old password and stores the new one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	if err := h.uc.ChangePassword(c.Request().Context(), principal, usecase.ChangePasswordInput{
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	}); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "密码修改成功")
}
