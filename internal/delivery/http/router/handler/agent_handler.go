package handler

import (
	"net/http"

	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// AgentHandler holds dependencies for agent company administration.
type AgentHandler struct {
	uc usecase.AgentUsecase
}

// NewAgentHandler is the constructor for AgentHandler, injected by Fx.
func NewAgentHandler(uc usecase.AgentUsecase) *AgentHandler {
	return &AgentHandler{uc: uc}
}

type listAgentsRequest struct {
	Status         entity.ApprovalStatus `query:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED"`
	Keyword        string                `query:"keyword"`
	RelatedSalesID string                `query:"relatedSalesId"`
	entity.Page
}

type createAgentRequest struct {
	CompanyName    string     `json:"companyName" validate:"required,max=100"`
	Password       string     `json:"password" validate:"required"`
	ContactPerson  string     `json:"contactPerson" validate:"max=50"`
	Phone          string     `json:"phone" validate:"max=30"`
	RelatedSalesID *uuid.UUID `json:"relatedSalesId"`
}

type updateAgentRequest struct {
	ContactPerson  *string    `json:"contactPerson" validate:"omitempty,max=50"`
	Phone          *string    `json:"phone" validate:"omitempty,max=30"`
	Password       *string    `json:"password"`
	RelatedSalesID *uuid.UUID `json:"relatedSalesId"`
}

// List returns the agents visible to the caller.
func (h *AgentHandler) List(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listAgentsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	salesID, err := optionalUUID(req.RelatedSalesID, "relatedSalesId")
	if err != nil {
		return err
	}

	result, err := h.uc.List(c.Request().Context(), principal, repository.AgentFilter{
		RelatedSalesID: salesID,
		Status:         req.Status,
		Keyword:        req.Keyword,
		Page:           req.Page,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Get returns one agent.
func (h *AgentHandler) Get(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	agent, err := h.uc.Get(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, agent, "")
}

// Create adds an agent. Agents created by sales wait for approval.
func (h *AgentHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req createAgentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	agent, err := h.uc.Create(c.Request().Context(), principal, usecase.CreateAgentInput{
		CompanyName:    req.CompanyName,
		Password:       req.Password,
		ContactPerson:  req.ContactPerson,
		Phone:          req.Phone,
		RelatedSalesID: req.RelatedSalesID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, agent, "代理商创建成功")
}

// Update edits an agent's contact data, password or sales representative.
func (h *AgentHandler) Update(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateAgentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	agent, err := h.uc.Update(c.Request().Context(), principal, id, usecase.UpdateAgentInput{
		ContactPerson:  req.ContactPerson,
		Phone:          req.Phone,
		Password:       req.Password,
		RelatedSalesID: req.RelatedSalesID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, agent, "代理商更新成功")
}

// Approve activates a pending agent.
func (h *AgentHandler) Approve(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	agent, err := h.uc.Approve(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, agent, "审核通过")
}

// Reject refuses a pending agent with a reason.
func (h *AgentHandler) Reject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req rejectRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	agent, err := h.uc.Reject(c.Request().Context(), id, req.Reason)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, agent, "已拒绝")
}

// Delete removes an agent.
func (h *AgentHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "代理商已删除")
}
