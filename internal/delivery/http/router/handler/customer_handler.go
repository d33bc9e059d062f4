package handler

import (
	"io"
	"net/http"

	"crm/internal/delivery/http/export"
	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CustomerHandler holds dependencies for customer management.
type CustomerHandler struct {
	uc usecase.CustomerUsecase
}

// NewCustomerHandler is the constructor for CustomerHandler, injected by Fx.
func NewCustomerHandler(uc usecase.CustomerUsecase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

type listCustomersRequest struct {
	Keyword    string                    `query:"keyword"`
	Progress   entity.CustomerProgress   `query:"progress"`
	Importance entity.CustomerImportance `query:"importance"`
	entity.Page
}

func (r listCustomersRequest) query() usecase.CustomerQuery {
	return usecase.CustomerQuery{
		Keyword:    r.Keyword,
		Progress:   r.Progress,
		Importance: r.Importance,
		Page:       r.Page,
	}
}

type customerRequest struct {
	Name             string                    `json:"name" validate:"required,max=200"`
	Nature           entity.CustomerNature     `json:"nature"`
	Importance       entity.CustomerImportance `json:"importance"`
	ApplicationField string                    `json:"applicationField" validate:"max=200"`
	Progress         entity.CustomerProgress   `json:"progress"`
	Address          string                    `json:"address" validate:"max=500"`
	ContactName      string                    `json:"contactName" validate:"max=50"`
	ContactPhone     string                    `json:"contactPhone" validate:"max=30"`
	ProductNeeds     []string                  `json:"productNeeds"`
	AnnualDemand     int64                     `json:"annualDemand"`
	Remark           string                    `json:"remark"`
	RelatedSalesID   *uuid.UUID                `json:"relatedSalesId"`
	RelatedAgentID   *uuid.UUID                `json:"relatedAgentId"`
}

func (r customerRequest) input() usecase.CustomerInput {
	return usecase.CustomerInput{
		Name:             r.Name,
		Nature:           r.Nature,
		Importance:       r.Importance,
		ApplicationField: r.ApplicationField,
		Progress:         r.Progress,
		Address:          r.Address,
		ContactName:      r.ContactName,
		ContactPhone:     r.ContactPhone,
		ProductNeeds:     r.ProductNeeds,
		AnnualDemand:     r.AnnualDemand,
		Remark:           r.Remark,
		RelatedSalesID:   r.RelatedSalesID,
		RelatedAgentID:   r.RelatedAgentID,
	}
}

// Rows are validated one by one by the use case so a bad row does not fail the batch.
type bulkImportRequest struct {
	Customers []customerRequest `json:"customers" validate:"required,min=1,max=1000"`
}

type duplicateCheckRequest struct {
	Name string `query:"name" validate:"required"`
}

type moveToPublicRequest struct {
	Remark string `json:"remark" validate:"max=500"`
}

type bulkTransferRequest struct {
	CustomerIDs []uuid.UUID `json:"customerIds"`
	FromSalesID *uuid.UUID  `json:"fromSalesId"`
	FromAgentID *uuid.UUID  `json:"fromAgentId"`
	ToSalesID   *uuid.UUID  `json:"toSalesId"`
	ToAgentID   *uuid.UUID  `json:"toAgentId"`
	Remark      string      `json:"remark" validate:"max=500"`
}

// List returns a page of customers visible to the caller.
func (h *CustomerHandler) List(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listCustomersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.uc.List(c.Request().Context(), principal, req.query())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Get returns one visible customer.
func (h *CustomerHandler) Get(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	customer, err := h.uc.Get(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "")
}

// Create adds a customer owned by the caller.
func (h *CustomerHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, err := h.uc.Create(c.Request().Context(), principal, req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, customer, "客户创建成功")
}

// Update replaces the editable fields of a customer.
func (h *CustomerHandler) Update(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req customerRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, err := h.uc.Update(c.Request().Context(), principal, id, req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "客户更新成功")
}

// Delete removes a customer.
func (h *CustomerHandler) Delete(c echo.Context) error {
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

	return response.Success(c, http.StatusOK, nil, "客户已删除")
}

// CheckDuplicate reports whether a customer name is already taken.
func (h *CustomerHandler) CheckDuplicate(c echo.Context) error {
	var req duplicateCheckRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.uc.CheckDuplicate(c.Request().Context(), req.Name)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// BulkImport creates customers row by row and reports each row's outcome.
func (h *CustomerHandler) BulkImport(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req bulkImportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inputs := make([]usecase.CustomerInput, 0, len(req.Customers))
	for _, row := range req.Customers {
		inputs = append(inputs, row.input())
	}

	result, err := h.uc.BulkImport(c.Request().Context(), principal, inputs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "批量导入完成")
}

// MoveToPublicPool releases a customer into the public pool.
func (h *CustomerHandler) MoveToPublicPool(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req moveToPublicRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customer, err := h.uc.MoveToPublicPool(c.Request().Context(), principal, id, req.Remark)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, customer, "客户已移入公海池")
}

// BulkTransfer moves customers between sales representatives or agents.
func (h *CustomerHandler) BulkTransfer(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req bulkTransferRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.uc.BulkTransfer(c.Request().Context(), principal, usecase.BulkTransferInput{
		CustomerIDs: req.CustomerIDs,
		FromSalesID: req.FromSalesID,
		FromAgentID: req.FromAgentID,
		ToSalesID:   req.ToSalesID,
		ToAgentID:   req.ToAgentID,
		Remark:      req.Remark,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "客户转移完成")
}

// Export downloads every visible customer matching the filters as CSV.
func (h *CustomerHandler) Export(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req listCustomersRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customers, err := h.uc.Export(c.Request().Context(), principal, req.query())
	if err != nil {
		return errors.WithStack(err)
	}

	return writeCSV(c, "customers", func(w io.Writer) error {
		return export.Customers(w, customers)
	})
}
