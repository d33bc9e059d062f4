package handler

import (
	"io"
	"net/http"
	"strings"

	"crm/internal/delivery/http/export"
	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProductHandler holds dependencies for the catalog and stock mutations.
type ProductHandler struct {
	products  usecase.ProductUsecase
	inventory usecase.InventoryUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(products usecase.ProductUsecase, inventory usecase.InventoryUsecase) *ProductHandler {
	return &ProductHandler{
		products:  products,
		inventory: inventory,
	}
}

type listProductsRequest struct {
	Keyword     string `query:"keyword"`
	PackageType string `query:"packageType"`
	entity.Page
}

func (r listProductsRequest) filter() repository.ProductFilter {
	return repository.ProductFilter{
		Keyword:     r.Keyword,
		PackageType: r.PackageType,
		Page:        r.Page,
	}
}

type createProductRequest struct {
	ModelName   string         `json:"modelName" validate:"required,max=100"`
	PackageType string         `json:"packageType" validate:"required,max=50"`
	Stock       int64          `json:"stock" validate:"gte=0"`
	Pricing     entity.Pricing `json:"pricing" validate:"required"`
	Remark      string         `json:"remark"`
}

// Stock is deliberately absent; it only moves through stock-in and stock-out.
type updateProductRequest struct {
	ModelName   *string        `json:"modelName" validate:"omitempty,max=100"`
	PackageType *string        `json:"packageType" validate:"omitempty,max=50"`
	Pricing     entity.Pricing `json:"pricing"`
	Remark      *string        `json:"remark"`
}

type stockRequest struct {
	ProductID   uuid.UUID `json:"productId" validate:"required"`
	Quantity    int64     `json:"quantity" validate:"required,gt=0"`
	Remark      string    `json:"remark" validate:"max=500"`
	OperationID string    `json:"operationId" validate:"max=128"`
}

type bulkStockItem struct {
	ProductID     uuid.UUID                 `json:"productId"`
	OperationType entity.StockOperationType `json:"operationType"`
	Quantity      int64                     `json:"quantity"`
	Remark        string                    `json:"remark"`
	OperationID   string                    `json:"operationId"`
}

// Items are validated by the use case so each one gets its own outcome.
type bulkStockRequest struct {
	Items []bulkStockItem `json:"items" validate:"required,min=1,max=200"`
}

// List returns a page of products.
func (h *ProductHandler) List(c echo.Context) error {
	var req listProductsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	result, err := h.products.List(c.Request().Context(), req.filter())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// Get returns one product.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	product, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "")
}

// Create adds a product; a positive initial stock is booked as a stock-in.
func (h *ProductHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req createProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.products.Create(c.Request().Context(), principal, usecase.CreateProductInput{
		ModelName:   req.ModelName,
		PackageType: req.PackageType,
		Stock:       req.Stock,
		Pricing:     req.Pricing,
		Remark:      req.Remark,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "产品创建成功")
}

// Update edits catalog fields.
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req updateProductRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), id, usecase.UpdateProductInput{
		ModelName:   req.ModelName,
		PackageType: req.PackageType,
		Pricing:     req.Pricing,
		Remark:      req.Remark,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "产品更新成功")
}

// Delete removes a product.
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "产品已删除")
}

// StockIn adds stock to a product.
func (h *ProductHandler) StockIn(c echo.Context) error {
	return h.mutate(c, entity.StockIn)
}

// StockOut removes stock from a product.
func (h *ProductHandler) StockOut(c echo.Context) error {
	return h.mutate(c, entity.StockOut)
}

func (h *ProductHandler) mutate(c echo.Context, opType entity.StockOperationType) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req stockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	operationID := strings.TrimSpace(req.OperationID)
	if operationID == "" {
		operationID = strings.TrimSpace(c.Request().Header.Get(HeaderIdempotencyKey))
	}

	result, err := h.inventory.Mutate(c.Request().Context(), principal, usecase.StockMutationInput{
		ProductID:     req.ProductID,
		OperationType: opType,
		Quantity:      req.Quantity,
		Remark:        req.Remark,
		OperationID:   operationID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.SuccessWithWarning(c, mutationStatusCode(result.Status), result, mutationMessage(opType, result.Status), result.Warning)
}

// BulkStock applies several stock mutations independently.
func (h *ProductHandler) BulkStock(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req bulkStockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	inputs := make([]usecase.StockMutationInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, usecase.StockMutationInput{
			ProductID:     item.ProductID,
			OperationType: item.OperationType,
			Quantity:      item.Quantity,
			Remark:        item.Remark,
			OperationID:   strings.TrimSpace(item.OperationID),
		})
	}

	results, err := h.inventory.BulkMutate(c.Request().Context(), principal, inputs)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, results, "批量库存操作完成")
}

// Export downloads the matching products with their price tiers as CSV.
func (h *ProductHandler) Export(c echo.Context) error {
	var req listProductsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	products, err := h.products.Export(c.Request().Context(), req.filter())
	if err != nil {
		return errors.WithStack(err)
	}

	return writeCSV(c, "products", func(w io.Writer) error {
		return export.Products(w, products)
	})
}

// mutationStatusCode answers 202 when the outcome must be verified by the client.
func mutationStatusCode(status entity.StockMutationStatus) int {
	if status == entity.MutationStatusUncertain {
		return http.StatusAccepted
	}

	return http.StatusOK
}

func mutationMessage(opType entity.StockOperationType, status entity.StockMutationStatus) string {
	switch status {
	case entity.MutationAlreadyCompleted:
		return "操作已完成"
	case entity.MutationStatusUncertain:
		return "操作状态不确定"
	}

	if opType == entity.StockOut {
		return "出库成功"
	}

	return "入库成功"
}
