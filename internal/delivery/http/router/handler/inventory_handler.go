package handler

import (
	"io"
	"net/http"

	"crm/internal/delivery/http/export"
	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InventoryHandler serves the stock audit log.
type InventoryHandler struct {
	uc usecase.InventoryUsecase
}

// NewInventoryHandler is the constructor for InventoryHandler, injected by Fx.
func NewInventoryHandler(uc usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type listRecordsRequest struct {
	ProductID     string                    `query:"productId"`
	OperationType entity.StockOperationType `query:"operationType" validate:"omitempty,oneof=IN OUT"`
	StartDate     string                    `query:"startDate"`
	EndDate       string                    `query:"endDate"`
	entity.Page
}

func (r listRecordsRequest) filter() (repository.InventoryFilter, error) {
	productID, err := optionalUUID(r.ProductID, "productId")
	if err != nil {
		return repository.InventoryFilter{}, err
	}

	from, err := parseDate(r.StartDate, "startDate", false)
	if err != nil {
		return repository.InventoryFilter{}, err
	}

	to, err := parseDate(r.EndDate, "endDate", true)
	if err != nil {
		return repository.InventoryFilter{}, err
	}

	return repository.InventoryFilter{
		ProductID:     productID,
		OperationType: r.OperationType,
		From:          from,
		To:            to,
		Page:          r.Page,
	}, nil
}

// ListRecords returns a page of stock audit records.
func (h *InventoryHandler) ListRecords(c echo.Context) error {
	var req listRecordsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	filter, err := req.filter()
	if err != nil {
		return err
	}

	result, err := h.uc.ListRecords(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, result, "")
}

// ExportRecords downloads the matching stock audit records as CSV.
func (h *InventoryHandler) ExportRecords(c echo.Context) error {
	var req listRecordsRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	filter, err := req.filter()
	if err != nil {
		return err
	}

	records, err := h.uc.ExportRecords(c.Request().Context(), filter)
	if err != nil {
		return errors.WithStack(err)
	}

	return writeCSV(c, "inventory_records", func(w io.Writer) error {
		return export.InventoryRecords(w, records)
	})
}
