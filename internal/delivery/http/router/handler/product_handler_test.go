package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/middleware"
	"crm/internal/delivery/http/validator"
	"crm/internal/domain/entity"
	"crm/internal/domain/repository"
	"crm/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInventoryUsecase struct {
	mock.Mock
}

func (m *mockInventoryUsecase) Mutate(ctx context.Context, actor entity.Principal, input usecase.StockMutationInput) (*usecase.StockMutationResult, error) {
	args := m.Called(ctx, actor, input)
	r0, _ := args.Get(0).(*usecase.StockMutationResult)

	return r0, args.Error(1)
}

func (m *mockInventoryUsecase) BulkMutate(ctx context.Context, actor entity.Principal, inputs []usecase.StockMutationInput) ([]usecase.BulkStockItemResult, error) {
	args := m.Called(ctx, actor, inputs)
	r0, _ := args.Get(0).([]usecase.BulkStockItemResult)

	return r0, args.Error(1)
}

func (m *mockInventoryUsecase) ListRecords(ctx context.Context, filter repository.InventoryFilter) (*usecase.PageResult[*usecase.InventoryRecordView], error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).(*usecase.PageResult[*usecase.InventoryRecordView])

	return r0, args.Error(1)
}

func (m *mockInventoryUsecase) ExportRecords(ctx context.Context, filter repository.InventoryFilter) ([]*usecase.InventoryRecordView, error) {
	args := m.Called(ctx, filter)
	r0, _ := args.Get(0).([]*usecase.InventoryRecordView)

	return r0, args.Error(1)
}

var operator = entity.Principal{ID: uuid.New(), Role: entity.RoleInventoryManager, Username: "carol"}

// newTestServer mounts h behind a fake authentication step that trusts the operator.
func newTestServer(method, path string, h echo.HandlerFunc) *echo.Echo {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	e := echo.New()
	e.Validator = validator.New()
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Add(method, path, h, func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			deliverycontext.SetPrincipal(c, operator)

			return next(c)
		}
	})

	return e
}

func postJSON(e *echo.Echo, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Warning string          `json:"warning"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())

	return env
}

func TestProductHandler_StockOut(t *testing.T) {
	productID := uuid.New()
	stock := int64(6)

	t.Run("success", func(t *testing.T) {
		inventory := &mockInventoryUsecase{}
		inventory.On("Mutate", mock.Anything, operator, usecase.StockMutationInput{
			ProductID:     productID,
			OperationType: entity.StockOut,
			Quantity:      4,
			OperationID:   "op-1",
		}).Return(&usecase.StockMutationResult{
			Status:       entity.MutationSuccess,
			OperationID:  "op-1",
			CurrentStock: &stock,
		}, nil).Once()

		h := NewProductHandler(nil, inventory)
		e := newTestServer(http.MethodPost, "/stock-out", h.StockOut)

		rec := postJSON(e, "/stock-out", `{"productId":"`+productID.String()+`","quantity":4,"operationId":"op-1"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Empty(t, env.Warning)
		assert.JSONEq(t, `{"status":"success","operationId":"op-1","currentStock":6}`, string(env.Data))
		inventory.AssertExpectations(t)
	})

	t.Run("idempotency key header is used when the body has none", func(t *testing.T) {
		inventory := &mockInventoryUsecase{}
		inventory.On("Mutate", mock.Anything, operator, mock.MatchedBy(func(in usecase.StockMutationInput) bool {
			return in.OperationID == "hdr-7"
		})).Return(&usecase.StockMutationResult{
			Status:      entity.MutationAlreadyCompleted,
			OperationID: "hdr-7",
			Warning:     "该操作已完成，未重复执行",
		}, nil).Once()

		h := NewProductHandler(nil, inventory)
		e := newTestServer(http.MethodPost, "/stock-out", h.StockOut)

		rec := postJSON(e, "/stock-out", `{"productId":"`+productID.String()+`","quantity":4}`, map[string]string{HeaderIdempotencyKey: "hdr-7"})

		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.NotEmpty(t, env.Warning)
		inventory.AssertExpectations(t)
	})

	t.Run("uncertain outcome answers 202", func(t *testing.T) {
		inventory := &mockInventoryUsecase{}
		inventory.On("Mutate", mock.Anything, operator, mock.Anything).Return(&usecase.StockMutationResult{
			Status:      entity.MutationStatusUncertain,
			OperationID: "op-9",
			Warning:     "库存操作状态不确定，请刷新后核对库存",
		}, nil).Once()

		h := NewProductHandler(nil, inventory)
		e := newTestServer(http.MethodPost, "/stock-out", h.StockOut)

		rec := postJSON(e, "/stock-out", `{"productId":"`+productID.String()+`","quantity":1}`, nil)

		assert.Equal(t, http.StatusAccepted, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.True(t, env.Success)
		assert.Equal(t, "库存操作状态不确定，请刷新后核对库存", env.Warning)
	})

	t.Run("non-positive quantity is rejected before the use case", func(t *testing.T) {
		inventory := &mockInventoryUsecase{}
		h := NewProductHandler(nil, inventory)
		e := newTestServer(http.MethodPost, "/stock-out", h.StockOut)

		rec := postJSON(e, "/stock-out", `{"productId":"`+productID.String()+`","quantity":0}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		env := decodeEnvelope(t, rec)
		assert.False(t, env.Success)
		assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
		assert.Contains(t, env.Error.Details, "quantity")
		inventory.AssertNotCalled(t, "Mutate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		h := NewProductHandler(nil, &mockInventoryUsecase{})
		e := newTestServer(http.MethodPost, "/stock-in", h.StockIn)

		rec := postJSON(e, "/stock-in", `{"productId":`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "VALIDATION_FAILED", decodeEnvelope(t, rec).Error.Code)
	})
}

func TestInventoryHandler_ExportRecords(t *testing.T) {
	from := "2024-05-01"
	inventory := &mockInventoryUsecase{}
	inventory.On("ExportRecords", mock.Anything, mock.MatchedBy(func(f repository.InventoryFilter) bool {
		return f.From != nil && f.From.Day() == 1 && f.To != nil && f.To.Day() == 31 && f.OperationType == entity.StockIn
	})).Return([]*usecase.InventoryRecordView{{
		InventoryRecord: &entity.InventoryRecord{OperationType: entity.StockIn, Quantity: 10, StockAfter: 10, OperationID: "op-1"},
		ModelName:       "X1",
		PackageType:     "SOT23",
	}}, nil).Once()

	h := NewInventoryHandler(inventory)
	e := newTestServer(http.MethodGet, "/export", h.ExportRecords)

	req := httptest.NewRequest(http.MethodGet, "/export?startDate="+from+"&endDate=2024-05-31&operationType=IN", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "inventory_records_")
	assert.Contains(t, rec.Body.String(), "X1,SOT23,入库,10")
	inventory.AssertExpectations(t)
}

func TestInventoryHandler_RejectsBadDate(t *testing.T) {
	h := NewInventoryHandler(&mockInventoryUsecase{})
	e := newTestServer(http.MethodGet, "/records", h.ListRecords)

	req := httptest.NewRequest(http.MethodGet, "/records?startDate=yesterday", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Details, "startDate")
}
