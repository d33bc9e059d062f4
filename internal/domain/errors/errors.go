package errors

import (
	"net/http"

	"github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Is matches errors by business code so WithDetails copies still match the predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// Predefined error types
var (
	// Authentication and authorization
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"用户名或密码错误",
		"",
	)

	ErrUnauthorized = NewBaseError(
		http.StatusUnauthorized,
		"UNAUTHORIZED",
		"未登录或登录已过期",
		"",
	)

	ErrAccountPending = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_PENDING",
		"账号正在等待管理员审核",
		"",
	)

	ErrAccountRejected = NewBaseError(
		http.StatusForbidden,
		"ACCOUNT_REJECTED",
		"账号审核未通过",
		"",
	)

	ErrForbidden = NewBaseError(
		http.StatusForbidden,
		"FORBIDDEN",
		"没有权限执行此操作",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"密码处理错误",
		"",
	)

	// Users and agents
	ErrUserNotFound = NewBaseError(
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"用户不存在",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"用户名已存在",
		"",
	)

	ErrCannotDeleteSuperAdmin = NewBaseError(
		http.StatusForbidden,
		"CANNOT_DELETE_SUPER_ADMIN",
		"不能删除超级管理员",
		"",
	)

	ErrCannotDeleteSelf = NewBaseError(
		http.StatusForbidden,
		"CANNOT_DELETE_SELF",
		"不能删除当前登录的账号",
		"",
	)

	ErrAgentNotFound = NewBaseError(
		http.StatusNotFound,
		"AGENT_NOT_FOUND",
		"代理商不存在",
		"",
	)

	ErrAgentAlreadyExists = NewBaseError(
		http.StatusConflict,
		"AGENT_ALREADY_EXISTS",
		"代理商公司名称已存在",
		"",
	)

	// Customers
	ErrCustomerNotFound = NewBaseError(
		http.StatusNotFound,
		"CUSTOMER_NOT_FOUND",
		"客户不存在",
		"",
	)

	ErrCustomerAlreadyExists = NewBaseError(
		http.StatusConflict,
		"CUSTOMER_ALREADY_EXISTS",
		"客户名称已存在",
		"",
	)

	ErrCustomerInPublicPool = NewBaseError(
		http.StatusBadRequest,
		"CUSTOMER_IN_PUBLIC_POOL",
		"客户已在公海池中",
		"",
	)

	ErrCustomerNotInPublicPool = NewBaseError(
		http.StatusBadRequest,
		"CUSTOMER_NOT_IN_PUBLIC_POOL",
		"客户不在公海池中",
		"",
	)

	ErrInvalidAssignTarget = NewBaseError(
		http.StatusBadRequest,
		"INVALID_ASSIGN_TARGET",
		"分配目标无效",
		"",
	)

	ErrFollowUpNotFound = NewBaseError(
		http.StatusNotFound,
		"FOLLOW_UP_NOT_FOUND",
		"跟进记录不存在",
		"",
	)

	// Products and inventory
	ErrProductNotFound = NewBaseError(
		http.StatusNotFound,
		"PRODUCT_NOT_FOUND",
		"产品不存在",
		"",
	)

	ErrProductAlreadyExists = NewBaseError(
		http.StatusConflict,
		"PRODUCT_ALREADY_EXISTS",
		"相同型号和封装的产品已存在",
		"",
	)

	ErrInvalidPricing = NewBaseError(
		http.StatusBadRequest,
		"INVALID_PRICING",
		"阶梯价格必须包含7个档位",
		"",
	)

	ErrInsufficientStock = NewBaseError(
		http.StatusBadRequest,
		"INSUFFICIENT_STOCK",
		"库存不足",
		"",
	)

	ErrIdempotencyKeyReused = NewBaseError(
		http.StatusConflict,
		"IDEMPOTENCY_KEY_REUSED",
		"操作编号已被不同的库存操作使用",
		"",
	)

	ErrStockOperationFailed = NewBaseError(
		http.StatusServiceUnavailable,
		"STOCK_OPERATION_FAILED",
		"库存操作失败，请稍后重试",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"输入数据验证失败",
		"",
	)

	// Transaction-related errors
	ErrTransactionFailed = NewBaseError(
		http.StatusInternalServerError,
		"TRANSACTION_FAILED",
		"数据库事务失败",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"系统内部错误",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		"NOT_FOUND",
		"资源不存在",
		"",
	)

	ErrTooManyRequests = NewBaseError(
		http.StatusTooManyRequests,
		"TOO_MANY_REQUESTS",
		"请求过于频繁，请稍后再试",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error so transient markers stay visible.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "数据库执行失败"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
