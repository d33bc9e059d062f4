// Package response writes the JSON envelope shared by every endpoint.
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Response is the envelope; Code repeats the HTTP status and Message is shown to the operator.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Warning string     `json:"warning,omitempty"`
}

// ErrorInfo carries the stable business code clients branch on, e.g. "INSUFFICIENT_STOCK".
type ErrorInfo struct {
	Code    string `json:"code"`
	Details string `json:"details"`
}

// Success writes data with an optional message, defaulting to "Success".
func Success(c echo.Context, statusCode int, data any, message string) error {
	return SuccessWithWarning(c, statusCode, data, message, "")
}

// SuccessWithWarning is a successful response that the client should double check, such as a
// replayed or uncertain stock mutation.
func SuccessWithWarning(c echo.Context, statusCode int, data any, message, warning string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
		Warning: warning,
	})
}

// Error writes a failed envelope. The message falls back to the HTTP status text.
func Error(c echo.Context, statusCode int, errorCode string, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &ErrorInfo{
			Code:    errorCode,
			Details: details,
		},
	})
}
