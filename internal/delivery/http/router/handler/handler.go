// Package handler contains the HTTP handlers for the application.
package handler

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	deliverycontext "crm/internal/delivery/context"
	"crm/internal/delivery/http/export"
	"crm/internal/delivery/http/response"
	"crm/internal/domain/entity"
	domainerrors "crm/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// HeaderIdempotencyKey carries the client's stock operation id when the body has none.
const HeaderIdempotencyKey = "Idempotency-Key"

// bind decodes the request into req and runs struct validation.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return domainerrors.ErrValidationFailed.WithDetails(bindMessage(httpErr))
		}

		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	if err := c.Validate(req); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

func bindMessage(httpErr *echo.HTTPError) string {
	if httpErr.Internal != nil {
		return httpErr.Internal.Error()
	}
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}

	return http.StatusText(httpErr.Code)
}

// currentPrincipal returns the caller stored by the auth middleware.
func currentPrincipal(c echo.Context) (entity.Principal, error) {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return entity.Principal{}, domainerrors.ErrUnauthorized
	}

	return principal, nil
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithDetails("invalid id: " + c.Param("id"))
	}

	return id, nil
}

// optionalUUID parses an optional uuid query or body value.
func optionalUUID(raw, field string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + field + ": " + raw)
	}

	return &id, nil
}

// parseDate accepts a calendar date or an RFC 3339 timestamp. A bare end date covers the whole day.
func parseDate(raw, field string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, raw, time.Local)
	if err != nil {
		return nil, domainerrors.ErrValidationFailed.WithDetails("invalid " + field + ": " + raw)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	return &t, nil
}

// writeCSV renders the whole file before answering so a rendering failure still yields a JSON error.
func writeCSV(c echo.Context, prefix string, render func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return errors.Wrap(err, "render csv")
	}

	filename := export.FileName(prefix, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, mime.FormatMediaType("attachment", map[string]string{"filename": filename}))

	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// rejectRequest is shared by the user and agent review endpoints.
type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
