package middleware

import (
	"log/slog"

	deliverycontext "crm/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Client supplied ids longer than this are replaced.
const maxRequestIDLength = 128

// RequestIDMiddleware tags each request with an id and a logger carrying it.
type RequestIDMiddleware struct {
	logger *slog.Logger
}

func NewRequestIDMiddleware(logger *slog.Logger) *RequestIDMiddleware {
	return &RequestIDMiddleware{logger: logger}
}

// Process must run before slog-echo so the access log carries the same id.
func (m *RequestIDMiddleware) Process(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()

		id := req.Header.Get(deliverycontext.HeaderXRequestID)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}
		req.Header.Set(deliverycontext.HeaderXRequestID, id)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, id)
		deliverycontext.SetRequestID(c, id)

		scoped := m.logger.With(slog.String("request_id", id))
		ctx := deliverycontext.WithLogger(deliverycontext.WithRequestID(req.Context(), id), scoped)
		c.SetRequest(req.WithContext(ctx))

		return next(c)
	}
}
