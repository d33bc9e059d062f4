package middleware

import (
	"crm/config"
	domainerrors "crm/internal/domain/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewAuthRateLimiter limits login and registration attempts per client IP.
func NewAuthRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(cfg.HTTP.RateLimit.AuthPerSecond),
		Burst: cfg.HTTP.RateLimit.AuthBurst,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return domainerrors.ErrTooManyRequests
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return domainerrors.ErrTooManyRequests
		},
	})
}
