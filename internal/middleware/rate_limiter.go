package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// TooManyRequestsMessage is the body sent to clients over the limit.
const TooManyRequestsMessage = "Too many requests. Please try again later."

// RateLimiter allows perMinute requests per client IP per minute, with bursts
// up to the same amount. Idle clients are forgotten after three minutes.
func RateLimiter(perMinute int) echo.MiddlewareFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	config := middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Every(time.Minute / time.Duration(perMinute)),
			Burst:     perMinute,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			FromContext(c.Request().Context()).Warn("Rate limit exceeded", "client", identifier)
			return c.String(http.StatusTooManyRequests, TooManyRequestsMessage)
		},
	}
	return middleware.RateLimiterWithConfig(config)
}
