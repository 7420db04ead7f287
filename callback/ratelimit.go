package callback

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

const (
	// BurstMultiplier sizes the bucket when no burst is configured
	BurstMultiplier  = 2
	RateLimitCleanup = time.Minute * 3
)

// RateLimit limits callbacks per client IP. A non-positive rate disables limiting.
func RateLimit(requestsPerSecond float64, burst int) echo.MiddlewareFunc {
	if requestsPerSecond <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}
	if burst <= 0 {
		burst = max(int(requestsPerSecond*BurstMultiplier), 1)
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(requestsPerSecond),
				Burst:     burst,
				ExpiresIn: RateLimitCleanup,
			},
		),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return errorResponse(c, http.StatusTooManyRequests, "Rate limit exceeded")
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return errorResponse(c, http.StatusTooManyRequests, "Too many requests")
		},
	})
}

func errorResponse(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]any{
		"error": map[string]any{
			"message":    message,
			"status":     status,
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		},
	})
}
