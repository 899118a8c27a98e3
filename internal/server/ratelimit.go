package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// rateLimitSettings configures the per-IP token bucket guarding the
// ingestion endpoints.
type rateLimitSettings struct {
	perSecond float64
	burst     int
	// idle duration after which an IP's bucket is evicted from the store
	expiry time.Duration
}

func (s *Server) ingestRateLimitSettings() rateLimitSettings {
	return rateLimitSettings{
		perSecond: s.config.RateLimitPerSecond,
		burst:     s.config.RateLimitBurst,
		expiry:    5 * time.Minute,
	}
}

func newRateLimiter(settings rateLimitSettings) echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(settings.perSecond),
			Burst:     settings.burst,
			ExpiresIn: settings.expiry,
		},
	)
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(http.StatusTooManyRequests, map[string]string{
				"error": "ingestion rate limit exceeded",
				"type":  "rate_limit",
			})
		},
	})
}
