package middleware

import (
	"github.com/labstack/echo/v4"

	"vira/internal/infrastructure/ratelimit"
	"vira/pkg/errors"
	"vira/pkg/logger"
	"vira/pkg/response"
)

const (
	ActionAuth    = "auth"
	ActionGeneral = "general"
)

// RateLimit spends one token of action per request, keyed by device when
// known and by client IP otherwise.
func RateLimit(limiter *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := DeviceID(c)
			if key == "" {
				key = c.RealIP()
			}

			if allowed, wait := limiter.Allow(key, action); !allowed {
				logger.Warn("RATE LIMIT: %s blocked on %s (retry in %v)", key, action, wait)
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded", wait))
			}
			return next(c)
		}
	}
}
