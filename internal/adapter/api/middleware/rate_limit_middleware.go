package middleware

import (
	"time"

	"github.com/labstack/echo/v4"

	"giglink/internal/infrastructure/ratelimit"
	"giglink/pkg/errors"
	"giglink/pkg/response"
)

type RateLimitMiddleware struct {
	limiter *ratelimit.RateLimiter
}

func NewRateLimitMiddleware(limiter *ratelimit.RateLimiter) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
	}
}

// Limit throttles the given action per authenticated user. Must run after
// Authenticate so the uid is in context.
func (m *RateLimitMiddleware) Limit(action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := c.Get("uid").(string)
			if !ok || userID == "" {
				return next(c)
			}

			allowed, wait := m.limiter.Allow(userID, action)
			if !allowed {
				c.Response().Header().Set("Retry-After", wait.Round(time.Second).String())
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
