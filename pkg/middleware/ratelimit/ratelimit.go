package ratelimit

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
)

type Config struct {
	Prefix string
	Limit  int64
	Window time.Duration
}

// PerIP limits requests per client IP. Limiter errors let the request through.
func PerIP(l cache.Limiter, cfg Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := cfg.Prefix + ":" + c.RealIP()

			ok, err := l.Allow(ctx, key, cfg.Limit, cfg.Window)
			if err != nil {
				logging.FromContext(ctx).Warn("rate_limit_unavailable", "key", key, "error", err)
				return next(c)
			}
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many attempts, please try again later")
			}
			return next(c)
		}
	}
}
