package httpserver

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/gateway/internal/middleware"
	"github.com/Skotchmaster/fashion_shop/gateway/internal/proxy"
	"github.com/Skotchmaster/fashion_shop/pkg/cache"
	"github.com/Skotchmaster/fashion_shop/pkg/middleware/csrf"
	"github.com/Skotchmaster/fashion_shop/pkg/middleware/ratelimit"
)

const apiPrefix = "/api"

type Deps struct {
	AuthURL         string
	CatalogURL      string
	SearchURL       string
	CartURL         string
	OrderURL        string
	NotificationURL string

	ClientURL  string
	CSRFConfig csrf.Config

	Limiter       cache.Limiter
	AuthRateLimit int64

	Logger *slog.Logger
}

func routes(d *Deps) []proxy.Route {
	return []proxy.Route{
		{Prefix: "/api/auth", Upstream: "auth", Target: d.AuthURL},
		{Prefix: "/api/admin/customers", Upstream: "auth", Target: d.AuthURL},

		{Prefix: "/api/shop/products", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/shop/review", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/common/feature", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/admin/products", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/admin/inventory", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/admin/reviews", Upstream: "catalog", Target: d.CatalogURL},
		{Prefix: "/api/admin/feature", Upstream: "catalog", Target: d.CatalogURL},

		{Prefix: "/api/shop/search", Upstream: "search", Target: d.SearchURL},

		{Prefix: "/api/shop/cart", Upstream: "cart", Target: d.CartURL},

		{Prefix: "/api/shop/order", Upstream: "order", Target: d.OrderURL},
		{Prefix: "/api/shop/address", Upstream: "order", Target: d.OrderURL},
		{Prefix: "/api/shop/coupons", Upstream: "order", Target: d.OrderURL},
		{Prefix: "/api/admin/orders", Upstream: "order", Target: d.OrderURL},
		{Prefix: "/api/admin/coupons", Upstream: "order", Target: d.OrderURL},
		{Prefix: "/api/admin/reports", Upstream: "order", Target: d.OrderURL},

		{Prefix: "/api/admin/notifications", Upstream: "notification", Target: d.NotificationURL},
	}
}

func Register(e *echo.Echo, d *Deps) error {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range middleware.Common(logger, d.ClientURL) {
		e.Use(m)
	}

	// the storefront posts cross-origin when it runs on its own host
	csrfCfg := d.CSRFConfig
	if d.ClientURL != "" && !slices.Contains(csrfCfg.TrustedOrigins, d.ClientURL) {
		csrfCfg.TrustedOrigins = append(slices.Clone(csrfCfg.TrustedOrigins), d.ClientURL)
	}
	e.Use(csrf.Middleware(csrfCfg))

	table, err := proxy.NewTable(apiPrefix, routes(d))
	if err != nil {
		return err
	}

	limiter := d.Limiter
	if limiter == nil {
		limiter = cache.Noop{}
	}
	limit := d.AuthRateLimit
	if limit <= 0 {
		limit = 10
	}
	authLimit := ratelimit.PerIP(limiter, ratelimit.Config{Prefix: "rl:auth", Limit: limit, Window: time.Minute})

	e.POST(apiPrefix+"/auth/login", table.Handler, authLimit)
	e.POST(apiPrefix+"/auth/register", table.Handler, authLimit)
	e.Any(apiPrefix+"/*", table.Handler)

	return nil
}
