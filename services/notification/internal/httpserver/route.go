package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
)

type Deps struct {
	NotificationHandler *NotificationHTTP
	JWTSecret           []byte
	AuthClient          authmw.Refresher
	Ready               func() error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, d.AuthClient)

	admin := e.Group("/admin/notifications", authMW.RequireAdmin)
	admin.GET("", d.NotificationHandler.ListNotifications)
}
