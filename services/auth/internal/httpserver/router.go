package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
)

type Deps struct {
	AuthHandler *AuthHTTP
	JWTSecret   []byte
	Ready       func() error
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

	authMW := authmw.NewAutoRefreshMiddleware(d.JWTSecret, localRefresher{svc: d.AuthHandler.Svc})

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/logout", d.AuthHandler.LogOut)
	auth.POST("/refresh", d.AuthHandler.Refresh)
	auth.GET("/check-auth", d.AuthHandler.CheckAuth, authMW.RequireAuth)

	admin := e.Group("/admin/customers", authMW.RequireAdmin)
	admin.GET("", d.AuthHandler.ListCustomers)
	admin.PATCH("/:id/role", d.AuthHandler.UpdateRole)
}
