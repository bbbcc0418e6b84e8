package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
)

type Deps struct {
	OrderHandler *OrderHTTP
	JWTSecret    []byte
	AuthClient   authmw.Refresher
	Ready        func() error
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
	h := d.OrderHandler

	orders := e.Group("/shop/order", authMW.RequireAuth)
	orders.POST("", h.CreateOrder)
	orders.POST("/capture", h.CapturePayment)
	orders.GET("/list", h.ListOrders)
	orders.GET("/details/:id", h.GetOrder)
	orders.POST("/:id/cancel", h.CancelOrder)
	orders.POST("/:id/return", h.RequestReturn)

	address := e.Group("/shop/address", authMW.RequireAuth)
	address.GET("", h.ListAddresses)
	address.POST("", h.AddAddress)
	address.PUT("/:id", h.UpdateAddress)
	address.DELETE("/:id", h.DeleteAddress)

	e.POST("/shop/coupons/validate", h.ValidateCoupon, authMW.RequireAuth)

	admin := e.Group("/admin", authMW.RequireAdmin)
	admin.GET("/orders", h.AdminListOrders)
	admin.GET("/orders/:id", h.AdminGetOrder)
	admin.PATCH("/orders/:id/status", h.AdminUpdateStatus)
	admin.GET("/reports/sales", h.SalesReport)
	admin.GET("/coupons", h.ListCoupons)
	admin.POST("/coupons", h.CreateCoupon)
	admin.DELETE("/coupons/:id", h.DeleteCoupon)
}
