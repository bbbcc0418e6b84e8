package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	JWTSecret      []byte
	AuthClient     authmw.Refresher
	Ready          func() error
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
	h := d.CatalogHandler

	products := e.Group("/shop/products")
	products.GET("", h.GetProducts)
	products.GET("/batch", h.GetProductsBatch)
	products.GET("/:id", h.GetProduct)

	review := e.Group("/shop/review")
	review.GET("/:productId", h.GetReviews)
	review.POST("", h.AddReview, authMW.RequireAuth)

	e.GET("/common/feature", h.GetFeatures)

	admin := e.Group("/admin", authMW.RequireAdmin)

	adminProducts := admin.Group("/products")
	adminProducts.GET("", h.AdminListProducts)
	adminProducts.POST("", h.CreateProduct)
	adminProducts.POST("/upload-image", h.UploadImage, echomw.BodyLimit("6M"))
	adminProducts.PATCH("/:id", h.PatchProduct)
	adminProducts.DELETE("/:id", h.DeleteProduct)

	inventory := admin.Group("/inventory")
	inventory.GET("/low-stock", h.LowStock)
	inventory.PATCH("/:id", h.AdjustStock)

	reviews := admin.Group("/reviews")
	reviews.GET("", h.AdminListReviews)
	reviews.DELETE("/:id", h.AdminDeleteReview)

	feature := admin.Group("/feature")
	feature.POST("", h.AddFeature)
	feature.DELETE("/:id", h.DeleteFeature)
}
