package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	loggingmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/logging"
)

func Common(logger *slog.Logger, clientURL string) []echo.MiddlewareFunc {
	mws := []echo.MiddlewareFunc{
		ecM.Recover(),
		ecM.RequestID(),
		loggingmw.RequestLogger(logger),
		ecM.Secure(),
	}
	if clientURL != "" {
		mws = append(mws, ecM.CORSWithConfig(ecM.CORSConfig{
			AllowOrigins: []string{clientURL},
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{
				echo.HeaderContentType,
				echo.HeaderAuthorization,
				"X-CSRF-Token",
				"Cache-Control",
				"Expires",
				"Pragma",
			},
			ExposeHeaders:    []string{"X-CSRF-Token"},
			AllowCredentials: true,
		}))
	}
	return mws
}
