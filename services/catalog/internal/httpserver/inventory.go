package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/transport"
)

func (h *CatalogHTTP) AdjustStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.adjust")

	id, err := parseID(c, l, "id", "adjust_stock_error")
	if err != nil {
		return err
	}

	var req transport.AdjustStockRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		return err
	}

	prod, err := h.Svc.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		return fail(l, "adjust_stock_error", err, "cannot adjust stock")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": prod})
}

func (h *CatalogHTTP) LowStock(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "inventory.low_stock")

	threshold := pagination.ParseIntDefault(c.QueryParam("threshold"), service.DefaultLowStockThreshold)
	items, err := h.Svc.LowStock(ctx, threshold)
	if err != nil {
		return fail(l, "low_stock_error", err, "cannot list low stock")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": items, "threshold": threshold})
}
