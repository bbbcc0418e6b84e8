package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func (h *OrderHTTP) AdminListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.list_orders")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	res, err := h.Svc.ListOrders(ctx, c.QueryParam("status"), page, size)
	if err != nil {
		return fail(l, "admin_list_orders_error", err, "cannot list orders")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHTTP) AdminGetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.get_order")

	id, err := parseID(c, l, "id", "admin_get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		return fail(l, "admin_get_order_error", err, "cannot get order")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
}

func (h *OrderHTTP) AdminUpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.update_order_status")

	id, err := parseID(c, l, "id", "update_order_status_error")
	if err != nil {
		return err
	}

	var req transport.StatusRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("update_order_status_error", "status", 400, "error", err)
		return err
	}

	order, err := h.Svc.UpdateStatus(ctx, id, req.OrderStatus)
	if err != nil {
		return fail(l, "update_order_status_error", err, "cannot update order status")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order status is updated successfully!",
		"data":    order,
	})
}

func (h *OrderHTTP) SalesReport(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.sales_report")

	report, err := h.Svc.SalesReport(ctx)
	if err != nil {
		return fail(l, "sales_report_error", err, "cannot build sales report")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": report})
}
