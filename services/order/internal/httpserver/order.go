package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	user, err := currentUser(c, l, "create_order_error")
	if err != nil {
		return err
	}

	var req transport.PlaceOrderRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	order, err := h.Svc.PlaceOrder(ctx, service.Buyer{UserID: user.UserID, Email: user.Email}, req)
	if err != nil {
		return fail(l, "create_order_error", err, "cannot create order")
	}

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, transport.PlaceOrderResponse{
		Success:     true,
		OrderID:     order.ID,
		OrderNumber: order.Number,
		Total:       order.Total,
		OrderStatus: order.OrderStatus,
	})
}

func (h *OrderHTTP) CapturePayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.capture_payment")

	user, err := currentUser(c, l, "capture_payment_error")
	if err != nil {
		return err
	}

	var req transport.CaptureRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("capture_payment_error", "status", 400, "reason", "invalid body", "error", err)
		return err
	}

	order, err := h.Svc.CapturePayment(ctx, user.UserID, req)
	if err != nil {
		return fail(l, "capture_payment_error", err, "cannot capture payment")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Order confirmed",
		"data":    order,
	})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	user, err := currentUser(c, l, "list_orders_error")
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListMyOrders(ctx, user.UserID)
	if err != nil {
		return fail(l, "list_orders_error", err, "cannot list orders")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": orders})
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	user, err := currentUser(c, l, "get_order_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "id", "get_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.GetMyOrder(ctx, user.UserID, id)
	if err != nil {
		return fail(l, "get_order_error", err, "cannot get order")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
}

func (h *OrderHTTP) CancelOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.cancel_order")

	user, err := currentUser(c, l, "cancel_order_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "id", "cancel_order_error")
	if err != nil {
		return err
	}

	order, err := h.Svc.CancelOrder(ctx, user.UserID, id)
	if err != nil {
		return fail(l, "cancel_order_error", err, "cannot cancel order")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
}

func (h *OrderHTTP) RequestReturn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.request_return")

	user, err := currentUser(c, l, "request_return_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "id", "request_return_error")
	if err != nil {
		return err
	}

	var req transport.ReturnRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("request_return_error", "status", 400, "error", err)
		return err
	}

	order, err := h.Svc.RequestReturn(ctx, user.UserID, id, req.Reason)
	if err != nil {
		return fail(l, "request_return_error", err, "cannot request return")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": order})
}
