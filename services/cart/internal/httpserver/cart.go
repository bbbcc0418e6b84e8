package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func fail(l *slog.Logger, event string, err error) error {
	var code int
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		l.Error(event, "status", 503, "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "catalog is unavailable, try again later")
	default:
		l.Error(event, "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, err.Error())
}

func currentUser(c echo.Context, l *slog.Logger, event string) (uuid.UUID, error) {
	userID, err := authmw.UserID(c)
	if err != nil {
		l.Warn(event, "status", 401, "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return userID, nil
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "get.cart")

	userID, err := currentUser(c, l, "get_cart_error")
	if err != nil {
		return err
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cart})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.cart")

	userID, err := currentUser(c, l, "add_to_cart_error")
	if err != nil {
		return err
	}

	var req transport.CartItemRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return err
	}

	if _, err := h.Svc.AddToCart(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("product_added_to_cart", "product_id", req.ProductID, "quantity", req.Quantity)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cart})
}

func (h *CartHTTP) UpdateQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.cart")

	userID, err := currentUser(c, l, "update_cart_error")
	if err != nil {
		return err
	}

	var req transport.CartItemRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("update_cart_error", "status", 400, "error", err)
		return err
	}

	if _, err := h.Svc.UpdateQuantity(ctx, userID, req.ProductID, req.Quantity); err != nil {
		return fail(l, "update_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "update_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cart})
}

func (h *CartHTTP) DecrementItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "decrement.cart")

	userID, err := currentUser(c, l, "decrement_cart_error")
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("decrement_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId not a uuid")
	}

	res, err := h.Svc.DecrementItem(ctx, userID, productID)
	if err != nil {
		return fail(l, "decrement_cart_error", err)
	}

	l.Info("cart_item_decremented", "product_id", productID, "deleted", res.Deleted)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": res})
}

func (h *CartHTTP) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.one.cart")

	userID, err := currentUser(c, l, "delete_from_cart_error")
	if err != nil {
		return err
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		l.Warn("delete_from_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "productId not a uuid")
	}

	if err := h.Svc.RemoveItem(ctx, userID, productID); err != nil {
		return fail(l, "delete_from_cart_error", err)
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		return fail(l, "delete_from_cart_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": cart})
}

func (h *CartHTTP) DeleteAllFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "delete.all.cart")

	userID, err := currentUser(c, l, "clear_cart_error")
	if err != nil {
		return err
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Cart cleared"})
}
