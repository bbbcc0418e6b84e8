package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func (h *OrderHTTP) ValidateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.validate")

	var req transport.ValidateCouponRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("validate_coupon_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.ValidateCoupon(ctx, req.Code, req.Subtotal)
	if err != nil {
		return fail(l, "validate_coupon_error", err, "cannot validate coupon")
	}
	return c.JSON(http.StatusOK, res)
}

func (h *OrderHTTP) ListCoupons(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.list")

	out, err := h.Svc.ListCoupons(ctx)
	if err != nil {
		return fail(l, "list_coupons_error", err, "cannot list coupons")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

func (h *OrderHTTP) CreateCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.create")

	var req transport.CreateCouponRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("create_coupon_error", "status", 400, "error", err)
		return err
	}

	coupon, err := h.Svc.CreateCoupon(ctx, req)
	if err != nil {
		return fail(l, "create_coupon_error", err, "cannot create coupon")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": coupon})
}

func (h *OrderHTTP) DeleteCoupon(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "coupon.delete")

	id, err := parseID(c, l, "id", "delete_coupon_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteCoupon(ctx, id); err != nil {
		return fail(l, "delete_coupon_error", err, "cannot delete coupon")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Coupon deleted"})
}
