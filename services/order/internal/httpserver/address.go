package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func (h *OrderHTTP) ListAddresses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.list")

	user, err := currentUser(c, l, "list_addresses_error")
	if err != nil {
		return err
	}

	out, err := h.Svc.ListAddresses(ctx, user.UserID)
	if err != nil {
		return fail(l, "list_addresses_error", err, "cannot list addresses")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": out})
}

func (h *OrderHTTP) AddAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.add")

	user, err := currentUser(c, l, "add_address_error")
	if err != nil {
		return err
	}

	var req transport.AddressInfo
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("add_address_error", "status", 400, "error", err)
		return err
	}

	a, err := h.Svc.AddAddress(ctx, user.UserID, req)
	if err != nil {
		return fail(l, "add_address_error", err, "cannot add address")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": a})
}

func (h *OrderHTTP) UpdateAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.update")

	user, err := currentUser(c, l, "update_address_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "id", "update_address_error")
	if err != nil {
		return err
	}

	var req transport.AddressInfo
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("update_address_error", "status", 400, "error", err)
		return err
	}

	a, err := h.Svc.UpdateAddress(ctx, user.UserID, id, req)
	if err != nil {
		return fail(l, "update_address_error", err, "cannot update address")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": a})
}

func (h *OrderHTTP) DeleteAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "address.delete")

	user, err := currentUser(c, l, "delete_address_error")
	if err != nil {
		return err
	}
	id, err := parseID(c, l, "id", "delete_address_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteAddress(ctx, user.UserID, id); err != nil {
		return fail(l, "delete_address_error", err, "cannot delete address")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Address deleted successfully"})
}
