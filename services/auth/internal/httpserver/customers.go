package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/transport"
)

func (h *AuthHTTP) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customers.list")

	page := pagination.ParseIntDefault(c.QueryParam("page"), 1)
	size := pagination.ParseIntDefault(c.QueryParam("size"), pagination.DefaultPageSize)

	res, err := h.Svc.ListCustomers(ctx, c.QueryParam("q"), page, size)
	if err != nil {
		l.Error("list_customers_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list customers")
	}

	users := make([]transport.UserResponse, len(res.Data))
	for i := range res.Data {
		users[i] = transport.NewUserResponse(&res.Data[i])
	}
	return c.JSON(http.StatusOK, echo.Map{"data": users, "meta": res.Meta})
}

func (h *AuthHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customers.update_role")

	actorID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("update_role_error", "status", 400, "reason", "id not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id not a uuid")
	}

	var req transport.UpdateRoleRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.Svc.UpdateRole(ctx, actorID, targetID, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "you cannot remove your own admin role")
		}
		l.Error("update_role_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update role")
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": transport.NewUserResponse(user)})
}
