package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/service"
)

func fail(l *slog.Logger, event string, err error, internalMsg string) error {
	var code int
	msg := err.Error()
	switch {
	case errors.Is(err, service.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		code = http.StatusConflict
	case errors.Is(err, service.ErrUnavailable):
		code, msg = http.StatusServiceUnavailable, "catalog is unavailable, try again later"
	default:
		l.Error(event, "status", 500, "reason", internalMsg, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, internalMsg)
	}
	l.Warn(event, "status", code, "error", err)
	return echo.NewHTTPError(code, msg)
}

func parseID(c echo.Context, l *slog.Logger, name, event string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		l.Warn(event, "status", 400, "reason", name+" not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, name+" not a uuid")
	}
	return id, nil
}

func currentUser(c echo.Context, l *slog.Logger, event string) (authmw.Identity, error) {
	id, err := authmw.CurrentIdentity(c)
	if err != nil {
		l.Warn(event, "status", 401, "error", err)
		return authmw.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}
