package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	jwthelp "github.com/Skotchmaster/fashion_shop/pkg/jwt"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/metrics"
	authmw "github.com/Skotchmaster/fashion_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func setSessionCookies(c echo.Context, res *service.LoginResult) {
	c.SetCookie(jwthelp.CreateCookie(jwthelp.AccessCookie, res.AccessToken, "/", res.AccessExp))
	c.SetCookie(jwthelp.CreateCookie(jwthelp.RefreshCookie, res.RefreshToken, "/", res.RefreshExp))
}

func clearSessionCookies(c echo.Context) {
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.RefreshCookie, "/"))
	c.SetCookie(jwthelp.DeleteCookie(jwthelp.AccessCookie, "/"))
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return err
	}

	_, err := h.Svc.Register(ctx, service.RegisterInput{
		UserName: req.UserName,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, "User already exists with the same email! Please try again")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Some error occured")
	}

	l.Info("register_successful")
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration successful",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := validate.BindAndValidate(c, &req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return err
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	metrics.LoginAttempts.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidCredentials):
			l.Warn("login_failed", "status", 401)
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password! Please try again")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Some error occured")
	}

	setSessionCookies(c, res)
	l.Info("login_successful", "user_id", res.User.ID)

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged in successfully",
		"user":    transport.NewUserResponse(res.User),
	})
}

func (h *AuthHTTP) LogOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if refreshCookie, err := c.Cookie(jwthelp.RefreshCookie); err == nil {
		if err := h.Svc.LogOut(ctx, refreshCookie.Value); err != nil {
			clearSessionCookies(c)
			l.Error("logout_failed", "status", 500, "reason", "cannot revoke refreshToken", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Some error occured")
		}
	}

	clearSessionCookies(c)
	l.Info("successful_logout")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out successfully!",
	})
}

func (h *AuthHTTP) CheckAuth(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_check")

	userID, err := authmw.UserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
	}

	user, err := h.Svc.CurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("check_auth_failed", "status", 401, "reason", "user vanished", "user_id", userID)
			clearSessionCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorised user!")
		}
		l.Error("check_auth_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Some error occured")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Authenticated user!",
		"user":    transport.NewUserResponse(user),
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	refreshCookie, err := c.Cookie(jwthelp.RefreshCookie)
	if err != nil || refreshCookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	res, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			l.Warn("refresh_failed", "status", 401, "error", err)
			clearSessionCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
		}
		l.Error("refresh_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Some error occured")
	}

	setSessionCookies(c, res)
	return c.JSON(http.StatusOK, transport.RefreshResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		Role:         res.User.Role,
	})
}
