package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/fashion_shop/pkg/cache"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string, int64, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}

func serve(e *echo.Echo, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestPerIP_BlocksAfterLimit(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		PerIP(cache.NewMemory(), Config{Prefix: "login", Limit: 2, Window: time.Minute}))

	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.2"))
}

func TestPerIP_FailsOpen(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.POST("/api/auth/login", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		PerIP(brokenLimiter{}, Config{Prefix: "login", Limit: 1, Window: time.Minute}))

	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
	assert.Equal(t, http.StatusOK, serve(e, "10.0.0.1"))
}
