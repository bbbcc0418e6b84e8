package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/db/dbtest"
	jwthelp "github.com/Skotchmaster/fashion_shop/pkg/jwt"
	"github.com/Skotchmaster/fashion_shop/pkg/tokens"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/service"
)

var testSecret = []byte("test-jwt-secret")

func newTestServer(t *testing.T) (*echo.Echo, *service.AuthService) {
	t.Helper()
	svc := &service.AuthService{
		Repo:          &repo.GormRepo{DB: dbtest.Open(t, models.All()...)},
		JWTSecret:     testSecret,
		RefreshSecret: []byte("test-refresh-secret"),
	}
	e := echo.New()
	e.Validator = validate.New()
	Register(e, &Deps{AuthHandler: &AuthHTTP{Svc: svc}, JWTSecret: testSecret})
	return e, svc
}

func do(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestRegisterLoginCheckAuthLogout(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)

	rec := do(e, http.MethodPost, "/auth/register", `{"userName":"ann","email":"ann@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Registration successful", decode(t, rec)["message"])

	rec = do(e, http.MethodPost, "/auth/register", `{"userName":"ann2","email":"ann@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "User already exists with the same email! Please try again", decode(t, rec)["message"])

	rec = do(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(e, http.MethodPost, "/auth/login", `{"email":"ann@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, "ann", user["userName"])
	assert.Equal(t, "user", user["role"])

	access := cookieNamed(rec, jwthelp.AccessCookie)
	refresh := cookieNamed(rec, jwthelp.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)

	rec = do(e, http.MethodGet, "/auth/check-auth", "", access)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Authenticated user!", decode(t, rec)["message"])

	rec = do(e, http.MethodPost, "/auth/logout", "", access, refresh)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Logged out successfully!", decode(t, rec)["message"])

	rec = do(e, http.MethodPost, "/auth/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_RejectsInvalidBody(t *testing.T) {
	t.Parallel()
	e, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "missing email", body: `{"userName":"ann","password":"secret1"}`},
		{name: "short password", body: `{"userName":"ann","email":"ann@example.com","password":"1"}`},
		{name: "not json", body: `{`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rec := do(e, http.MethodPost, "/auth/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRefresh_ReturnsNewPair(t *testing.T) {
	t.Parallel()
	e, svc := newTestServer(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, service.RegisterInput{UserName: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "/auth/refresh", "", &http.Cookie{Name: jwthelp.RefreshCookie, Value: res.RefreshToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEqual(t, res.RefreshToken, body["refresh_token"])
	assert.Equal(t, "user", body["role"])
	assert.NotNil(t, cookieNamed(rec, jwthelp.AccessCookie))

	rec = do(e, http.MethodPost, "/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCheckAuth_RefreshesExpiredAccessToken(t *testing.T) {
	t.Parallel()
	e, svc := newTestServer(t)
	ctx := context.Background()

	ann, err := svc.Register(ctx, service.RegisterInput{UserName: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	expired, err := tokens.NewAccessToken(testSecret, ann.ID.String(), tokens.RoleUser, ann.Email, ann.UserName, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	rec := do(e, http.MethodGet, "/auth/check-auth", "",
		&http.Cookie{Name: jwthelp.AccessCookie, Value: expired},
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: res.RefreshToken},
	)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Authenticated user!", decode(t, rec)["message"])

	access := cookieNamed(rec, jwthelp.AccessCookie)
	refresh := cookieNamed(rec, jwthelp.RefreshCookie)
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, refresh.Expires.After(time.Now()))
	assert.NotEqual(t, res.RefreshToken, refresh.Value)

	claims, err := tokens.AccessClaimsFromToken(access.Value, testSecret)
	require.NoError(t, err)
	assert.Equal(t, ann.ID.String(), claims.Subject)

	// the old refresh token was rotated away
	rec = do(e, http.MethodGet, "/auth/check-auth", "",
		&http.Cookie{Name: jwthelp.AccessCookie, Value: expired},
		&http.Cookie{Name: jwthelp.RefreshCookie, Value: res.RefreshToken},
	)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCustomers_RequiresAdmin(t *testing.T) {
	t.Parallel()
	e, svc := newTestServer(t)
	ctx := context.Background()

	ann, err := svc.Register(ctx, service.RegisterInput{UserName: "ann", Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	boss, err := svc.Register(ctx, service.RegisterInput{UserName: "boss", Email: "boss@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Repo.UpdateRole(ctx, boss.ID, tokens.RoleAdmin)
	require.NoError(t, err)

	exp := time.Now().Add(time.Minute)
	userTok, err := tokens.NewAccessToken(testSecret, ann.ID.String(), tokens.RoleUser, ann.Email, ann.UserName, exp)
	require.NoError(t, err)
	adminTok, err := tokens.NewAccessToken(testSecret, boss.ID.String(), tokens.RoleAdmin, boss.Email, boss.UserName, exp)
	require.NoError(t, err)
	userCk := &http.Cookie{Name: jwthelp.AccessCookie, Value: userTok}
	adminCk := &http.Cookie{Name: jwthelp.AccessCookie, Value: adminTok}

	rec := do(e, http.MethodGet, "/admin/customers", "", userCk)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(e, http.MethodGet, "/admin/customers?q=ann", "", adminCk)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = do(e, http.MethodPatch, "/admin/customers/"+ann.ID.String()+"/role", `{"role":"admin"}`, adminCk)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPatch, "/admin/customers/"+boss.ID.String()+"/role", `{"role":"user"}`, adminCk)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(e, http.MethodPatch, "/admin/customers/not-a-uuid/role", `{"role":"user"}`, adminCk)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
