package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/db/dbtest"
	"github.com/Skotchmaster/fashion_shop/pkg/events"
	jwthelp "github.com/Skotchmaster/fashion_shop/pkg/jwt"
	"github.com/Skotchmaster/fashion_shop/pkg/tokens"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/mailer"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/notification/internal/service"
)

var testSecret = []byte("test-jwt-secret")

func cookieFor(t *testing.T, role string) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken(testSecret, uuid.NewString(), role, "a@example.com", "a", time.Now().Add(time.Minute))
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func TestListNotifications(t *testing.T) {
	t.Parallel()
	svc := &service.NotificationService{
		Repo:   &repo.GormRepo{DB: dbtest.Open(t, models.All()...)},
		Mailer: mailer.Log{},
	}
	e := echo.New()
	Register(e, &Deps{NotificationHandler: &NotificationHTTP{Svc: svc}, JWTSecret: testSecret})

	for i := 0; i < 3; i++ {
		ev := events.Event{"type": "user_registered", "userID": uuid.NewString(), "email": "u@example.com", "userName": "u"}
		require.NoError(t, svc.HandleUserEvent(context.Background(), ev))
	}

	get := func(path string, ck *http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if ck != nil {
			req.AddCookie(ck)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, get("/admin/notifications", nil).Code)
	assert.Equal(t, http.StatusForbidden, get("/admin/notifications", cookieFor(t, "user")).Code)
	assert.Equal(t, http.StatusBadRequest, get("/admin/notifications?status=x", cookieFor(t, "admin")).Code)

	rec := get("/admin/notifications?page=2&size=2", cookieFor(t, "admin"))
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data []models.Notification `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 1)
	assert.Equal(t, int64(3), page.Meta.Total)
}
