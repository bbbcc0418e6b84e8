package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/fashion_shop/pkg/catalogclient"
	"github.com/Skotchmaster/fashion_shop/pkg/db/dbtest"
	jwthelp "github.com/Skotchmaster/fashion_shop/pkg/jwt"
	"github.com/Skotchmaster/fashion_shop/pkg/tokens"
	"github.com/Skotchmaster/fashion_shop/pkg/validate"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/repo"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/service"
	"github.com/Skotchmaster/fashion_shop/services/cart/internal/transport"
)

var testSecret = []byte("test-jwt-secret")

type stubCatalog map[uuid.UUID]catalogclient.Product

func (s stubCatalog) GetProduct(_ context.Context, id uuid.UUID) (*catalogclient.Product, error) {
	p, ok := s[id]
	if !ok {
		return nil, catalogclient.ErrProductNotFound
	}
	return &p, nil
}

func (s stubCatalog) GetProducts(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]catalogclient.Product, error) {
	out := map[uuid.UUID]catalogclient.Product{}
	for _, id := range ids {
		if p, ok := s[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func newTestServer(t *testing.T, catalog stubCatalog) *echo.Echo {
	t.Helper()
	svc := &service.CartService{
		Repo:    &repo.GormRepo{DB: dbtest.Open(t, models.All()...)},
		Catalog: catalog,
	}
	e := echo.New()
	e.Validator = validate.New()
	Register(e, &Deps{CartHandler: &CartHTTP{Svc: svc}, JWTSecret: testSecret})
	return e
}

func userCookie(t *testing.T, userID uuid.UUID) *http.Cookie {
	t.Helper()
	tok, err := tokens.NewAccessToken(testSecret, userID.String(), "user", "u@example.com", "ann", time.Now().Add(time.Minute))
	require.NoError(t, err)
	return &http.Cookie{Name: jwthelp.AccessCookie, Value: tok}
}

func send(e *echo.Echo, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
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

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) transport.CartView {
	t.Helper()
	var resp struct {
		Data transport.CartView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

func TestCartRequiresAuth(t *testing.T) {
	t.Parallel()
	e := newTestServer(t, stubCatalog{})

	rec := send(e, http.MethodGet, "/shop/cart", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartFlow(t *testing.T) {
	t.Parallel()
	dress := catalogclient.Product{ID: uuid.New(), Title: "dress", Price: 5000, TotalStock: 2}
	e := newTestServer(t, stubCatalog{dress.ID: dress})
	ck := userCookie(t, uuid.New())

	rec := send(e, http.MethodPost, "/shop/cart", `{"productId":"`+dress.ID.String()+`","quantity":1}`, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cart := decodeCart(t, rec)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "dress", cart.Items[0].Title)

	rec = send(e, http.MethodPost, "/shop/cart", `{"productId":"`+dress.ID.String()+`","quantity":5}`, ck)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = send(e, http.MethodPost, "/shop/cart", `{"productId":"`+uuid.NewString()+`","quantity":1}`, ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(e, http.MethodPost, "/shop/cart", `{"productId":"`+dress.ID.String()+`","quantity":0}`, ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(e, http.MethodPut, "/shop/cart", `{"productId":"`+dress.ID.String()+`","quantity":2}`, ck)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decodeCart(t, rec).Items[0].Quantity)

	rec = send(e, http.MethodPatch, "/shop/cart/"+dress.ID.String()+"/decrement", "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	var dec struct {
		Data transport.DecrementResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dec))
	assert.Equal(t, 1, dec.Data.Quantity)

	rec = send(e, http.MethodDelete, "/shop/cart/"+dress.ID.String(), "", ck)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeCart(t, rec).Items)

	rec = send(e, http.MethodDelete, "/shop/cart/"+dress.ID.String(), "", ck)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = send(e, http.MethodDelete, "/shop/cart/not-a-uuid", "", ck)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = send(e, http.MethodDelete, "/shop/cart", "", ck)
	assert.Equal(t, http.StatusOK, rec.Code)
}
