package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefreshTokens_SendsCookieAndDecodes(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/refresh", r.URL.Path)
		ck, err := r.Cookie("refreshToken")
		if assert.NoError(t, err) {
			assert.Equal(t, "old-refresh", ck.Value)
		}

		_ = json.NewEncoder(w).Encode(RefreshResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			AccessExp:    100,
			RefreshExp:   200,
			Role:         "user",
		})
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL+"/").RefreshTokens(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "new-access", res.AccessToken)
	assert.Equal(t, "new-refresh", res.RefreshToken)
	assert.EqualValues(t, 200, res.RefreshExp)
}

func TestRefreshTokens_Non200(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL).RefreshTokens(context.Background(), "x")
	require.Error(t, err)
	assert.Nil(t, res)
}
