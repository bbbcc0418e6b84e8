package httpserver

import (
	"context"

	"github.com/Skotchmaster/fashion_shop/pkg/authclient"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/service"
)

// localRefresher rotates refresh tokens in-process so the auth service
// never calls its own /auth/refresh over HTTP.
type localRefresher struct {
	svc *service.AuthService
}

func (r localRefresher) RefreshTokens(ctx context.Context, refreshToken string) (*authclient.RefreshResponse, error) {
	res, err := r.svc.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	return &authclient.RefreshResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		AccessExp:    res.AccessExp.Unix(),
		RefreshExp:   res.RefreshExp.Unix(),
		Role:         res.User.Role,
	}, nil
}
