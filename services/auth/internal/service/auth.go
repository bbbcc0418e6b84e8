package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/events"
	pkghash "github.com/Skotchmaster/fashion_shop/pkg/hash"
	jwthelp "github.com/Skotchmaster/fashion_shop/pkg/jwt"
	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/tokens"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/repo"
)

var (
	ErrValidation          = errors.New("validation")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type AuthService struct {
	Repo          *repo.GormRepo
	Events        events.Publisher
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

type RegisterInput struct {
	UserName string
	Email    string
	Password string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	userName := strings.TrimSpace(in.UserName)
	email := normalizeEmail(in.Email)
	if userName == "" {
		return nil, fmt.Errorf("userName required: %w", ErrValidation)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, fmt.Errorf("valid email required: %w", ErrValidation)
	}
	if len(in.Password) < 6 {
		return nil, fmt.Errorf("password must be at least 6 characters: %w", ErrValidation)
	}

	pwHash, err := pkghash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: pwHash,
		Role:         tokens.RoleUser,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, fmt.Errorf("user already exist: %w", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID.String(),
		"email":    user.Email,
		"userName": user.UserName,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login")

	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !pkghash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	res, err := s.issue(ctx, user)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID.String(),
		"email":    user.Email,
		"userName": user.UserName,
	})
	return res, nil
}

func (s *AuthService) signPair(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	now := time.Now().UTC()
	accessExp := now.Add(tokens.AccessTTL)
	refreshExp := now.Add(tokens.RefreshTTL)

	accessToken, err := tokens.NewAccessToken(s.JWTSecret, user.ID.String(), user.Role, user.Email, user.UserName, accessExp)
	if err != nil {
		return nil, nil, err
	}

	jti := jwthelp.NewJTI()
	refreshToken, err := tokens.NewRefreshToken(s.RefreshSecret, user.ID.String(), jti, refreshExp)
	if err != nil {
		return nil, nil, err
	}

	stored := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: jwthelp.Sha256Hex(refreshToken),
		JTI:       jti,
		ExpiresAt: refreshExp,
	}
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, stored, nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*LoginResult, error) {
	res, stored, err := s.signPair(user)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, stored); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidRefreshToken)
	}

	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user gone", ErrInvalidRefreshToken)
		}
		return nil, err
	}

	res, next, err := s.signPair(user)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RotateRefreshToken(ctx, claims.ID, jwthelp.Sha256Hex(refreshToken), next); err != nil {
		if errors.Is(err, repo.ErrTokenExpiredOrRevoked) {
			l.Warn("refresh_failed", "status", 401, "reason", "token expired or revoked", "user_id", userID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidRefreshToken, err)
		}
		return nil, err
	}
	return res, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, jwthelp.Sha256Hex(refreshToken))
}

func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}
	if u, err := s.Repo.GetUserByEmail(ctx, email); err == nil {
		if u.Role != tokens.RoleAdmin {
			_, err = s.Repo.UpdateRole(ctx, u.ID, tokens.RoleAdmin)
		}
		return err
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	pwHash, err := pkghash.HashPassword(password)
	if err != nil {
		return err
	}
	return s.Repo.CreateUser(ctx, &models.User{
		UserName:     "admin",
		Email:        email,
		PasswordHash: pwHash,
		Role:         tokens.RoleAdmin,
	})
}
