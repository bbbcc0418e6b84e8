package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/pkg/pagination"
	"github.com/Skotchmaster/fashion_shop/pkg/tokens"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/auth/internal/repo"
)

func (s *AuthService) ListCustomers(ctx context.Context, q string, page, size int) (pagination.Page[models.User], error) {
	page, size = pagination.Normalize(page, size)
	offset, limit := pagination.Calculate(page, size)

	total, items, err := s.Repo.ListUsers(ctx, q, offset, limit)
	if err != nil {
		return pagination.Page[models.User]{}, err
	}
	return pagination.Page[models.User]{Data: items, Meta: pagination.NewMeta(page, size, total)}, nil
}

func (s *AuthService) UpdateRole(ctx context.Context, actorID, targetID uuid.UUID, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.update_role", "target_id", targetID)

	if role != tokens.RoleUser && role != tokens.RoleAdmin {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrValidation)
	}
	if actorID == targetID && role != tokens.RoleAdmin {
		return nil, fmt.Errorf("admins cannot demote themselves: %w", ErrConflict)
	}

	user, err := s.Repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("user %s: %w", targetID, ErrNotFound)
		case errors.Is(err, repo.ErrLastAdmin):
			return nil, fmt.Errorf("cannot demote the last admin: %w", ErrConflict)
		}
		return nil, err
	}

	// a demoted admin must not keep admin access through an old refresh token
	if role == tokens.RoleUser {
		if err := s.Repo.RevokeAllForUser(ctx, targetID); err != nil {
			l.Error("revoke_sessions_failed", "error", err)
		}
	}

	l.Info("role_updated", "role", role)
	return user, nil
}
