package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/pkg/logging"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
	"github.com/Skotchmaster/fashion_shop/services/order/internal/transport"
)

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *OrderService) CreateCoupon(ctx context.Context, in transport.CreateCouponRequest) (*models.Coupon, error) {
	code := normalizeCode(in.Code)
	if len(code) < 3 || len(code) > 32 {
		return nil, fmt.Errorf("code must be 3 to 32 characters: %w", ErrValidation)
	}

	switch in.Type {
	case models.CouponPercentage:
		if in.Value < 1 || in.Value > 100 {
			return nil, fmt.Errorf("percentage must be between 1 and 100: %w", ErrValidation)
		}
	case models.CouponFixed:
		if in.Value <= 0 {
			return nil, fmt.Errorf("fixed amount must be positive: %w", ErrValidation)
		}
	default:
		return nil, fmt.Errorf("type must be percentage or fixed: %w", ErrValidation)
	}
	if in.MinAmount < 0 || in.MaxUses < 0 {
		return nil, fmt.Errorf("minAmount and maxUses must not be negative: %w", ErrValidation)
	}
	if in.ExpiresAt != nil && !in.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("expiresAt must be in the future: %w", ErrValidation)
	}

	c := &models.Coupon{
		Code:      code,
		Type:      in.Type,
		Value:     in.Value,
		MinAmount: in.MinAmount,
		MaxUses:   in.MaxUses,
		ExpiresAt: in.ExpiresAt,
		Active:    true,
	}
	if err := s.Repo.CreateCoupon(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("coupon %s already exists: %w", code, ErrConflict)
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("coupon_created", "code", code, "type", c.Type)
	return c, nil
}

func (s *OrderService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	out, err := s.Repo.ListCoupons(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Coupon{}
	}
	return out, nil
}

func (s *OrderService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteCoupon(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("coupon %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// ValidateCoupon answers whether code applies to subtotal; an unusable coupon is not an error.
func (s *OrderService) ValidateCoupon(ctx context.Context, code string, subtotal int64) (transport.CouponValidation, error) {
	if subtotal < 0 {
		return transport.CouponValidation{}, fmt.Errorf("subtotal must not be negative: %w", ErrValidation)
	}

	c, err := s.Repo.GetCouponByCode(ctx, normalizeCode(code))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.CouponValidation{Message: "invalid coupon code"}, nil
		}
		return transport.CouponValidation{}, err
	}

	discount, reason := couponDiscount(c, subtotal, s.now())
	if reason != "" {
		return transport.CouponValidation{Message: reason}, nil
	}
	return transport.CouponValidation{Valid: true, Discount: discount, Message: "coupon applied"}, nil
}
