package repo

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
)

// CreateOrder stores the order with its items. A non-empty coupon code is
// redeemed in the same transaction; ErrCouponUnavailable when it ran out.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if order.CouponCode != "" {
			res := tx.Model(&models.Coupon{}).
				Where("code = ? AND active = ? AND (max_uses = 0 OR used_count < max_uses)", order.CouponCode, true).
				Update("used_count", gorm.Expr("used_count + 1"))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCouponUnavailable
			}
		}
		return tx.Create(order).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, status string, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status = strings.TrimSpace(status); status != "" {
		q = q.Where("order_status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// UpdateOrder locks the order, lets fn change it and saves the result.
// An error from fn rolls the transaction back.
func (r *GormRepo) UpdateOrder(ctx context.Context, id uuid.UUID, fn func(o *models.Order) error) (*models.Order, error) {
	var out models.Order
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "id = ?", id).Error; err != nil {
			return err
		}
		if err := fn(&out); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(&out).Error; err != nil {
			return err
		}
		return tx.Where("order_id = ?", out.ID).Find(&out.Items).Error
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListUnpaidBefore returns PayPal orders still waiting for payment that were
// placed before the cutoff, oldest first.
func (r *GormRepo) ListUnpaidBefore(ctx context.Context, cutoff time.Time, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_status = ? AND payment_status = ? AND payment_method = ? AND created_at < ?",
			models.StatusPending, models.PaymentPending, models.PaymentPayPal, cutoff).
		Order("created_at ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
