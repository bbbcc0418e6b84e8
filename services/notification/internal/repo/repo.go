package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/services/notification/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

// AlreadySent reports whether a mail for dedupKey went out successfully.
func (r *GormRepo) AlreadySent(ctx context.Context, dedupKey string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("dedup_key = ? AND status = ?", dedupKey, models.StatusSent).
		Count(&n).Error
	return n > 0, err
}

func (r *GormRepo) ListNotifications(ctx context.Context, status string, offset, limit int) (int64, []models.Notification, error) {
	q := r.DB.WithContext(ctx).Model(&models.Notification{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var out []models.Notification
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&out).Error; err != nil {
		return 0, nil, err
	}
	return total, out, nil
}
