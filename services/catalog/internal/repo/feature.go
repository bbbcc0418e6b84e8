package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
)

func (r *GormRepo) ListFeatures(ctx context.Context) ([]models.Feature, error) {
	items := make([]models.Feature, 0)
	err := r.DB.WithContext(ctx).Order("created_at ASC").Find(&items).Error
	return items, err
}

func (r *GormRepo) CreateFeature(ctx context.Context, f *models.Feature) error {
	return r.DB.WithContext(ctx).Create(f).Error
}

func (r *GormRepo) DeleteFeature(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Feature{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
