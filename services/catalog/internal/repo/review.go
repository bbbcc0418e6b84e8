package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
)

func (r *GormRepo) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	items := make([]models.Review, 0)
	err := r.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) ListAllReviews(ctx context.Context, offset, limit int) (int64, []models.Review, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Review{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	items := make([]models.Review, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) HasPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&n).Error
	return n > 0, err
}

func recomputeRating(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Avg float64
		Cnt int64
	}
	if err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(value), 0) AS avg, COUNT(*) AS cnt").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{"average_review": agg.Avg, "review_count": agg.Cnt}).Error
}

// CreateReview stores the review and refreshes the product rating in one transaction.
func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Review{}).
			Where("product_id = ? AND user_id = ?", rv.ProductID, rv.UserID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrReviewExists
		}
		if err := tx.Create(rv).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrReviewExists
			}
			return err
		}
		return recomputeRating(tx, rv.ProductID)
	})
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	var rv models.Review
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&rv).Error; err != nil {
			return err
		}
		if err := tx.Delete(&rv).Error; err != nil {
			return err
		}
		return recomputeRating(tx, rv.ProductID)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return rv.ProductID, nil
}
