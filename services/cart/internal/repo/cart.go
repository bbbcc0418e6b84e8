package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fashion_shop/services/cart/internal/models"
)

// GetCart returns gorm.ErrRecordNotFound when the user has no cart yet.
func (r *GormRepo) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func cartFor(tx *gorm.DB, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	if err := tx.Where(models.Cart{UserID: userID}).FirstOrCreate(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func lockedItem(tx *gorm.DB, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("carts.user_id = ? AND cart_items.product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// AddItem adds qty units, creating the cart and the line when needed. The
// resulting line quantity may not exceed stock.
func (r *GormRepo) AddItem(ctx context.Context, userID, productID uuid.UUID, qty, stock int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cart, err := cartFor(tx, userID)
		if err != nil {
			return err
		}

		item, err := lockedItem(tx, userID, productID)
		switch {
		case err == nil:
			if item.Quantity+qty > stock {
				return ErrExceedsStock
			}
			if err := tx.Model(item).Update("quantity", gorm.Expr("quantity + ?", qty)).Error; err != nil {
				return err
			}
			item.Quantity += qty
			out = item
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if qty > stock {
			return ErrExceedsStock
		}
		out = &models.CartItem{CartID: cart.ID, ProductID: productID, Quantity: qty}
		return tx.Create(out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) SetItemQuantity(ctx context.Context, userID, productID uuid.UUID, qty, stock int) (*models.CartItem, error) {
	var out *models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := lockedItem(tx, userID, productID)
		if err != nil {
			return err
		}
		if qty > stock {
			return ErrExceedsStock
		}
		if err := tx.Model(item).Update("quantity", qty).Error; err != nil {
			return err
		}
		item.Quantity = qty
		out = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DecrementItem removes one unit; the line is deleted when its last unit goes.
func (r *GormRepo) DecrementItem(ctx context.Context, userID, productID uuid.UUID) (bool, *models.CartItem, error) {
	var item *models.CartItem
	deleted := false

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		item, err = lockedItem(tx, userID, productID)
		if err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.Model(item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			item.Quantity--
			return nil
		}
		deleted = true
		return tx.Delete(item).Error
	})
	if err != nil {
		return false, nil, err
	}
	return deleted, item, nil
}

func (r *GormRepo) RemoveItems(ctx context.Context, userID uuid.UUID, productIDs ...uuid.UUID) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	res := r.DB.WithContext(ctx).
		Where("product_id IN ? AND cart_id IN (?)", productIDs,
			r.DB.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("cart_id IN (?)", r.DB.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)).
		Delete(&models.CartItem{}).Error
}
