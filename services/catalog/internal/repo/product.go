package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/fashion_shop/services/catalog/internal/models"
)

const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
	SortNewest         = "newest"
)

var sortOrders = map[string]string{
	SortPriceLowToHigh: "price ASC",
	SortPriceHighToLow: "price DESC",
	SortTitleAToZ:      "title ASC",
	SortTitleZToA:      "title DESC",
	SortNewest:         "created_at DESC",
}

type ProductFilter struct {
	Categories []string
	Brands     []string
	SortBy     string
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	items := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	base := r.DB.WithContext(ctx).Model(&models.Product{})
	if len(f.Categories) > 0 {
		base = base.Where("category IN ?", f.Categories)
	}
	if len(f.Brands) > 0 {
		base = base.Where("brand IN ?", f.Brands)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	order, ok := sortOrders[f.SortBy]
	if !ok {
		order = sortOrders[SortPriceLowToHigh]
	}

	items := make([]models.Product, 0, limit)
	if err := base.Session(&gorm.Session{}).
		Order(order).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

// UpdateProduct locks the row, lets patch change it and writes back only
// the columns patch reports, so stock and review aggregates moved by other
// writers are left alone.
func (r *GormRepo) UpdateProduct(ctx context.Context, id uuid.UUID, patch func(*models.Product) ([]string, error)) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&prod).Error; err != nil {
			return err
		}
		cols, err := patch(&prod)
		if err != nil || len(cols) == 0 {
			return err
		}
		if err := tx.Model(&prod).Select(cols).Updates(&prod).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.Review{}).Error
	})
}

// AdjustStock adds delta to the product stock under a row lock.
func (r *GormRepo) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&prod).Error; err != nil {
			return err
		}
		if prod.TotalStock+delta < 0 {
			return ErrInsufficientStock
		}
		if err := tx.Model(&prod).Update("total_stock", gorm.Expr("total_stock + ?", delta)).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).First(&prod).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) LowStock(ctx context.Context, threshold, limit int) ([]models.Product, error) {
	items := make([]models.Product, 0)
	err := r.DB.WithContext(ctx).
		Where("total_stock <= ?", threshold).
		Order("total_stock ASC").
		Order("title ASC").
		Limit(limit).
		Find(&items).Error
	return items, err
}

type StockLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// markApplied reports false when the order event was already applied.
func markApplied(tx *gorm.DB, orderID uuid.UUID, eventType string) (bool, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.AppliedOrderEvent{OrderID: orderID, Type: eventType})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ApplyConfirmedOrder takes the ordered units out of stock (never below zero),
// remembers how many units were really taken and records the purchases that
// unlock reviews.
func (r *GormRepo) ApplyConfirmedOrder(ctx context.Context, orderID, userID uuid.UUID, lines []StockLine) (bool, error) {
	applied := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := markApplied(tx, orderID, "order_confirmed")
		if err != nil || !ok {
			return err
		}
		applied = true

		for _, ln := range mergeLines(lines) {
			if err := takeStock(tx, orderID, ln); err != nil {
				return err
			}
			if userID == uuid.Nil {
				continue
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Purchase{UserID: userID, ProductID: ln.ProductID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return applied, err
}

func takeStock(tx *gorm.DB, orderID uuid.UUID, ln StockLine) error {
	var prod models.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "total_stock").
		Where("id = ?", ln.ProductID).
		First(&prod).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	taken := min(prod.TotalStock, ln.Quantity)
	if taken <= 0 {
		return nil
	}
	if err := tx.Model(&models.Product{}).
		Where("id = ?", ln.ProductID).
		Update("total_stock", gorm.Expr("total_stock - ?", taken)).Error; err != nil {
		return err
	}
	return tx.Create(&models.StockTaken{OrderID: orderID, ProductID: ln.ProductID, Quantity: taken}).Error
}

func mergeLines(lines []StockLine) []StockLine {
	out := make([]StockLine, 0, len(lines))
	idx := make(map[uuid.UUID]int, len(lines))
	for _, ln := range lines {
		if i, ok := idx[ln.ProductID]; ok {
			out[i].Quantity += ln.Quantity
			continue
		}
		idx[ln.ProductID] = len(out)
		out = append(out, ln)
	}
	return out
}

// ApplyCancelledOrder puts back the units the order took when it was confirmed.
func (r *GormRepo) ApplyCancelledOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	applied := false
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := markApplied(tx, orderID, "order_cancelled")
		if err != nil || !ok {
			return err
		}
		applied = true

		var taken []models.StockTaken
		if err := tx.Where("order_id = ?", orderID).Find(&taken).Error; err != nil {
			return err
		}
		for _, t := range taken {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", t.ProductID).
				Update("total_stock", gorm.Expr("total_stock + ?", t.Quantity)).
				Error; err != nil {
				return err
			}
		}
		return tx.Where("order_id = ?", orderID).Delete(&models.StockTaken{}).Error
	})
	return applied, err
}
