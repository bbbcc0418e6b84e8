package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
)

type SalesTotals struct {
	Orders     int64
	PaidOrders int64
	Revenue    int64
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type ProductSales struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Quantity  int64     `json:"quantity"`
}

func (r *GormRepo) SalesTotals(ctx context.Context) (SalesTotals, error) {
	var t SalesTotals
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Order{}).Count(&t.Orders).Error; err != nil {
		return t, err
	}

	var paid struct {
		PaidOrders int64
		Revenue    int64
	}
	err := db.Model(&models.Order{}).
		Select("COUNT(*) AS paid_orders, COALESCE(SUM(total), 0) AS revenue").
		Where("payment_status = ?", models.PaymentPaid).
		Scan(&paid).Error
	if err != nil {
		return t, err
	}
	t.PaidOrders, t.Revenue = paid.PaidOrders, paid.Revenue
	return t, nil
}

func (r *GormRepo) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("order_status AS status, COUNT(*) AS count").
		Group("order_status").
		Order("order_status").
		Scan(&out).Error
	return out, err
}

// TopProducts ranks products by units sold, ignoring rejected and cancelled orders.
func (r *GormRepo) TopProducts(ctx context.Context, limit int) ([]ProductSales, error) {
	var out []ProductSales
	err := r.DB.WithContext(ctx).Model(&models.OrderItem{}).
		Select("order_items.product_id AS product_id, MAX(order_items.title) AS title, SUM(order_items.quantity) AS quantity").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.order_status NOT IN ?", []string{models.StatusRejected, models.StatusCancelled}).
		Group("order_items.product_id").
		Order("SUM(order_items.quantity) DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
