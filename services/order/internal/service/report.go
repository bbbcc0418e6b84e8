package service

import (
	"context"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/repo"
)

const topProductsLimit = 5

type SalesReport struct {
	TotalOrders       int64               `json:"totalOrders"`
	PaidOrders        int64               `json:"paidOrders"`
	Revenue           int64               `json:"revenue"`
	AverageOrderValue int64               `json:"averageOrderValue"`
	ByStatus          []repo.StatusCount  `json:"byStatus"`
	TopProducts       []repo.ProductSales `json:"topProducts"`
}

// SalesReport aggregates all orders; revenue and the average only count paid ones.
func (s *OrderService) SalesReport(ctx context.Context) (*SalesReport, error) {
	totals, err := s.Repo.SalesTotals(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := s.Repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.Repo.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}

	r := &SalesReport{
		TotalOrders: totals.Orders,
		PaidOrders:  totals.PaidOrders,
		Revenue:     totals.Revenue,
		ByStatus:    byStatus,
		TopProducts: top,
	}
	if r.ByStatus == nil {
		r.ByStatus = []repo.StatusCount{}
	}
	if r.TopProducts == nil {
		r.TopProducts = []repo.ProductSales{}
	}
	if totals.PaidOrders > 0 {
		r.AverageOrderValue = totals.Revenue / totals.PaidOrders
	}
	return r, nil
}
