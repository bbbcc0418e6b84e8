package service

import (
	"fmt"
	"time"

	"github.com/Skotchmaster/fashion_shop/services/order/internal/models"
)

const (
	StandardShippingFee   int64 = 500
	FreeShippingThreshold int64 = 10000
)

// ShippingFee is charged on the amount left after the discount.
func ShippingFee(amount int64) int64 {
	if amount >= FreeShippingThreshold {
		return 0
	}
	return StandardShippingFee
}

// couponDiscount returns the discount c gives on subtotal, or the reason it does not apply.
func couponDiscount(c *models.Coupon, subtotal int64, now time.Time) (int64, string) {
	switch {
	case !c.Active:
		return 0, "coupon is not active"
	case c.ExpiresAt != nil && now.After(*c.ExpiresAt):
		return 0, "coupon has expired"
	case c.MaxUses > 0 && c.UsedCount >= c.MaxUses:
		return 0, "coupon usage limit reached"
	case subtotal < c.MinAmount:
		return 0, fmt.Sprintf("minimum order amount for this coupon is %d", c.MinAmount)
	}

	var d int64
	switch c.Type {
	case models.CouponPercentage:
		d = subtotal * c.Value / 100
	case models.CouponFixed:
		d = c.Value
	}
	if d > subtotal {
		d = subtotal
	}
	return d, ""
}
