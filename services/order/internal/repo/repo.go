package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrCouponUnavailable = errors.New("coupon unavailable")
	ErrAddressLimit      = errors.New("address limit reached")
)

type GormRepo struct {
	DB *gorm.DB
}
