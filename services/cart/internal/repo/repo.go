package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrExceedsStock = errors.New("quantity exceeds stock")

type GormRepo struct {
	DB *gorm.DB
}
