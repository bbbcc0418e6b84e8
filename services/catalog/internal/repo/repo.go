package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrReviewExists      = errors.New("review already exists")
)

type GormRepo struct {
	DB *gorm.DB
}
