package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Prices are stored in cents. SalePrice 0 means the product is not on sale.
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"       json:"id"`
	Image         string         `json:"image"`
	Title         string         `gorm:"not null;index"             json:"title"`
	Description   string         `json:"description"`
	Category      string         `gorm:"index"                      json:"category"`
	Brand         string         `gorm:"index"                      json:"brand"`
	Price         int64          `gorm:"not null;index"             json:"price"`
	SalePrice     int64          `gorm:"not null;default:0"         json:"salePrice"`
	TotalStock    int            `gorm:"not null;default:0"         json:"totalStock"`
	Sizes         pq.StringArray `gorm:"type:text[]"                json:"sizes"`
	Colors        pq.StringArray `gorm:"type:text[]"                json:"colors"`
	AverageReview float64        `gorm:"not null;default:0"         json:"averageReview"`
	ReviewCount   int            `gorm:"not null;default:0"         json:"reviewCount"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                          json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user" json:"productId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user" json:"userId"`
	UserName  string    `json:"userName"`
	Message   string    `gorm:"not null"                                     json:"reviewMessage"`
	Value     int       `gorm:"not null"                                     json:"reviewValue"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Purchase marks that a user received a product through a confirmed order.
type Purchase struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time
}

type Feature struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Image     string    `gorm:"not null"            json:"image"`
	CreatedAt time.Time `json:"createdAt"`
}

func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}

// AppliedOrderEvent records order events whose stock effect has been applied,
// so a redelivered message does not move stock twice.
type AppliedOrderEvent struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Type      string    `gorm:"primaryKey"`
	CreatedAt time.Time
}

// StockTaken is the number of units a confirmed order actually took from a
// product; cancellation restocks exactly this amount.
type StockTaken struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time
}

func (StockTaken) TableName() string { return "stock_taken" }

func All() []any {
	return []any{&Product{}, &Review{}, &Purchase{}, &Feature{}, &AppliedOrderEvent{}, &StockTaken{}}
}
