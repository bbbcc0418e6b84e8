package transport

import "github.com/google/uuid"

type CreateProductRequest struct {
	Image       string   `json:"image"`
	Title       string   `json:"title"       validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"category"    validate:"max=64"`
	Brand       string   `json:"brand"       validate:"max=64"`
	Price       int64    `json:"price"       validate:"gt=0"`
	SalePrice   int64    `json:"salePrice"   validate:"gte=0"`
	TotalStock  int      `json:"totalStock"  validate:"gte=0"`
	Sizes       []string `json:"sizes"`
	Colors      []string `json:"colors"`
}

type PatchProductRequest struct {
	Image       *string   `json:"image"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Brand       *string   `json:"brand"`
	Price       *int64    `json:"price"`
	SalePrice   *int64    `json:"salePrice"`
	TotalStock  *int      `json:"totalStock"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
}

type AdjustStockRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}

type CreateReviewRequest struct {
	ProductID     uuid.UUID `json:"productId"     validate:"required"`
	ReviewMessage string    `json:"reviewMessage" validate:"required,max=2000"`
	ReviewValue   int       `json:"reviewValue"   validate:"min=1,max=5"`
}

type CreateFeatureRequest struct {
	Image string `json:"image" validate:"required,max=2048"`
}
