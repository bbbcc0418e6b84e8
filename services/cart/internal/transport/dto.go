package transport

import "github.com/google/uuid"

type CartItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"min=1"`
}

// CartItemView is a cart line joined with the current catalog data.
type CartItemView struct {
	ProductID uuid.UUID `json:"productId"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Price     int64     `json:"price"`
	SalePrice int64     `json:"salePrice"`
	Quantity  int       `json:"quantity"`
}

type CartView struct {
	ID     uuid.UUID      `json:"id,omitempty"`
	UserID uuid.UUID      `json:"userId"`
	Items  []CartItemView `json:"items"`
}

type DecrementResponse struct {
	ProductID uuid.UUID `json:"productId"`
	Deleted   bool      `json:"deleted"`
	Quantity  int       `json:"quantity"`
}
