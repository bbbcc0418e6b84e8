package transport

import (
	"time"

	"github.com/google/uuid"
)

type AddressInfo struct {
	Address string `json:"address" validate:"required,max=256"`
	City    string `json:"city"    validate:"required,max=128"`
	Pincode string `json:"pincode" validate:"required,max=16"`
	Phone   string `json:"phone"   validate:"required,max=32"`
	Notes   string `json:"notes"   validate:"max=512"`
}

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity"  validate:"min=1"`
}

// PlaceOrderRequest carries either an inline addressInfo or the id of a saved address.
type PlaceOrderRequest struct {
	AddressID     *uuid.UUID         `json:"addressId"`
	AddressInfo   *AddressInfo       `json:"addressInfo"`
	Items         []OrderItemRequest `json:"items"         validate:"required,min=1,dive"`
	PaymentMethod string             `json:"paymentMethod" validate:"required,oneof=paypal cod"`
	CouponCode    string             `json:"couponCode"    validate:"max=32"`
}

type PlaceOrderResponse struct {
	Success     bool      `json:"success"`
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Total       int64     `json:"total"`
	OrderStatus string    `json:"orderStatus"`
}

type CaptureRequest struct {
	OrderID   uuid.UUID `json:"orderId"   validate:"required"`
	PaymentID string    `json:"paymentId" validate:"required,max=128"`
	PayerID   string    `json:"payerId"   validate:"max=128"`
}

type ReturnRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

type StatusRequest struct {
	OrderStatus string `json:"orderStatus" validate:"required"`
}

type CreateCouponRequest struct {
	Code      string     `json:"code"      validate:"required,min=3,max=32"`
	Type      string     `json:"type"      validate:"required,oneof=percentage fixed"`
	Value     int64      `json:"value"     validate:"gt=0"`
	MinAmount int64      `json:"minAmount" validate:"gte=0"`
	MaxUses   int        `json:"maxUses"   validate:"gte=0"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type ValidateCouponRequest struct {
	Code     string `json:"code"     validate:"required,max=32"`
	Subtotal int64  `json:"subtotal" validate:"gte=0"`
}

type CouponValidation struct {
	Valid    bool   `json:"valid"`
	Discount int64  `json:"discount"`
	Message  string `json:"message"`
}
