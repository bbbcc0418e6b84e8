package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending         = "pending"
	StatusConfirmed       = "confirmed"
	StatusRejected        = "rejected"
	StatusCancelled       = "cancelled"
	StatusInProcess       = "inProcess"
	StatusInShipping      = "inShipping"
	StatusDelivered       = "delivered"
	StatusReturnRequested = "returnRequested"
	StatusReturned        = "returned"
)

const (
	PaymentPayPal = "paypal"
	PaymentCOD    = "cod"

	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

const (
	CouponPercentage = "percentage"
	CouponFixed      = "fixed"
)

// AddressSnapshot is the delivery address copied onto the order at checkout.
type AddressSnapshot struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Pincode string `json:"pincode"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

// Amounts are in cents.
type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"          json:"id"`
	Number        string          `gorm:"size:26;uniqueIndex;not null"  json:"orderNumber"`
	UserID        uuid.UUID       `gorm:"type:uuid;index;not null"      json:"userId"`
	UserEmail     string          `json:"userEmail"`
	Items         []OrderItem     `gorm:"constraint:OnDelete:CASCADE"   json:"cartItems"`
	AddressInfo   AddressSnapshot `gorm:"embedded;embeddedPrefix:address_" json:"addressInfo"`
	Subtotal      int64           `gorm:"not null"                      json:"subtotal"`
	Discount      int64           `gorm:"not null;default:0"            json:"discount"`
	ShippingFee   int64           `gorm:"not null;default:0"            json:"shippingFee"`
	Total         int64           `gorm:"not null"                      json:"totalAmount"`
	CouponCode    string          `json:"couponCode,omitempty"`
	PaymentMethod string          `gorm:"not null"                      json:"paymentMethod"`
	PaymentStatus string          `gorm:"not null;index"                json:"paymentStatus"`
	PaymentID     string          `json:"paymentId,omitempty"`
	PayerID       string          `json:"payerId,omitempty"`
	OrderStatus   string          `gorm:"not null;index"                json:"orderStatus"`
	ReturnReason  string          `json:"returnReason,omitempty"`
	CreatedAt     time.Time       `gorm:"index"                         json:"orderDate"`
	UpdatedAt     time.Time       `json:"orderUpdateDate"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"              json:"-"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"          json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"          json:"productId"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Price     int64     `gorm:"not null"                          json:"price"`
	Quantity  int       `gorm:"not null;check:quantity>0"         json:"quantity"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Address struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"  json:"userId"`
	Address   string    `gorm:"not null"                  json:"address"`
	City      string    `gorm:"not null"                  json:"city"`
	Pincode   string    `gorm:"not null"                  json:"pincode"`
	Phone     string    `gorm:"not null"                  json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Address) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

func (a Address) Snapshot() AddressSnapshot {
	return AddressSnapshot{Address: a.Address, City: a.City, Pincode: a.Pincode, Phone: a.Phone, Notes: a.Notes}
}

// Value is a percent (1..100) for percentage coupons and cents for fixed ones.
// MaxUses 0 means unlimited.
type Coupon struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"          json:"id"`
	Code      string     `gorm:"size:32;uniqueIndex;not null"  json:"code"`
	Type      string     `gorm:"not null"                      json:"type"`
	Value     int64      `gorm:"not null"                      json:"value"`
	MinAmount int64      `gorm:"not null;default:0"            json:"minAmount"`
	MaxUses   int        `gorm:"not null;default:0"            json:"maxUses"`
	UsedCount int        `gorm:"not null;default:0"            json:"usedCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Active    bool       `gorm:"not null"                      json:"active"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func All() []any {
	return []any{&Order{}, &OrderItem{}, &Address{}, &Coupon{}}
}
