package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

const (
	KindWelcome         = "welcome"
	KindOrderConfirmed  = "order_confirmed"
	KindOrderStatus     = "order_status_changed"
	KindOrderCancelled  = "order_cancelled"
	KindReturnRequested = "return_requested"
)

// Notification is one delivery attempt. DedupKey identifies the business
// event so a redelivered Kafka message is not mailed twice.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"      json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index"           json:"userId,omitempty"`
	Email     string     `gorm:"not null"                  json:"email"`
	Kind      string     `gorm:"not null;index"            json:"kind"`
	Subject   string     `gorm:"not null"                  json:"subject"`
	Status    string     `gorm:"not null;index"            json:"status"`
	Error     string     `json:"error,omitempty"`
	DedupKey  string     `gorm:"not null;index"            json:"-"`
	CreatedAt time.Time  `gorm:"index"                     json:"createdAt"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

func All() []any {
	return []any{&Notification{}}
}
