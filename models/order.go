package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OrderStatusActive         = "active"
	OrderStatusPaymentPending = "payment_pending"
	OrderStatusCompleted      = "completed"
	OrderStatusCancelled      = "cancelled"
)

// Order exists here as the source of the popularity signal: the scorer
// aggregates order items over a trailing window. Order placement itself is
// handled elsewhere.
type Order struct {
	ID           string      `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID string      `gorm:"type:char(36);not null;index" json:"restaurant_id"`
	TableID      string      `gorm:"type:char(36);not null;index" json:"table_id"`
	Status       string      `gorm:"type:varchar(30);not null;default:'active'" json:"status"`
	Items        []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	OrderID    string    `gorm:"type:char(36);not null;index" json:"order_id"`
	MenuItemID string    `gorm:"type:char(36);not null;index" json:"menu_item_id"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	CreatedAt  time.Time `json:"created_at"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}
