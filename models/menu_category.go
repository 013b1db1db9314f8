package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)

// MenuCategory groups menu items for display. Guests only ever see active
// categories; "deleting" a category sets it inactive.
type MenuCategory struct {
	ID           string    `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID string    `gorm:"type:char(36);not null;index;uniqueIndex:idx_category_name" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_category_name" json:"name"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (mc *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if mc.ID == "" {
		mc.ID = uuid.NewString()
	}
	return nil
}
