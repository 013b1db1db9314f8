package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ItemStatusAvailable   = "available"
	ItemStatusUnavailable = "unavailable"
	ItemStatusSoldOut     = "sold_out"
)

type MenuItem struct {
	ID                string          `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID      string          `gorm:"type:char(36);not null;index" json:"restaurant_id"`
	CategoryID        string          `gorm:"type:char(36);not null;index" json:"category_id"`
	Category          *MenuCategory   `gorm:"foreignKey:CategoryID;references:ID" json:"category,omitempty"`
	Name              string          `gorm:"type:varchar(255);not null" json:"name"`
	Description       string          `gorm:"type:text" json:"description"`
	Price             float64         `gorm:"type:decimal(10,2);not null" json:"price"`
	PrepTimeMinutes   int             `gorm:"not null;default:0" json:"prep_time_minutes"`
	Status            string          `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	IsChefRecommended bool            `gorm:"not null;default:false" json:"is_chef_recommended"`
	IsDeleted         bool            `gorm:"not null;default:false" json:"is_deleted"`
	Photos            []MenuItemPhoto `gorm:"foreignKey:MenuItemID" json:"photos,omitempty"`
	ModifierGroups    []ModifierGroup `gorm:"many2many:menu_item_modifier_groups;" json:"modifier_groups,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (mi *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if mi.ID == "" {
		mi.ID = uuid.NewString()
	}
	return nil
}
