package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ModifierStatusActive   = "active"
	ModifierStatusInactive = "inactive"

	SelectionTypeSingle   = "single"
	SelectionTypeMultiple = "multiple"
)

// ModifierGroup is a set of customization options attached to menu items
// through the menu_item_modifier_groups join table.
type ModifierGroup struct {
	ID            string           `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID  string           `gorm:"type:char(36);not null;index" json:"restaurant_id"`
	Name          string           `gorm:"type:varchar(100);not null" json:"name"`
	SelectionType string           `gorm:"type:varchar(20);not null;default:'single'" json:"selection_type"`
	IsRequired    bool             `gorm:"not null;default:false" json:"is_required"`
	MinSelections int              `gorm:"not null;default:0" json:"min_selections"`
	MaxSelections int              `gorm:"not null;default:1" json:"max_selections"`
	DisplayOrder  int              `gorm:"not null;default:0" json:"display_order"`
	Status        string           `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Options       []ModifierOption `gorm:"foreignKey:GroupID" json:"options,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func (mg *ModifierGroup) BeforeCreate(tx *gorm.DB) error {
	if mg.ID == "" {
		mg.ID = uuid.NewString()
	}
	return nil
}

type ModifierOption struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	GroupID         string    `gorm:"type:char(36);not null;index" json:"group_id"`
	Name            string    `gorm:"type:varchar(100);not null" json:"name"`
	PriceAdjustment float64   `gorm:"type:decimal(10,2);not null;default:0" json:"price_adjustment"`
	Status          string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func (mo *ModifierOption) BeforeCreate(tx *gorm.DB) error {
	if mo.ID == "" {
		mo.ID = uuid.NewString()
	}
	return nil
}
