package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
	TableStatusInactive  = "inactive"
)

// Table is a physical table. QRToken holds a display copy of the most
// recently issued capability token so operators can re-print the QR code;
// token verification never reads it.
type Table struct {
	ID               string     `gorm:"type:char(36);primaryKey" json:"id"`
	RestaurantID     string     `gorm:"type:char(36);not null;index;uniqueIndex:idx_table_number" json:"restaurant_id"`
	TableNumber      string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_table_number" json:"table_number"`
	Capacity         int        `gorm:"not null;default:2" json:"capacity"`
	Location         *string    `gorm:"type:varchar(100)" json:"location,omitempty"`
	Description      *string    `gorm:"type:text" json:"description,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	QRToken          *string    `gorm:"type:text" json:"qr_token,omitempty"`
	QRTokenCreatedAt *time.Time `json:"qr_token_created_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
