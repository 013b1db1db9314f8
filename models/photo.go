package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenuItemPhoto stores the URL and storage key of an uploaded photo. At most
// one photo per item is primary; the photo controller enforces that.
type MenuItemPhoto struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	MenuItemID string    `gorm:"type:char(36);not null;index" json:"menu_item_id"`
	URL        string    `gorm:"type:varchar(512);not null" json:"url"`
	StorageKey string    `gorm:"type:varchar(255)" json:"storage_key,omitempty"`
	IsPrimary  bool      `gorm:"not null;default:false" json:"is_primary"`
	CreatedAt  time.Time `json:"created_at"`
}

func (p *MenuItemPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
