package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/utils"
)

// PhotoController manages photo rows for menu items. The binary upload path
// (object storage) lives elsewhere; rows carry the resulting URL and storage
// key.
type PhotoController struct {
	DB *gorm.DB
}

func NewPhotoController(db *gorm.DB) *PhotoController {
	return &PhotoController{DB: db}
}

func (pc *PhotoController) findItem(c *gin.Context) (*models.MenuItem, bool) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	var item models.MenuItem
	err = pc.DB.Where("id = ? AND restaurant_id = ? AND is_deleted = ?", c.Param("item_id"), restaurantID, false).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return &item, true
}

// GetPhotos lists an item's photos, newest first.
func (pc *PhotoController) GetPhotos(c *gin.Context) {
	item, ok := pc.findItem(c)
	if !ok {
		return
	}

	var photos []models.MenuItemPhoto
	err := pc.DB.Where("menu_item_id = ?", item.ID).
		Order("created_at desc").
		Find(&photos).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item photos", photos)
}

// AddPhoto registers an uploaded photo. The first photo of an item becomes
// primary when no primary exists yet.
func (pc *PhotoController) AddPhoto(c *gin.Context) {
	item, ok := pc.findItem(c)
	if !ok {
		return
	}

	var body struct {
		URL        string `json:"url" binding:"required"`
		StorageKey string `json:"storage_key"`
		IsPrimary  bool   `json:"is_primary"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var primaryCount int64
	if err := pc.DB.Model(&models.MenuItemPhoto{}).
		Where("menu_item_id = ? AND is_primary = ?", item.ID, true).
		Count(&primaryCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	photo := models.MenuItemPhoto{
		MenuItemID: item.ID,
		URL:        body.URL,
		StorageKey: body.StorageKey,
		IsPrimary:  body.IsPrimary || primaryCount == 0,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if photo.IsPrimary {
			if err := tx.Model(&models.MenuItemPhoto{}).
				Where("menu_item_id = ?", item.ID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&photo).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Photo added", photo)
}

// DeletePhoto
func (pc *PhotoController) DeletePhoto(c *gin.Context) {
	item, ok := pc.findItem(c)
	if !ok {
		return
	}

	result := pc.DB.Where("id = ? AND menu_item_id = ?", c.Param("photo_id"), item.ID).
		Delete(&models.MenuItemPhoto{})
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Photo deleted", gin.H{"photo_id": c.Param("photo_id")})
}

// SetPrimaryPhoto clears the current primary and marks the given photo. At
// most one photo per item is primary at any time.
func (pc *PhotoController) SetPrimaryPhoto(c *gin.Context) {
	item, ok := pc.findItem(c)
	if !ok {
		return
	}

	var photo models.MenuItemPhoto
	err := pc.DB.Where("id = ? AND menu_item_id = ?", c.Param("photo_id"), item.ID).
		First(&photo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	err = pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.MenuItemPhoto{}).
			Where("menu_item_id = ?", item.ID).
			Update("is_primary", false).Error; err != nil {
			return err
		}
		return tx.Model(&photo).Update("is_primary", true).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	photo.IsPrimary = true
	utils.RespondJSON(c, http.StatusOK, "Primary photo set", photo)
}
