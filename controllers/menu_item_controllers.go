package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

type MenuItemController struct {
	DB     *gorm.DB
	Engine *services.MenuQueryService
}

func NewMenuItemController(db *gorm.DB, engine *services.MenuQueryService) *MenuItemController {
	return &MenuItemController{DB: db, Engine: engine}
}

func validItemStatus(status string) bool {
	switch status {
	case models.ItemStatusAvailable, models.ItemStatusUnavailable, models.ItemStatusSoldOut:
		return true
	}
	return false
}

// GetAllItems lists the restaurant's items (deleted ones excluded) as a flat,
// paginated list sharing the guest menu's filter/sort/score pipeline.
// Endpoint: GET /admin/items?search=&categoryId=&status=&chefRecommended=&sortBy=&sortOrder=&page=&limit=
func (mic *MenuItemController) GetAllItems(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	filter, err := parseItemFilter(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if filter.Status != "" && !validItemStatus(filter.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status filter"))
		return
	}

	field, dir, err := services.ParseItemSort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	page, err := parsePageSpec(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	items, err := mic.Engine.AdminItems(restaurantID, filter, field, dir, page)
	if err != nil {
		if errors.Is(err, utils.ErrUpstreamScoring) {
			utils.RespondError(c, http.StatusInternalServerError, utils.ErrUpstreamScoring)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menu items", items)
}

// categoryBelongsToRestaurant guards the cross-restaurant invariant: an
// item's category must live in the same restaurant.
func (mic *MenuItemController) categoryBelongsToRestaurant(categoryID, restaurantID string) (bool, error) {
	var count int64
	err := mic.DB.Model(&models.MenuCategory{}).
		Where("id = ? AND restaurant_id = ?", categoryID, restaurantID).
		Count(&count).Error
	return count > 0, err
}

// CreateMenuItem
func (mic *MenuItemController) CreateMenuItem(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		CategoryID        string  `json:"category_id" binding:"required,uuid"`
		Name              string  `json:"name" binding:"required"`
		Description       string  `json:"description"`
		Price             float64 `json:"price" binding:"required,gt=0"`
		PrepTimeMinutes   int     `json:"prep_time_minutes" binding:"min=0,max=240"`
		Status            string  `json:"status"`
		IsChefRecommended bool    `json:"is_chef_recommended"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Status == "" {
		body.Status = models.ItemStatusAvailable
	}
	if !validItemStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	ok, err := mic.categoryBelongsToRestaurant(body.CategoryID, restaurantID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("category not found or does not belong to this restaurant"))
		return
	}

	item := models.MenuItem{
		RestaurantID:      restaurantID,
		CategoryID:        body.CategoryID,
		Name:              body.Name,
		Description:       body.Description,
		Price:             body.Price,
		PrepTimeMinutes:   body.PrepTimeMinutes,
		Status:            body.Status,
		IsChefRecommended: body.IsChefRecommended,
	}
	if err := mic.DB.Create(&item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

func (mic *MenuItemController) findItem(c *gin.Context) (*models.MenuItem, bool) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	var item models.MenuItem
	err = mic.DB.Where("id = ? AND restaurant_id = ? AND is_deleted = ?", c.Param("item_id"), restaurantID, false).
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

// GetMenuItemByID returns the item with its category, photos and modifier
// groups nested.
func (mic *MenuItemController) GetMenuItemByID(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var item models.MenuItem
	err = mic.DB.Where("id = ? AND restaurant_id = ? AND is_deleted = ?", c.Param("item_id"), restaurantID, false).
		Preload("Category").
		Preload("Photos").
		Preload("ModifierGroups").
		Preload("ModifierGroups.Options").
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item detail", item)
}

// UpdateMenuItem
func (mic *MenuItemController) UpdateMenuItem(c *gin.Context) {
	item, ok := mic.findItem(c)
	if !ok {
		return
	}

	var body struct {
		CategoryID        *string  `json:"category_id"`
		Name              *string  `json:"name"`
		Description       *string  `json:"description"`
		Price             *float64 `json:"price"`
		PrepTimeMinutes   *int     `json:"prep_time_minutes"`
		Status            *string  `json:"status"`
		IsChefRecommended *bool    `json:"is_chef_recommended"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.CategoryID != nil {
		ok, err := mic.categoryBelongsToRestaurant(*body.CategoryID, item.RestaurantID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("category not found or does not belong to this restaurant"))
			return
		}
		item.CategoryID = *body.CategoryID
	}
	if body.Name != nil {
		item.Name = *body.Name
	}
	if body.Description != nil {
		item.Description = *body.Description
	}
	if body.Price != nil {
		if *body.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("price must be greater than zero"))
			return
		}
		item.Price = *body.Price
	}
	if body.PrepTimeMinutes != nil {
		if *body.PrepTimeMinutes < 0 || *body.PrepTimeMinutes > 240 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("prep_time_minutes must be between 0 and 240"))
			return
		}
		item.PrepTimeMinutes = *body.PrepTimeMinutes
	}
	if body.Status != nil {
		if !validItemStatus(*body.Status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		item.Status = *body.Status
	}
	if body.IsChefRecommended != nil {
		item.IsChefRecommended = *body.IsChefRecommended
	}

	if err := mic.DB.Save(item).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem soft deletes; the row stays for order history but drops out
// of every listing.
func (mic *MenuItemController) DeleteMenuItem(c *gin.Context) {
	item, ok := mic.findItem(c)
	if !ok {
		return
	}

	if err := mic.DB.Model(item).Update("is_deleted", true).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item deleted", gin.H{"item_id": item.ID})
}

// AttachModifierGroups replaces the item's modifier group set.
func (mic *MenuItemController) AttachModifierGroups(c *gin.Context) {
	item, ok := mic.findItem(c)
	if !ok {
		return
	}

	var body struct {
		GroupIDs []string `json:"group_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var groups []models.ModifierGroup
	if len(body.GroupIDs) > 0 {
		if err := mic.DB.Where("id IN ? AND restaurant_id = ?", body.GroupIDs, item.RestaurantID).
			Find(&groups).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if len(groups) != len(body.GroupIDs) {
			utils.RespondError(c, http.StatusBadRequest,
				errors.New("modifier group not found or does not belong to this restaurant"))
			return
		}
	}

	if err := mic.DB.Model(item).Association("ModifierGroups").Replace(groups); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier groups attached", gin.H{
		"item_id":   item.ID,
		"group_ids": body.GroupIDs,
	})
}
