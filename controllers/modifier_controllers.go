package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/utils"
)

type ModifierController struct {
	DB *gorm.DB
}

func NewModifierController(db *gorm.DB) *ModifierController {
	return &ModifierController{DB: db}
}

// GetAllGroups lists the restaurant's active modifier groups with options.
func (mc *ModifierController) GetAllGroups(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var groups []models.ModifierGroup
	err = mc.DB.Where("restaurant_id = ?", restaurantID).
		Preload("Options").
		Order("display_order asc").
		Find(&groups).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All modifier groups", groups)
}

// CreateGroup
func (mc *ModifierController) CreateGroup(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Name          string `json:"name" binding:"required"`
		SelectionType string `json:"selection_type"`
		IsRequired    bool   `json:"is_required"`
		MinSelections int    `json:"min_selections" binding:"min=0"`
		MaxSelections int    `json:"max_selections" binding:"min=0"`
		DisplayOrder  int    `json:"display_order"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.SelectionType == "" {
		body.SelectionType = models.SelectionTypeSingle
	}
	if body.SelectionType != models.SelectionTypeSingle && body.SelectionType != models.SelectionTypeMultiple {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid selection_type"))
		return
	}
	if body.MaxSelections > 0 && body.MinSelections > body.MaxSelections {
		utils.RespondError(c, http.StatusBadRequest, errors.New("min_selections cannot exceed max_selections"))
		return
	}

	group := models.ModifierGroup{
		RestaurantID:  restaurantID,
		Name:          body.Name,
		SelectionType: body.SelectionType,
		IsRequired:    body.IsRequired,
		MinSelections: body.MinSelections,
		MaxSelections: body.MaxSelections,
		DisplayOrder:  body.DisplayOrder,
		Status:        models.ModifierStatusActive,
	}
	if err := mc.DB.Create(&group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier group created", group)
}

func (mc *ModifierController) findGroup(c *gin.Context) (*models.ModifierGroup, bool) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	var group models.ModifierGroup
	err = mc.DB.Where("id = ? AND restaurant_id = ?", c.Param("group_id"), restaurantID).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return &group, true
}

// GetGroupByID
func (mc *ModifierController) GetGroupByID(c *gin.Context) {
	group, ok := mc.findGroup(c)
	if !ok {
		return
	}

	if err := mc.DB.Preload("Options").First(group, "id = ?", group.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier group detail", group)
}

// UpdateGroup
func (mc *ModifierController) UpdateGroup(c *gin.Context) {
	group, ok := mc.findGroup(c)
	if !ok {
		return
	}

	var body struct {
		Name          *string `json:"name"`
		SelectionType *string `json:"selection_type"`
		IsRequired    *bool   `json:"is_required"`
		MinSelections *int    `json:"min_selections"`
		MaxSelections *int    `json:"max_selections"`
		DisplayOrder  *int    `json:"display_order"`
		Status        *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		group.Name = *body.Name
	}
	if body.SelectionType != nil {
		if *body.SelectionType != models.SelectionTypeSingle && *body.SelectionType != models.SelectionTypeMultiple {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid selection_type"))
			return
		}
		group.SelectionType = *body.SelectionType
	}
	if body.IsRequired != nil {
		group.IsRequired = *body.IsRequired
	}
	if body.MinSelections != nil {
		group.MinSelections = *body.MinSelections
	}
	if body.MaxSelections != nil {
		group.MaxSelections = *body.MaxSelections
	}
	if body.DisplayOrder != nil {
		group.DisplayOrder = *body.DisplayOrder
	}
	if body.Status != nil {
		if *body.Status != models.ModifierStatusActive && *body.Status != models.ModifierStatusInactive {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		group.Status = *body.Status
	}

	if err := mc.DB.Save(group).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier group updated", group)
}

// CreateOption adds an option to a group.
func (mc *ModifierController) CreateOption(c *gin.Context) {
	group, ok := mc.findGroup(c)
	if !ok {
		return
	}

	var body struct {
		Name            string  `json:"name" binding:"required"`
		PriceAdjustment float64 `json:"price_adjustment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	option := models.ModifierOption{
		GroupID:         group.ID,
		Name:            body.Name,
		PriceAdjustment: body.PriceAdjustment,
		Status:          models.ModifierStatusActive,
	}
	if err := mc.DB.Create(&option).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Modifier option created", option)
}

// UpdateOption updates an option, checking it belongs to the restaurant
// through its group.
func (mc *ModifierController) UpdateOption(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var option models.ModifierOption
	err = mc.DB.Joins("JOIN modifier_groups ON modifier_groups.id = modifier_options.group_id").
		Where("modifier_options.id = ? AND modifier_groups.restaurant_id = ?", c.Param("option_id"), restaurantID).
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	var body struct {
		Name            *string  `json:"name"`
		PriceAdjustment *float64 `json:"price_adjustment"`
		Status          *string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil {
		option.Name = *body.Name
	}
	if body.PriceAdjustment != nil {
		option.PriceAdjustment = *body.PriceAdjustment
	}
	if body.Status != nil {
		if *body.Status != models.ModifierStatusActive && *body.Status != models.ModifierStatusInactive {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		option.Status = *body.Status
	}

	if err := mc.DB.Save(&option).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Modifier option updated", option)
}
