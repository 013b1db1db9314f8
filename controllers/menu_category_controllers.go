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

type MenuCategoryController struct {
	DB     *gorm.DB
	Engine *services.MenuQueryService
}

func NewMenuCategoryController(db *gorm.DB, engine *services.MenuQueryService) *MenuCategoryController {
	return &MenuCategoryController{DB: db, Engine: engine}
}

// GetAllCategories lists the restaurant's categories with item counts.
// Endpoint: GET /admin/categories?search=&status=&sortBy=&sortOrder=
func (mcc *MenuCategoryController) GetAllCategories(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	field, dir, err := services.ParseCategorySort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	filter := services.CategoryFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	categories, err := mcc.Engine.AdminCategories(restaurantID, filter, field, dir)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "All menu categories", categories)
}

// CreateCategory
func (mcc *MenuCategoryController) CreateCategory(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		Name         string `json:"name" binding:"required"`
		DisplayOrder int    `json:"display_order"`
		Status       string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Status == "" {
		body.Status = models.CategoryStatusActive
	}
	if body.Status != models.CategoryStatusActive && body.Status != models.CategoryStatusInactive {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	var existing int64
	mcc.DB.Model(&models.MenuCategory{}).
		Where("restaurant_id = ? AND name = ?", restaurantID, body.Name).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("category name already exists in this restaurant"))
		return
	}

	category := models.MenuCategory{
		RestaurantID: restaurantID,
		Name:         body.Name,
		DisplayOrder: body.DisplayOrder,
		Status:       body.Status,
	}
	if err := mcc.DB.Create(&category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

func (mcc *MenuCategoryController) findCategory(c *gin.Context) (*models.MenuCategory, bool) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	var category models.MenuCategory
	err = mcc.DB.Where("id = ? AND restaurant_id = ?", c.Param("cat_id"), restaurantID).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return &category, true
}

// GetCategoryByID
func (mcc *MenuCategoryController) GetCategoryByID(c *gin.Context) {
	category, ok := mcc.findCategory(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Category detail", category)
}

// UpdateCategory
func (mcc *MenuCategoryController) UpdateCategory(c *gin.Context) {
	category, ok := mcc.findCategory(c)
	if !ok {
		return
	}

	var body struct {
		Name         *string `json:"name"`
		DisplayOrder *int    `json:"display_order"`
		Status       *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Name != nil && *body.Name != category.Name {
		var existing int64
		mcc.DB.Model(&models.MenuCategory{}).
			Where("restaurant_id = ? AND name = ? AND id <> ?", category.RestaurantID, *body.Name, category.ID).
			Count(&existing)
		if existing > 0 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("category name already exists"))
			return
		}
		category.Name = *body.Name
	}
	if body.DisplayOrder != nil {
		category.DisplayOrder = *body.DisplayOrder
	}
	if body.Status != nil {
		if *body.Status != models.CategoryStatusActive && *body.Status != models.CategoryStatusInactive {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		category.Status = *body.Status
	}

	if err := mcc.DB.Save(category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory refuses while the category still holds non-deleted items,
// then soft deletes by flipping status to inactive.
func (mcc *MenuCategoryController) DeleteCategory(c *gin.Context) {
	category, ok := mcc.findCategory(c)
	if !ok {
		return
	}

	var itemCount int64
	if err := mcc.DB.Model(&models.MenuItem{}).
		Where("category_id = ? AND is_deleted = ?", category.ID, false).
		Count(&itemCount).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if itemCount > 0 {
		utils.RespondError(c, http.StatusBadRequest,
			errors.New("cannot delete category containing menu items, move or delete the items first"))
		return
	}

	category.Status = models.CategoryStatusInactive
	if err := mcc.DB.Save(category).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", gin.H{"category_id": category.ID})
}
