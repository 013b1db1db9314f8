package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/controllers"
	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
)

func setupCategoryRouter(db *gorm.DB) *gin.Engine {
	engine := services.NewMenuQueryService(db, services.NewOrderPopularityScorer(db))
	router := gin.New()
	ctrl := controllers.NewMenuCategoryController(db, engine)

	admin := router.Group("/admin", withScope("rest-a"))
	admin.GET("/categories", ctrl.GetAllCategories)
	admin.POST("/categories", ctrl.CreateCategory)
	admin.GET("/categories/:cat_id", ctrl.GetCategoryByID)
	admin.PATCH("/categories/:cat_id", ctrl.UpdateCategory)
	admin.DELETE("/categories/:cat_id", ctrl.DeleteCategory)
	return router
}

func TestCategoryCRUD(t *testing.T) {
	db := setupTestDB(t)
	router := setupCategoryRouter(db)

	w := postJSON(router, "/admin/categories", map[string]interface{}{
		"name":          "Mains",
		"display_order": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data models.MenuCategory `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, models.CategoryStatusActive, created.Data.Status)

	// Duplicate name in the same restaurant.
	w = postJSON(router, "/admin/categories", map[string]interface{}{"name": "Mains"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = patchJSON(router, "/admin/categories/"+created.Data.ID, map[string]interface{}{
		"name":          "Main Courses",
		"display_order": 5,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/admin/categories/"+created.Data.ID, nil)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)

	var fetched struct {
		Data models.MenuCategory `json:"data"`
	}
	assert.NoError(t, json.Unmarshal(w2.Body.Bytes(), &fetched))
	assert.Equal(t, "Main Courses", fetched.Data.Name)
	assert.Equal(t, 5, fetched.Data.DisplayOrder)
}

func TestDeleteCategoryWithItems(t *testing.T) {
	db := setupTestDB(t)
	router := setupCategoryRouter(db)

	cat := models.MenuCategory{RestaurantID: "rest-a", Name: "Mains", Status: models.CategoryStatusActive}
	assert.NoError(t, db.Create(&cat).Error)
	item := models.MenuItem{RestaurantID: "rest-a", CategoryID: cat.ID, Name: "Burger", Price: 9.5, Status: models.ItemStatusAvailable}
	assert.NoError(t, db.Create(&item).Error)

	req, _ := http.NewRequest("DELETE", "/admin/categories/"+cat.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Soft deleting the item clears the way.
	assert.NoError(t, db.Model(&item).Update("is_deleted", true).Error)

	req, _ = http.NewRequest("DELETE", "/admin/categories/"+cat.ID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var stored models.MenuCategory
	assert.NoError(t, db.First(&stored, "id = ?", cat.ID).Error)
	assert.Equal(t, models.CategoryStatusInactive, stored.Status)
}

func TestCategoryScopeIsolation(t *testing.T) {
	db := setupTestDB(t)
	router := setupCategoryRouter(db)

	foreign := models.MenuCategory{RestaurantID: "rest-b", Name: "Theirs", Status: models.CategoryStatusActive}
	assert.NoError(t, db.Create(&foreign).Error)

	req, _ := http.NewRequest("GET", "/admin/categories/"+foreign.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
