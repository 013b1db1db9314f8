package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
)

func TestOrderPopularityScorer(t *testing.T) {
	db := setupQueryDB(t)
	scorer := services.NewOrderPopularityScorer(db)

	recent := models.Order{RestaurantID: "rest-a", TableID: "tbl-1", Status: models.OrderStatusCompleted}
	assert.NoError(t, db.Create(&recent).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: recent.ID, MenuItemID: "item-1", Quantity: 2}).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: recent.ID, MenuItemID: "item-2", Quantity: 1}).Error)

	second := models.Order{RestaurantID: "rest-a", TableID: "tbl-2", Status: models.OrderStatusActive}
	assert.NoError(t, db.Create(&second).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: second.ID, MenuItemID: "item-1", Quantity: 3}).Error)

	// Cancelled orders never count.
	cancelled := models.Order{RestaurantID: "rest-a", TableID: "tbl-1", Status: models.OrderStatusCancelled}
	assert.NoError(t, db.Create(&cancelled).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: cancelled.ID, MenuItemID: "item-1", Quantity: 99}).Error)

	// Orders outside the trailing window never count.
	stale := models.Order{RestaurantID: "rest-a", TableID: "tbl-1", Status: models.OrderStatusCompleted,
		CreatedAt: time.Now().Add(-40 * 24 * time.Hour)}
	assert.NoError(t, db.Create(&stale).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: stale.ID, MenuItemID: "item-2", Quantity: 50}).Error)

	// Other tenants never leak in.
	other := models.Order{RestaurantID: "rest-b", TableID: "tbl-9", Status: models.OrderStatusCompleted}
	assert.NoError(t, db.Create(&other).Error)
	assert.NoError(t, db.Create(&models.OrderItem{OrderID: other.ID, MenuItemID: "item-3", Quantity: 4}).Error)

	scores, err := scorer.Scores("rest-a", services.DefaultPopularityWindow)
	assert.NoError(t, err)

	assert.Equal(t, float64(5), scores["item-1"])
	assert.Equal(t, float64(1), scores["item-2"])
	_, found := scores["item-3"]
	assert.False(t, found)
}

func TestOrderPopularityScorerEmpty(t *testing.T) {
	db := setupQueryDB(t)
	scorer := services.NewOrderPopularityScorer(db)

	scores, err := scorer.Scores("rest-a", services.DefaultPopularityWindow)
	assert.NoError(t, err)
	assert.Empty(t, scores)
}
