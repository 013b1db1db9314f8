package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
)

// DefaultPopularityWindow is the trailing window listings aggregate over.
const DefaultPopularityWindow = 30 * 24 * time.Hour

// PopularityScorer returns a score per menu item id for one restaurant over a
// trailing window. Scores are recomputed per query and never persisted.
type PopularityScorer interface {
	Scores(restaurantID string, window time.Duration) (map[string]float64, error)
}

// OrderPopularityScorer derives popularity from recent order volume.
type OrderPopularityScorer struct {
	DB *gorm.DB
}

func NewOrderPopularityScorer(db *gorm.DB) *OrderPopularityScorer {
	return &OrderPopularityScorer{DB: db}
}

func (s *OrderPopularityScorer) Scores(restaurantID string, window time.Duration) (map[string]float64, error) {
	type row struct {
		MenuItemID string
		Score      float64
	}

	since := time.Now().Add(-window)
	var rows []row
	err := s.DB.Table("order_items").
		Select("order_items.menu_item_id AS menu_item_id, SUM(order_items.quantity) AS score").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.restaurant_id = ?", restaurantID).
		Where("orders.status <> ?", models.OrderStatusCancelled).
		Where("orders.created_at >= ?", since).
		Group("order_items.menu_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("aggregate order volume: %w", err)
	}

	scores := make(map[string]float64, len(rows))
	for _, r := range rows {
		scores[r.MenuItemID] = r.Score
	}
	return scores, nil
}
