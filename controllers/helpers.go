package controllers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

// restaurantScope reads the restaurant id resolved by the auth middleware or
// the table token guard. Client-supplied identifiers never reach here.
func restaurantScope(c *gin.Context) (string, error) {
	if id := c.GetString("restaurant_id"); id != "" {
		return id, nil
	}
	return "", utils.ErrRestaurantScope
}

func parsePageSpec(c *gin.Context) (services.PageSpec, error) {
	page := 1
	limit := 20

	if raw := c.Query("page"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return services.PageSpec{}, fmt.Errorf("invalid page value %q", raw)
		}
		page = v
	}
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return services.PageSpec{}, fmt.Errorf("invalid limit value %q", raw)
		}
		limit = v
	}

	return services.NewPageSpec(page, limit)
}

func parseItemFilter(c *gin.Context) (services.ItemFilter, error) {
	f := services.ItemFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	if raw := c.Query("categoryId"); raw != "" {
		if _, err := uuid.Parse(raw); err != nil {
			return f, fmt.Errorf("invalid categoryId value %q", raw)
		}
		f.CategoryID = raw
	}

	if raw := c.Query("chefRecommended"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fmt.Errorf("invalid chefRecommended value %q", raw)
		}
		f.ChefRecommended = &v
	}

	return f, nil
}
