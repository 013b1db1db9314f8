package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

type GuestMenuController struct {
	Engine *services.MenuQueryService
}

func NewGuestMenuController(engine *services.MenuQueryService) *GuestMenuController {
	return &GuestMenuController{Engine: engine}
}

// GetGuestMenu serves the token-gated menu listing.
// Endpoint: GET /menu?token=...&search=&categoryId=&chefRecommended=&sortBy=&sortOrder=&page=&limit=
func (gc *GuestMenuController) GetGuestMenu(c *gin.Context) {
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

	field, dir, err := services.ParseGuestSort(c.Query("sortBy"), c.Query("sortOrder"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	page, err := parsePageSpec(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := gc.Engine.GuestMenu(restaurantID, filter, field, dir, page)
	if err != nil {
		if errors.Is(err, utils.ErrUpstreamScoring) {
			utils.RespondError(c, http.StatusInternalServerError, utils.ErrUpstreamScoring)
			return
		}
		utils.ErrorLogger.Printf("guest menu query failed: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to load menu"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Guest menu", menu)
}
