package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

type TableController struct {
	DB      *gorm.DB
	Tokens  *services.TableTokenService
	BaseURL string
}

func NewTableController(db *gorm.DB, tokens *services.TableTokenService, baseURL string) *TableController {
	return &TableController{DB: db, Tokens: tokens, BaseURL: baseURL}
}

func validTableStatus(status string) bool {
	switch status {
	case models.TableStatusAvailable, models.TableStatusOccupied, models.TableStatusInactive:
		return true
	}
	return false
}

func (tc *TableController) scanURL(token string) string {
	return fmt.Sprintf("%s/menu?token=%s", tc.BaseURL, url.QueryEscape(token))
}

// tableResponse strips the raw stored token from listings; operators fetch
// it through the QR endpoints instead.
func tableResponse(t models.Table) models.Table {
	t.QRToken = nil
	return t
}

// CreateTable creates the table and mints its first QR token.
func (tc *TableController) CreateTable(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var body struct {
		TableNumber string  `json:"table_number" binding:"required"`
		Capacity    int     `json:"capacity" binding:"required,min=1,max=20"`
		Location    *string `json:"location"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Status == "" {
		body.Status = models.TableStatusAvailable
	}
	if !validTableStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	var existing int64
	tc.DB.Model(&models.Table{}).
		Where("restaurant_id = ? AND table_number = ?", restaurantID, body.TableNumber).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("table number %q already exists", body.TableNumber))
		return
	}

	table := models.Table{
		RestaurantID: restaurantID,
		TableNumber:  body.TableNumber,
		Capacity:     body.Capacity,
		Location:     body.Location,
		Description:  body.Description,
		Status:       body.Status,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	token, created, err := tc.Tokens.Issue(table.ID, 0)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("table %s created for restaurant %s", created.TableNumber, restaurantID)

	utils.RespondJSON(c, http.StatusCreated, "Table created", gin.H{
		"table":  tableResponse(*created),
		"qr_url": tc.scanURL(token),
	})
}

// GetAllTables lists tables with optional status/location filters and
// relational sorting. Raw tokens are omitted.
// Endpoint: GET /admin/tables?status=&location=&sortBy=&sortOrder=
func (tc *TableController) GetAllTables(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	q := tc.DB.Where("restaurant_id = ?", restaurantID)
	if status := c.Query("status"); status != "" {
		if !validTableStatus(status) {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status filter"))
			return
		}
		q = q.Where("status = ?", status)
	}
	if location := c.Query("location"); location != "" {
		q = q.Where("location = ?", location)
	}

	sortBy := c.DefaultQuery("sortBy", "created_at")
	switch sortBy {
	case "table_number", "capacity", "created_at":
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown sortBy value %q", sortBy))
		return
	}
	sortOrder := c.DefaultQuery("sortOrder", "asc")
	if sortOrder != "asc" && sortOrder != "desc" {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown sortOrder value %q", sortOrder))
		return
	}

	var tables []models.Table
	if err := q.Order(sortBy + " " + sortOrder).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	out := make([]models.Table, 0, len(tables))
	for _, t := range tables {
		out = append(out, tableResponse(t))
	}

	c.Header("Cache-Control", "no-store")
	utils.RespondJSON(c, http.StatusOK, "List of tables", out)
}

func (tc *TableController) findTable(c *gin.Context) (*models.Table, bool) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return nil, false
	}

	var table models.Table
	err = tc.DB.Where("id = ? AND restaurant_id = ?", c.Param("table_id"), restaurantID).
		First(&table).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return nil, false
	}
	return &table, true
}

// GetTableByID returns the table with its active-order status.
func (tc *TableController) GetTableByID(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	activeOrders, err := tc.countActiveOrders(table.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table detail", gin.H{
		"table":              tableResponse(*table),
		"has_active_orders":  activeOrders > 0,
		"active_order_count": activeOrders,
	})
}

func (tc *TableController) countActiveOrders(tableID string) (int64, error) {
	var count int64
	err := tc.DB.Model(&models.Order{}).
		Where("table_id = ?", tableID).
		Where("status IN ?", []string{models.OrderStatusActive, models.OrderStatusPaymentPending}).
		Count(&count).Error
	return count, err
}

// UpdateTable
func (tc *TableController) UpdateTable(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var body struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		Location    *string `json:"location"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.TableNumber != nil && *body.TableNumber != table.TableNumber {
		var existing int64
		tc.DB.Model(&models.Table{}).
			Where("restaurant_id = ? AND table_number = ? AND id <> ?", table.RestaurantID, *body.TableNumber, table.ID).
			Count(&existing)
		if existing > 0 {
			utils.RespondError(c, http.StatusConflict,
				fmt.Errorf("table number %q already exists", *body.TableNumber))
			return
		}
		table.TableNumber = *body.TableNumber
	}
	if body.Capacity != nil {
		if *body.Capacity < 1 || *body.Capacity > 20 {
			utils.RespondError(c, http.StatusBadRequest, errors.New("capacity must be between 1 and 20"))
			return
		}
		table.Capacity = *body.Capacity
	}
	if body.Location != nil {
		table.Location = body.Location
	}
	if body.Description != nil {
		table.Description = body.Description
	}

	if err := tc.DB.Save(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table updated", tableResponse(*table))
}

// UpdateTableStatus refuses to deactivate a table that still has active
// orders.
func (tc *TableController) UpdateTableStatus(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !validTableStatus(body.Status) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid status"))
		return
	}

	if body.Status == models.TableStatusInactive {
		activeOrders, err := tc.countActiveOrders(table.ID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if activeOrders > 0 {
			utils.RespondError(c, http.StatusBadRequest,
				fmt.Errorf("cannot deactivate table with %d active order(s)", activeOrders))
			return
		}
	}

	table.Status = body.Status
	if err := tc.DB.Save(table).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table status updated", tableResponse(*table))
}

// RegenerateQR mints a fresh token for the table and returns the scannable
// URL. Tokens issued earlier stay valid until their own expiry; only the
// stored display copy changes.
// Endpoint: POST /admin/tables/:table_id/qr
func (tc *TableController) RegenerateQR(c *gin.Context) {
	table, ok := tc.findTable(c)
	if !ok {
		return
	}

	var body struct {
		ExpiresIn string `json:"expires_in"`
	}
	// Body is optional; ignore bind errors on empty payloads.
	_ = c.ShouldBindJSON(&body)

	var ttl time.Duration
	if body.ExpiresIn != "" {
		parsed, err := time.ParseDuration(body.ExpiresIn)
		if err != nil || parsed <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid expires_in value %q", body.ExpiresIn))
			return
		}
		ttl = parsed
	}

	token, updated, err := tc.Tokens.Issue(table.ID, ttl)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("QR token regenerated for table %s", updated.TableNumber)

	utils.RespondJSON(c, http.StatusOK, "QR code regenerated", gin.H{
		"table_id":            updated.ID,
		"table_number":        updated.TableNumber,
		"qr_token":            token,
		"qr_token_created_at": updated.QRTokenCreatedAt,
		"qr_url":              tc.scanURL(token),
	})
}

// BulkRegenerateQR reissues tokens for every table in the restaurant.
// Endpoint: POST /admin/qr/regenerate-all
func (tc *TableController) BulkRegenerateQR(c *gin.Context) {
	restaurantID, err := restaurantScope(c)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tables []models.Table
	if err := tc.DB.Where("restaurant_id = ?", restaurantID).Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	type result struct {
		TableID     string `json:"table_id"`
		TableNumber string `json:"table_number"`
		QRURL       string `json:"qr_url"`
	}
	results := make([]result, 0, len(tables))

	for _, table := range tables {
		token, _, err := tc.Tokens.Issue(table.ID, 0)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError,
				fmt.Errorf("regenerate failed at table %q: %w", table.TableNumber, err))
			return
		}
		results = append(results, result{
			TableID:     table.ID,
			TableNumber: table.TableNumber,
			QRURL:       tc.scanURL(token),
		})
	}

	utils.InfoLogger.Printf("bulk QR regeneration: %d tables for restaurant %s", len(results), restaurantID)

	utils.RespondJSON(c, http.StatusOK, "All QR codes regenerated", results)
}
