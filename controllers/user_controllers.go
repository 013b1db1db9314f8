package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/utils"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// Register creates a staff account. When restaurant_id is omitted a new
// restaurant is created from restaurant_name and the user becomes its admin.
func (uc *UserController) Register(c *gin.Context) {
	var body struct {
		Name           string `json:"name" binding:"required"`
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=8"`
		Role           string `json:"role"`
		RestaurantID   string `json:"restaurant_id"`
		RestaurantName string `json:"restaurant_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if body.Role == "" {
		body.Role = models.RoleStaff
	}
	if body.Role != models.RoleAdmin && body.Role != models.RoleStaff {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid role"))
		return
	}

	var existing int64
	uc.DB.Model(&models.User{}).Where("email = ?", body.Email).Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("email already registered"))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var user models.User
	err = uc.DB.Transaction(func(tx *gorm.DB) error {
		restaurantID := body.RestaurantID
		if restaurantID == "" {
			if body.RestaurantName == "" {
				return errors.New("restaurant_id or restaurant_name is required")
			}
			restaurant := models.Restaurant{Name: body.RestaurantName}
			if err := tx.Create(&restaurant).Error; err != nil {
				return err
			}
			restaurantID = restaurant.ID
			body.Role = models.RoleAdmin
		} else {
			var count int64
			if err := tx.Model(&models.Restaurant{}).Where("id = ?", restaurantID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errors.New("restaurant not found")
			}
		}

		user = models.User{
			RestaurantID: restaurantID,
			Name:         body.Name,
			Email:        body.Email,
			Password:     string(hashed),
			Role:         body.Role,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	utils.InfoLogger.Printf("user %s registered for restaurant %s", user.Email, user.RestaurantID)

	utils.RespondJSON(c, http.StatusCreated, "Registration successful", user)
}

// Login
func (uc *UserController) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var user models.User
	if err := uc.DB.Where("email = ?", body.Email).First(&user).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(body.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid email or password"))
		return
	}

	token, err := utils.GenerateToken(user.ID, user.RestaurantID, user.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"user":  user,
	})
}

// GetProfile returns the authenticated user.
func (uc *UserController) GetProfile(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	var user models.User
	if err := uc.DB.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, utils.ErrNotFound)
		} else {
			utils.RespondError(c, http.StatusInternalServerError, err)
		}
		return
	}

	utils.RespondJSON(c, http.StatusOK, "User profile", user)
}
