package main

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/config"
	"github.com/dineqr/backoffice/middlewares"
	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/router"
	"github.com/dineqr/backoffice/services"
	"github.com/dineqr/backoffice/utils"
)

func main() {
	cfg := config.Load()

	utils.InitLogger()
	utils.InitJWT(cfg.JWTSecret)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	autoMigrate(db)

	scorer := services.NewOrderPopularityScorer(db)
	engine := services.NewMenuQueryService(db, scorer)
	tokens := services.NewTableTokenService(db, services.TokenConfig{
		Secret: []byte(cfg.TableTokenSecret),
		TTL:    cfg.TableTokenTTL,
	})

	// Global limiter on top of the strict login/register one.
	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, engine, tokens, cfg.BaseURL, rateLimiter)

	r.SetTrustedProxies([]string{"127.0.0.1"})

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Restaurant{},
		&models.User{},
		&models.Table{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.ModifierGroup{},
		&models.ModifierOption{},
		&models.MenuItemPhoto{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
