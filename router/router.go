package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/controllers"
	"github.com/dineqr/backoffice/middlewares"
	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/services"
)

// SetupRouter wires every endpoint. The guest surface is the single /menu
// route behind the table token guard; everything under /admin requires a
// staff session. The global limiter must be attached here, before any route
// registers, or gin snapshots the handler chains without it.
func SetupRouter(db *gorm.DB, engine *services.MenuQueryService, tokens *services.TableTokenService, baseURL string, limiter *middlewares.RateLimiter) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	if limiter != nil {
		r.Use(limiter.RateLimit())
	}

	userCtrl := controllers.NewUserController(db)
	guestCtrl := controllers.NewGuestMenuController(engine)
	categoryCtrl := controllers.NewMenuCategoryController(db, engine)
	itemCtrl := controllers.NewMenuItemController(db, engine)
	modifierCtrl := controllers.NewModifierController(db)
	photoCtrl := controllers.NewPhotoController(db)
	tableCtrl := controllers.NewTableController(db, tokens, baseURL)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// Guest menu, entered by scanning a table QR code. The legacy
	// X-Restaurant-Id fallback stays on until old printed codes rotate out.
	guest := r.Group("/")
	guest.Use(middlewares.TableTokenGuard(tokens, true))
	{
		guest.GET("/menu", guestCtrl.GetGuestMenu)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())

	auth.GET("/profile", userCtrl.GetProfile)

	// MENU CATEGORIES
	auth.GET("/categories", categoryCtrl.GetAllCategories)
	auth.POST("/categories", categoryCtrl.CreateCategory)
	auth.GET("/categories/:cat_id", categoryCtrl.GetCategoryByID)
	auth.PATCH("/categories/:cat_id", categoryCtrl.UpdateCategory)
	auth.DELETE("/categories/:cat_id", categoryCtrl.DeleteCategory)

	// MENU ITEMS
	auth.GET("/items", itemCtrl.GetAllItems)
	auth.POST("/items", itemCtrl.CreateMenuItem)
	auth.GET("/items/:item_id", itemCtrl.GetMenuItemByID)
	auth.PATCH("/items/:item_id", itemCtrl.UpdateMenuItem)
	auth.DELETE("/items/:item_id", itemCtrl.DeleteMenuItem)
	auth.PUT("/items/:item_id/modifier-groups", itemCtrl.AttachModifierGroups)

	// MENU ITEM PHOTOS
	auth.GET("/items/:item_id/photos", photoCtrl.GetPhotos)
	auth.POST("/items/:item_id/photos", photoCtrl.AddPhoto)
	auth.DELETE("/items/:item_id/photos/:photo_id", photoCtrl.DeletePhoto)
	auth.PATCH("/items/:item_id/photos/:photo_id/primary", photoCtrl.SetPrimaryPhoto)

	// MODIFIERS
	auth.GET("/modifier-groups", modifierCtrl.GetAllGroups)
	auth.POST("/modifier-groups", modifierCtrl.CreateGroup)
	auth.GET("/modifier-groups/:group_id", modifierCtrl.GetGroupByID)
	auth.PATCH("/modifier-groups/:group_id", modifierCtrl.UpdateGroup)
	auth.POST("/modifier-groups/:group_id/options", modifierCtrl.CreateOption)
	auth.PATCH("/modifier-options/:option_id", modifierCtrl.UpdateOption)

	// TABLES
	auth.GET("/tables", tableCtrl.GetAllTables)
	auth.POST("/tables", tableCtrl.CreateTable)
	auth.GET("/tables/:table_id", tableCtrl.GetTableByID)
	auth.PATCH("/tables/:table_id", tableCtrl.UpdateTable)
	auth.PATCH("/tables/:table_id/status", tableCtrl.UpdateTableStatus)

	// QR regeneration is admin-only; a leaked staff session should not be
	// able to rotate every printed code.
	auth.POST("/tables/:table_id/qr", middlewares.RequireRole(models.RoleAdmin), tableCtrl.RegenerateQR)
	auth.POST("/qr/regenerate-all", middlewares.RequireRole(models.RoleAdmin), tableCtrl.BulkRegenerateQR)

	return r
}
