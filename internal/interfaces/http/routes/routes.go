// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sylo-hq/sylo-backend/internal/config"
	"github.com/sylo-hq/sylo-backend/internal/domain/user"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/handlers"
	"github.com/sylo-hq/sylo-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires every API route group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	SetupAuthRoutes(rg, db, cfg)
	SetupUserRoutes(rg, db, cfg)
	SetupCatalogRoutes(rg, db, redisClient, cfg)
	SetupVendorRoutes(rg, db, cfg)
	SetupPurchaseRoutes(rg, db, redisClient, cfg)
	SetupTransferRoutes(rg, db, redisClient, cfg)
	SetupStockRoutes(rg, db, redisClient, cfg)
	SetupCountRoutes(rg, db, redisClient, cfg)
}

// SetupAuthRoutes sets up authentication related routes
func SetupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.Profile)
			protected.POST("/change-password", authHandler.ChangePassword)
		}
	}
}

// SetupUserRoutes sets up user management routes
func SetupUserRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	userHandler := handlers.NewUserHandler(db, cfg)

	users := rg.Group("/users")
	users.Use(middleware.AuthMiddleware(cfg))
	{
		users.GET("", userHandler.ListUsers)
		users.PATCH("/:id", userHandler.UpdateUser)
		users.DELETE("/:id", userHandler.DeleteUser)
		users.POST("/:id/reset-password", userHandler.ResetPassword)

		manage := users.Group("")
		manage.Use(middleware.RequireRoles(string(user.RoleOwner), string(user.RoleManager)))
		{
			manage.POST("", userHandler.CreateUser)
		}
	}

	businesses := rg.Group("/businesses")
	businesses.Use(middleware.AuthMiddleware(cfg))
	{
		businesses.GET("/:id/branches", userHandler.GetBranches)
	}

	// Pre-auth workspace discovery for the login screen.
	rg.GET("/owners/businesses-by-username", userHandler.GetOwnerBusinesses)
}

// SetupCatalogRoutes sets up item, composite item and production routes
func SetupCatalogRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	itemHandler := handlers.NewItemHandler(db, cfg, redisClient)

	items := rg.Group("/items")
	items.Use(middleware.AuthMiddleware(cfg))
	{
		items.GET("", itemHandler.GetItems)
		items.GET("/:id", itemHandler.GetItem)
		items.POST("", itemHandler.CreateItem)
		items.PATCH("/:id", itemHandler.UpdateItem)
		items.DELETE("/:id", itemHandler.DeleteItem)
	}

	categories := rg.Group("/categories")
	categories.Use(middleware.AuthMiddleware(cfg))
	{
		categories.GET("", itemHandler.GetCategories)
		categories.POST("", itemHandler.CreateCategory)
	}

	inventory := rg.Group("/inventory")
	inventory.Use(middleware.AuthMiddleware(cfg))
	{
		inventory.GET("/composite-items", itemHandler.GetCompositeItems)
		inventory.GET("/composite-items/:id", itemHandler.GetCompositeItem)

		branchScoped := inventory.Group("")
		branchScoped.Use(middleware.BranchMiddleware(db))
		{
			branchScoped.POST("/composite-items/:id/produce", itemHandler.Produce)
			branchScoped.GET("/production", itemHandler.GetProductionStats)
		}
	}
}

// SetupVendorRoutes sets up vendor routes
func SetupVendorRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	vendorHandler := handlers.NewVendorHandler(db, cfg)

	vendors := rg.Group("/vendors")
	vendors.Use(middleware.AuthMiddleware(cfg))
	vendors.Use(middleware.BranchMiddleware(db))
	{
		vendors.GET("", vendorHandler.GetVendors)
		vendors.GET("/:id", vendorHandler.GetVendor)
		vendors.POST("", vendorHandler.CreateVendor)
		vendors.PATCH("/:id", vendorHandler.UpdateVendor)
		vendors.DELETE("/:id", vendorHandler.DeleteVendor)
	}
}

// SetupPurchaseRoutes sets up purchase order and template routes
func SetupPurchaseRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	poHandler := handlers.NewPurchaseOrderHandler(db, cfg, redisClient)

	orders := rg.Group("/purchase-orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	orders.Use(middleware.BranchMiddleware(db))
	{
		orders.GET("", poHandler.GetOrders)
		orders.GET("/:id", poHandler.GetOrder)
		orders.POST("", poHandler.CreateOrder)
		orders.PATCH("/:id", poHandler.UpdateOrder)
		orders.PATCH("/:id/status", poHandler.UpdateStatus)
		orders.POST("/:id/receive", poHandler.ReceiveOrder)
		orders.GET("/:id/activity", poHandler.GetActivity)
		orders.GET("/:id/pdf", poHandler.GetOrderPDF)
	}

	templates := rg.Group("/po-templates")
	templates.Use(middleware.AuthMiddleware(cfg))
	{
		templates.GET("", poHandler.GetTemplates)
		templates.GET("/:id", poHandler.GetTemplate)
		templates.POST("", poHandler.CreateTemplate)
		templates.PATCH("/:id", poHandler.UpdateTemplate)
		templates.DELETE("/:id", poHandler.DeleteTemplate)
		templates.POST("/from-order/:orderId", poHandler.CreateTemplateFromOrder)
	}
}

// SetupTransferRoutes sets up inter-branch transfer routes
func SetupTransferRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	transferHandler := handlers.NewTransferHandler(db, cfg, redisClient)

	transfers := rg.Group("/transfers")
	transfers.Use(middleware.AuthMiddleware(cfg))
	transfers.Use(middleware.BranchMiddleware(db))
	{
		transfers.GET("", transferHandler.GetTransfers)
		transfers.GET("/destinations", transferHandler.GetDestinations)
		transfers.GET("/:id", transferHandler.GetTransfer)
		transfers.POST("", transferHandler.CreateTransfer)
		transfers.POST("/:id/receive", transferHandler.ReceiveTransfer)
		transfers.POST("/:id/cancel", transferHandler.CancelTransfer)
	}
}

// SetupStockRoutes sets up stock and timeline routes
func SetupStockRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	stockHandler := handlers.NewStockHandler(db, cfg, redisClient)

	stock := rg.Group("/stock")
	stock.Use(middleware.AuthMiddleware(cfg))
	stock.Use(middleware.BranchMiddleware(db))
	{
		stock.GET("", stockHandler.GetStock)
		stock.GET("/stats", stockHandler.GetStats)
		stock.PATCH("/:itemId/limits", stockHandler.UpdateLimits)
		stock.POST("/:itemId/adjust", stockHandler.Adjust)
	}

	timeline := rg.Group("/inventory/timeline")
	timeline.Use(middleware.AuthMiddleware(cfg))
	timeline.Use(middleware.BranchMiddleware(db))
	{
		timeline.GET("", stockHandler.GetTimeline)
		timeline.GET("/stats", stockHandler.GetTimelineStats)
		timeline.GET("/item/:itemId", stockHandler.GetItemTimeline)
	}
}

// SetupCountRoutes sets up inventory count routes
func SetupCountRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	countHandler := handlers.NewCountHandler(db, cfg, redisClient)

	counts := rg.Group("/inventory/counts")
	counts.Use(middleware.AuthMiddleware(cfg))
	counts.Use(middleware.BranchMiddleware(db))
	{
		counts.GET("", countHandler.GetCounts)
		counts.GET("/:id", countHandler.GetCount)
		counts.POST("", countHandler.CreateCount)
		counts.POST("/:id/start", countHandler.StartCount)
		counts.PATCH("/:id/lines", countHandler.RecordLines)
		counts.POST("/:id/complete", countHandler.CompleteCount)
		counts.POST("/:id/cancel", countHandler.CancelCount)
	}
}
