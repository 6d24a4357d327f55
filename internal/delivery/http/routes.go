package http

import (
	"github.com/gin-gonic/gin"

	"github.com/shopassist/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		v1.GET("/products", handler.ListProducts)
		v1.GET("/categories", handler.ListCategories)
		v1.POST("/products/:id/ask", handler.AskAboutProduct)
		v1.POST("/constraints/parse", handler.ParseConstraints)
		v1.POST("/shortlist", handler.Shortlist)
		v1.DELETE("/session", handler.ResetSession)

		cart := v1.Group("/cart")
		{
			cart.GET("", handler.GetCart)
			cart.POST("/items", handler.AddCartItem)
			cart.DELETE("/items/:id", handler.RemoveCartItem)
			cart.POST("/checkout", handler.Checkout)
			cart.GET("/export", handler.ExportCart)
		}

		compare := v1.Group("/compare")
		{
			compare.GET("", handler.GetCompare)
			compare.POST("/:id/toggle", handler.ToggleCompare)
			compare.DELETE("", handler.ClearCompare)
		}

		assistant := v1.Group("/assistant")
		{
			assistant.GET("/greeting", handler.Greeting)
			assistant.POST("/chat", handler.Chat)
			assistant.POST("/tools/:name", handler.RunTool)
		}
	}

	return router
}
