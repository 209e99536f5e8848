package api

import (
	"github.com/gin-gonic/gin"
	"github.com/vibematch/vibematch-api/internal/api/handlers"
	apimiddleware "github.com/vibematch/vibematch-api/internal/api/middleware"
	"github.com/vibematch/vibematch-api/internal/config"
	"github.com/vibematch/vibematch-api/internal/middleware"
	"gorm.io/gorm"
)

// SetupRouter wires middleware and routes. The recommender is injected so
// tests can run the full HTTP surface against a stubbed pipeline.
func SetupRouter(db *gorm.DB, cfg *config.Config, recommender handlers.Recommender) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking())

	// CORS middleware
	router.Use(apimiddleware.CORS())

	// Health check
	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.HealthCheck)

	// Recommendations: open to guests, bearer identity picked up when present
	recommendHandler := handlers.NewRecommendHandler(cfg, db, recommender)
	router.POST("/api/v1/recommendations",
		middleware.OptionalJWTAuth(db, cfg), recommendHandler.Recommend)

	// Account-scoped routes (require JWT)
	v1 := router.Group("/api/v1")
	v1.Use(middleware.JWTAuth(db, cfg))
	{
		creditsHandler := handlers.NewCreditsHandler(db)
		v1.GET("/credits", creditsHandler.GetCredits)
		v1.POST("/credits/purchase", creditsHandler.PurchaseCredits)
		v1.GET("/usage/stats", creditsHandler.GetUsageStats)

		accountHandler := handlers.NewAccountHandler(db)
		v1.DELETE("/account", accountHandler.DeleteAccount)
	}

	return router
}
