package routes

import (
	"net/http"

	"achatavis_backend/internal/handlers"
	"achatavis_backend/internal/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, db *gorm.DB) {
	ginRouter.GET("/health", healthHandler(db))

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.CatalogHandler.RegisterRoutes(api)
		appHandlers.GmailAccountHandler.RegisterRoutes(api)
		appHandlers.OrderHandler.RegisterRoutes(api)
		appHandlers.ProposalHandler.RegisterRoutes(api)
		appHandlers.MissionHandler.RegisterRoutes(api)
		appHandlers.SubmissionHandler.RegisterRoutes(api)
		appHandlers.ComplianceHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
	}
	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.CtxWithError(c.Request.Context(), "Health check failed", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
