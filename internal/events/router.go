package events

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - anyone can browse events
	publicEvents := router.Group("/events")
	{
		publicEvents.GET("", controller.GetAllEvents)
		publicEvents.GET("/:eventId", controller.GetEvent)
	}

	// Admin routes - event management
	adminEvents := router.Group("/admin/events")
	adminEvents.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		adminEvents.POST("", controller.CreateEvent)
		adminEvents.PUT("/:eventId", controller.UpdateEvent)
		adminEvents.DELETE("/:eventId", controller.DeleteEvent)
	}
}
