package zones

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupZoneRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - seat map browsing needs the zone catalog
	public := router.Group("")
	{
		public.GET("/events/:eventId/zones", controller.GetZonesByEvent)
		public.GET("/zones/:zoneId", controller.GetZone)
	}

	// Admin routes - zone management and revenue
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/zones", controller.CreateZone)
		admin.PUT("/zones/:zoneId", controller.UpdateZone)
		admin.DELETE("/zones/:zoneId", controller.DeleteZone)
		admin.GET("/events/:eventId/revenue", controller.GetEventRevenue)
	}
}
