package seats

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	// Public routes - seat maps and selection holds
	public := router.Group("")
	{
		public.GET("/zones/:zoneId/seats", controller.GetSeatsByZone)
		public.GET("/seats/:seatId", controller.GetSeat)
		public.POST("/seats/select", controller.SelectSeat)
		public.POST("/seats/deselect", controller.DeselectSeat)
	}

	// Admin routes - seat generation and stuck-reservation release
	admin := router.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/seats", controller.CreateSeats)
		admin.POST("/seats/:seatId/release", controller.ReleaseSeat)
	}
}
