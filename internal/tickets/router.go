package tickets

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	userTickets := router.Group("/tickets")
	userTickets.Use(middleware.JWTAuthWithConfig(cfg))
	{
		userTickets.GET("/me", controller.GetMyTickets)
		userTickets.GET("/:ticketId", controller.GetTicket)
	}

	// Staff can pre-check a ticket without consuming it
	staffTickets := router.Group("/tickets")
	staffTickets.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireStaff())
	{
		staffTickets.GET("/:ticketId/validate", controller.ValidateTicket)
	}
}
