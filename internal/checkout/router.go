package checkout

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupCheckoutRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	checkouts := router.Group("/checkout")
	checkouts.Use(middleware.JWTAuthWithConfig(cfg))
	{
		checkouts.POST("", controller.BeginCheckout)
		checkouts.GET("/:checkoutId", controller.GetSession)
		checkouts.POST("/:checkoutId/confirm", controller.Confirm)
		checkouts.POST("/:checkoutId/cancel", controller.Cancel)
		checkouts.GET("/:checkoutId/timer", controller.GetTimer)
		checkouts.POST("/:checkoutId/extend", controller.ExtendTimer)
	}
}
