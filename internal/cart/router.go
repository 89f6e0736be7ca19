package cart

import (
	"github.com/gin-gonic/gin"
)

func SetupCartRoutes(router *gin.RouterGroup, controller Controller) {
	carts := router.Group("/cart")
	{
		carts.POST("/add", controller.AddSeat)
		carts.POST("/remove", controller.RemoveSeat)
		carts.GET("/:sessionId", controller.GetCart)
		carts.DELETE("/:sessionId", controller.ClearCart)
	}
}
