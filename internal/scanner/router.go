package scanner

import (
	"boletera/internal/shared/config"
	"boletera/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupScannerRoutes(router *gin.RouterGroup, controller Controller, cfg *config.Config) {
	scan := router.Group("/scan")
	scan.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireStaff())
	{
		scan.POST("", controller.Scan)
	}
}
