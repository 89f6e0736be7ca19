package zones

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	CreateZone(c *gin.Context)
	GetZone(c *gin.Context)
	GetZonesByEvent(c *gin.Context)
	UpdateZone(c *gin.Context)
	DeleteZone(c *gin.Context)
	GetEventRevenue(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateZone(c *gin.Context) {
	var req CreateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	zone, err := ctrl.service.CreateZone(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Zone created successfully", zone, nil)
}

func (ctrl *controller) GetZone(c *gin.Context) {
	zone, err := ctrl.service.GetZone(c.Request.Context(), c.Param("zoneId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Zone retrieved successfully", zone, nil)
}

func (ctrl *controller) GetZonesByEvent(c *gin.Context) {
	zones, err := ctrl.service.GetZonesByEvent(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Zones retrieved successfully", zones, nil)
}

func (ctrl *controller) UpdateZone(c *gin.Context) {
	var req UpdateZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	zone, err := ctrl.service.UpdateZone(c.Request.Context(), c.Param("zoneId"), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Zone updated successfully", zone, nil)
}

func (ctrl *controller) DeleteZone(c *gin.Context) {
	if err := ctrl.service.DeleteZone(c.Request.Context(), c.Param("zoneId")); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Zone deleted successfully", nil, nil)
}

func (ctrl *controller) GetEventRevenue(c *gin.Context) {
	summary, err := ctrl.service.GetEventRevenue(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Revenue summary retrieved successfully", summary, nil)
}
