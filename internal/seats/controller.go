package seats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	CreateSeats(c *gin.Context)
	GetSeat(c *gin.Context)
	GetSeatsByZone(c *gin.Context)
	SelectSeat(c *gin.Context)
	DeselectSeat(c *gin.Context)
	ReleaseSeat(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) CreateSeats(c *gin.Context) {
	var req CreateSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	seats, err := ctrl.service.CreateSeats(c.Request.Context(), req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Seats created successfully", seats, nil)
}

func (ctrl *controller) GetSeat(c *gin.Context) {
	seat, err := ctrl.service.GetSeat(c.Request.Context(), c.Param("seatId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat retrieved successfully", seat, nil)
}

func (ctrl *controller) GetSeatsByZone(c *gin.Context) {
	// session_id lets the seat map skip greying out the caller's own holds
	sessionID := c.Query("session_id")

	seats, err := ctrl.service.GetSeatsByZone(c.Request.Context(), c.Param("zoneId"), sessionID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", seats, nil)
}

func (ctrl *controller) SelectSeat(c *gin.Context) {
	var req SelectSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.SelectSeat(c.Request.Context(), req); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat selected successfully", nil, nil)
}

func (ctrl *controller) DeselectSeat(c *gin.Context) {
	var req SelectSeatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.service.DeselectSeat(c.Request.Context(), req); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat deselected successfully", nil, nil)
}

func (ctrl *controller) ReleaseSeat(c *gin.Context) {
	if err := ctrl.service.ReleaseSeat(c.Request.Context(), c.Param("seatId")); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat released successfully", nil, nil)
}
