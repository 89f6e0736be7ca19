package cart

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	AddSeat(c *gin.Context)
	RemoveSeat(c *gin.Context)
	GetCart(c *gin.Context)
	ClearCart(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

type seatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	SeatID    string `json:"seat_id" binding:"required,uuid"`
}

func (ctrl *controller) AddSeat(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cart, err := ctrl.service.AddSeat(c.Request.Context(), req.SessionID, req.SeatID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat added to cart", cart, nil)
}

func (ctrl *controller) RemoveSeat(c *gin.Context) {
	var req seatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	cart, err := ctrl.service.RemoveSeat(c.Request.Context(), req.SessionID, req.SeatID)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat removed from cart", cart, nil)
}

func (ctrl *controller) GetCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	cart := ctrl.service.GetCart(c.Request.Context(), sessionID)
	response.RespondJSON(c, "success", http.StatusOK, "Cart retrieved successfully", cart, nil)
}

func (ctrl *controller) ClearCart(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if err := ctrl.service.ClearCart(c.Request.Context(), sessionID); err != nil {
		response.RespondError(c, err)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Cart cleared successfully", nil, nil)
}
