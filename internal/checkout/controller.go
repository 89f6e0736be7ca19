package checkout

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	BeginCheckout(c *gin.Context)
	Confirm(c *gin.Context)
	Cancel(c *gin.Context)
	GetSession(c *gin.Context)
	GetTimer(c *gin.Context)
	ExtendTimer(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw.(string))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func (ctrl *controller) BeginCheckout(c *gin.Context) {
	var req BeginCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	result, err := ctrl.service.BeginCheckout(c.Request.Context(), userID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusCreated, "Checkout started", result, nil)
}

func (ctrl *controller) Confirm(c *gin.Context) {
	result, err := ctrl.service.Confirm(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout completed", result, nil)
}

func (ctrl *controller) Cancel(c *gin.Context) {
	if err := ctrl.service.Cancel(c.Request.Context(), c.Param("checkoutId")); err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout cancelled", nil, nil)
}

func (ctrl *controller) GetSession(c *gin.Context) {
	session, err := ctrl.service.GetSession(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Checkout retrieved successfully", session, nil)
}

func (ctrl *controller) GetTimer(c *gin.Context) {
	status, err := ctrl.service.GetRemainingTime(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Timer retrieved successfully", status, nil)
}

func (ctrl *controller) ExtendTimer(c *gin.Context) {
	status, err := ctrl.service.ExtendTimer(c.Request.Context(), c.Param("checkoutId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Timer extended successfully", status, nil)
}
