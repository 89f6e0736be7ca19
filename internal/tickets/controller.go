package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	GetMyTickets(c *gin.Context)
	GetTicket(c *gin.Context)
	ValidateTicket(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

// GetMyTickets lists the authenticated user's tickets, newest first.
func (ctrl *controller) GetMyTickets(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	tickets, err := ctrl.service.GetTicketsByUser(c.Request.Context(), userID.(string))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tickets retrieved successfully", tickets, nil)
}

func (ctrl *controller) GetTicket(c *gin.Context) {
	ticket, err := ctrl.service.ValidateTicket(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Ticket retrieved successfully", ticket, nil)
}

// ValidateTicket reports whether a ticket could be admitted without
// consuming it.
func (ctrl *controller) ValidateTicket(c *gin.Context) {
	ticket, err := ctrl.service.ValidateTicket(c.Request.Context(), c.Param("ticketId"))
	if err != nil {
		response.RespondError(c, err)
		return
	}

	result := gin.H{
		"ticket_id": ticket.ID,
		"status":    ticket.Status,
		"usable":    ticket.IsUsable(),
	}
	response.RespondJSON(c, "success", http.StatusOK, "Ticket validated", result, nil)
}
