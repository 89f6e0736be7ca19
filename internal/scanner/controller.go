package scanner

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"boletera/internal/shared/utils/response"
)

type Controller interface {
	Scan(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) Scan(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	scannerIDRaw, exists := c.Get("user_id")
	if !exists {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Scanner not authenticated", nil, nil)
		return
	}
	scannerID, err := uuid.Parse(scannerIDRaw.(string))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid scanner identity", nil, nil)
		return
	}

	outcome, err := ctrl.service.Scan(c.Request.Context(), scannerID, req)
	if err != nil {
		response.RespondError(c, err)
		return
	}

	message := "Ticket admitted"
	if !outcome.Admitted {
		message = "Ticket denied"
	}
	response.RespondJSON(c, "success", http.StatusOK, message, outcome, nil)
}
