package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boletera/internal/shared/apperrors"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errs interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errs,
	})
}

// RespondError maps a service error onto the shared taxonomy and writes the
// standard envelope with the matching HTTP status code.
func RespondError(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidState):
		code = http.StatusConflict
	case errors.Is(err, apperrors.ErrValidation):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUpstream):
		code = http.StatusBadGateway
	}
	RespondJSON(c, "error", code, err.Error(), nil, nil)
}
