package response

import (
	"net/http"

	"boletamaster/internal/shared/apperr"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every API response. Data is set on success, Errors on failure.
type Envelope struct {
	Status     string      `json:"status"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Errors     interface{} `json:"errors,omitempty"`
}

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, Envelope{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindInvalidState:
		return http.StatusConflict
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the standard error envelope with the status derived from err.
func RespondError(c *gin.Context, message string, err error) {
	code := StatusFor(err)
	RespondJSON(c, "error", code, message, nil, gin.H{
		"kind":    apperr.KindOf(err),
		"details": err.Error(),
	})
}
